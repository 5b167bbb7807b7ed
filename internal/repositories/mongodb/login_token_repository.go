package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure LoginTokenRepository implements the interface
var _ repositories.LoginTokenRepository = (*LoginTokenRepository)(nil)

// LoginTokenRepository handles MongoDB operations for magic-link tokens
type LoginTokenRepository struct {
	collection *mongo.Collection
}

// NewLoginTokenRepository creates a new LoginTokenRepository
func NewLoginTokenRepository(db *mongo.Database) *LoginTokenRepository {
	return &LoginTokenRepository{
		collection: db.Collection("login_tokens"),
	}
}

// Create inserts a new login token
func (r *LoginTokenRepository) Create(ctx context.Context, token *models.LoginToken) error {
	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, token)
	return err
}

// FindByID finds a login token by ID
func (r *LoginTokenRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.LoginToken, error) {
	var token models.LoginToken
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// MarkUsed stamps usedAt only if the token is still unused, so a link can be
// exchanged exactly once even under concurrent callbacks.
func (r *LoginTokenRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "usedAt": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"usedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}
