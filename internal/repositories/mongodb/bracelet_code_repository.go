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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure BraceletCodeRepository implements the interface
var _ repositories.BraceletCodeRepository = (*BraceletCodeRepository)(nil)

// BraceletCodeRepository handles MongoDB operations for BraceletCode
type BraceletCodeRepository struct {
	collection *mongo.Collection
}

// NewBraceletCodeRepository creates a new BraceletCodeRepository and ensures
// the unique index on code.
func NewBraceletCodeRepository(db *mongo.Database) (*BraceletCodeRepository, error) {
	r := &BraceletCodeRepository{
		collection: db.Collection("bracelet_codes"),
	}

	_, err := r.collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new bracelet code
func (r *BraceletCodeRepository) Create(ctx context.Context, code *models.BraceletCode) error {
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, code)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicateKey
	}
	return err
}

// CreateMany inserts a batch of bracelet codes
func (r *BraceletCodeRepository) CreateMany(ctx context.Context, codes []*models.BraceletCode) error {
	docs := make([]interface{}, 0, len(codes))
	now := time.Now()
	for _, code := range codes {
		code.ID = primitive.NewObjectID()
		code.CreatedAt = now
		docs = append(docs, code)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicateKey
	}
	return err
}

// FindByCode finds a bracelet code by its code string
func (r *BraceletCodeRepository) FindByCode(ctx context.Context, code string) (*models.BraceletCode, error) {
	var bc models.BraceletCode
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&bc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bc, nil
}

// FindAll retrieves all bracelet codes, newest first
func (r *BraceletCodeRepository) FindAll(ctx context.Context) ([]*models.BraceletCode, error) {
	var codes []*models.BraceletCode
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &codes); err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []*models.BraceletCode{}
	}
	return codes, nil
}

// Activate conditionally flips isActivated from false to true. The filter on
// isActivated makes the flip atomic: of two concurrent claims only one
// matches, and the loser sees won=false.
func (r *BraceletCodeRepository) Activate(ctx context.Context, id primitive.ObjectID) (bool, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "isActivated": false}
	update := bson.M{"$set": bson.M{"isActivated": true, "activatedAt": now}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// Delete deletes a bracelet code by ID
func (r *BraceletCodeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count returns the total number of bracelet codes
func (r *BraceletCodeRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountActivated returns the number of activated bracelet codes
func (r *BraceletCodeRepository) CountActivated(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isActivated": true})
}
