package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure DrawSettingsRepository implements the interface
var _ repositories.DrawSettingsRepository = (*DrawSettingsRepository)(nil)

// DrawSettingsRepository manages the singleton draw_settings document.
// The fixed _id keeps the collection to exactly one live row.
type DrawSettingsRepository struct {
	collection *mongo.Collection
}

// NewDrawSettingsRepository creates a new DrawSettingsRepository
func NewDrawSettingsRepository(db *mongo.Database) *DrawSettingsRepository {
	return &DrawSettingsRepository{
		collection: db.Collection("draw_settings"),
	}
}

// Get returns the singleton settings document
func (r *DrawSettingsRepository) Get(ctx context.Context) (*models.DrawSettings, error) {
	var settings models.DrawSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.DrawSettingsID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update persists the full settings document with a fresh UpdatedAt
func (r *DrawSettingsRepository) Update(ctx context.Context, settings *models.DrawSettings) error {
	settings.ID = models.DrawSettingsID
	settings.UpdatedAt = time.Now()
	filter := bson.M{"_id": models.DrawSettingsID}
	update := bson.M{"$set": settings}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// EnsureExists provisions the singleton document if it is missing
func (r *DrawSettingsRepository) EnsureExists(ctx context.Context) error {
	_, err := r.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	settings := &models.DrawSettings{
		ID:        models.DrawSettingsID,
		UpdatedAt: time.Now(),
	}
	_, err = r.collection.InsertOne(ctx, settings)
	if mongo.IsDuplicateKeyError(err) {
		// Lost a provisioning race; the document exists now.
		return nil
	}
	return err
}
