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

// Compile-time check to ensure CustomerRepository implements the interface
var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository handles MongoDB operations for Customer
type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new CustomerRepository and ensures the
// unique indexes on phone and braceletCode that back registration conflicts.
func NewCustomerRepository(db *mongo.Database) (*CustomerRepository, error) {
	r := &CustomerRepository{
		collection: db.Collection("customers"),
	}

	_, err := r.collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "braceletCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new customer. A unique-index violation is reported as
// repositories.ErrDuplicateKey.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, customer)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicateKey
	}
	return err
}

// FindByID finds a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByPhone finds a customer by phone number
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

// FindByBraceletCode finds a customer by bracelet code
func (r *CustomerRepository) FindByBraceletCode(ctx context.Context, code string) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"braceletCode": code})
}

func (r *CustomerRepository) findOne(ctx context.Context, filter bson.M) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, filter).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindAll retrieves all customers, newest first
func (r *CustomerRepository) FindAll(ctx context.Context) ([]*models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

// FindEligible retrieves customers who have not won yet
func (r *CustomerRepository) FindEligible(ctx context.Context) ([]*models.Customer, error) {
	return r.find(ctx, bson.M{"hasWon": false})
}

func (r *CustomerRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.Customer, error) {
	var customers []*models.Customer
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	return customers, nil
}

// Update updates an existing customer
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now()
	filter := bson.M{"_id": customer.ID}
	update := bson.M{"$set": customer}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// MarkWon stamps hasWon, prizeName and wonAt on the chosen customer
func (r *CustomerRepository) MarkWon(ctx context.Context, id primitive.ObjectID, prizeName string) error {
	now := time.Now()
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"hasWon":    true,
		"prizeName": prizeName,
		"wonAt":     now,
		"updatedAt": now,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a customer by ID
func (r *CustomerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count returns the total number of customers
func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountWinners returns the number of customers who have won
func (r *CustomerRepository) CountWinners(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"hasWon": true})
}
