package repositories

import (
	"context"
	"errors"

	"github.com/haivt/luckydraw-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	FindByBraceletCode(ctx context.Context, code string) (*models.Customer, error)
	FindAll(ctx context.Context) ([]*models.Customer, error)
	FindEligible(ctx context.Context) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	MarkWon(ctx context.Context, id primitive.ObjectID, prizeName string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountWinners(ctx context.Context) (int64, error)
}

// BraceletCodeRepository defines the interface for bracelet code data operations
type BraceletCodeRepository interface {
	Create(ctx context.Context, code *models.BraceletCode) error
	CreateMany(ctx context.Context, codes []*models.BraceletCode) error
	FindByCode(ctx context.Context, code string) (*models.BraceletCode, error)
	FindAll(ctx context.Context) ([]*models.BraceletCode, error)
	// Activate flips IsActivated only if it is currently false and reports
	// whether this call won the flip.
	Activate(ctx context.Context, id primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountActivated(ctx context.Context) (int64, error)
}

// DrawSettingsRepository manages the singleton draw_settings document
type DrawSettingsRepository interface {
	Get(ctx context.Context) (*models.DrawSettings, error)
	// Update persists the full settings document and refreshes UpdatedAt.
	Update(ctx context.Context, settings *models.DrawSettings) error
	// EnsureExists provisions the singleton document if it is missing.
	EnsureExists(ctx context.Context) error
}

// LoginTokenRepository defines the interface for magic-link token operations
type LoginTokenRepository interface {
	Create(ctx context.Context, token *models.LoginToken) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.LoginToken, error)
	// MarkUsed stamps UsedAt only if the token is still unused and reports
	// whether this call won the stamp.
	MarkUsed(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Shared storage sentinels. Mongo implementations translate driver errors
// (mongo.ErrNoDocuments, duplicate-key write errors) to these so services
// stay driver-agnostic.
var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)
