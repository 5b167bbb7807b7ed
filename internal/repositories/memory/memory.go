// Package memory provides map-backed implementations of the repository
// interfaces. They back the test suite and the --in-memory development mode,
// and they enforce the same uniqueness and conditional-update semantics the
// MongoDB implementations get from indexes and filtered updates.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store bundles all in-memory repositories over one mutex-guarded dataset.
type Store struct {
	mu        sync.RWMutex
	customers map[primitive.ObjectID]*models.Customer
	codes     map[primitive.ObjectID]*models.BraceletCode
	settings  *models.DrawSettings
	tokens    map[primitive.ObjectID]*models.LoginToken
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		customers: make(map[primitive.ObjectID]*models.Customer),
		codes:     make(map[primitive.ObjectID]*models.BraceletCode),
		tokens:    make(map[primitive.ObjectID]*models.LoginToken),
	}
}

// Customers returns the customer repository view of the store.
func (s *Store) Customers() repositories.CustomerRepository { return (*customerRepo)(s) }

// BraceletCodes returns the bracelet-code repository view of the store.
func (s *Store) BraceletCodes() repositories.BraceletCodeRepository { return (*codeRepo)(s) }

// DrawSettings returns the draw-settings repository view of the store.
func (s *Store) DrawSettings() repositories.DrawSettingsRepository { return (*settingsRepo)(s) }

// LoginTokens returns the login-token repository view of the store.
func (s *Store) LoginTokens() repositories.LoginTokenRepository { return (*tokenRepo)(s) }

// --- customers ---

type customerRepo Store

var _ repositories.CustomerRepository = (*customerRepo)(nil)

func (r *customerRepo) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == customer.Phone || c.BraceletCode == customer.BraceletCode {
			return repositories.ErrDuplicateKey
		}
	}
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *customerRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *customerRepo) FindByPhone(_ context.Context, phone string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *customerRepo) FindByBraceletCode(_ context.Context, code string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.BraceletCode == code {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *customerRepo) FindAll(_ context.Context) ([]*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *customerRepo) FindEligible(_ context.Context) ([]*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Customer, 0)
	for _, c := range r.customers {
		if !c.HasWon {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *customerRepo) Update(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return repositories.ErrNotFound
	}
	customer.UpdatedAt = time.Now()
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *customerRepo) MarkWon(_ context.Context, id primitive.ObjectID, prizeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return repositories.ErrNotFound
	}
	now := time.Now()
	c.HasWon = true
	c.PrizeName = prizeName
	c.WonAt = &now
	c.UpdatedAt = now
	return nil
}

func (r *customerRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *customerRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.customers)), nil
}

func (r *customerRepo) CountWinners(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, c := range r.customers {
		if c.HasWon {
			n++
		}
	}
	return n, nil
}

// --- bracelet codes ---

type codeRepo Store

var _ repositories.BraceletCodeRepository = (*codeRepo)(nil)

func (r *codeRepo) Create(_ context.Context, code *models.BraceletCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(code)
}

func (r *codeRepo) CreateMany(_ context.Context, codes []*models.BraceletCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, code := range codes {
		if err := r.insertLocked(code); err != nil {
			return err
		}
	}
	return nil
}

func (r *codeRepo) insertLocked(code *models.BraceletCode) error {
	for _, existing := range r.codes {
		if existing.Code == code.Code {
			return repositories.ErrDuplicateKey
		}
	}
	code.ID = primitive.NewObjectID()
	code.CreatedAt = time.Now()
	clone := *code
	r.codes[code.ID] = &clone
	return nil
}

func (r *codeRepo) FindByCode(_ context.Context, code string) (*models.BraceletCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bc := range r.codes {
		if bc.Code == code {
			clone := *bc
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *codeRepo) FindAll(_ context.Context) ([]*models.BraceletCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.BraceletCode, 0, len(r.codes))
	for _, bc := range r.codes {
		clone := *bc
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *codeRepo) Activate(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bc, ok := r.codes[id]
	if !ok || bc.IsActivated {
		return false, nil
	}
	now := time.Now()
	bc.IsActivated = true
	bc.ActivatedAt = &now
	return true, nil
}

func (r *codeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, id)
	return nil
}

func (r *codeRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.codes)), nil
}

func (r *codeRepo) CountActivated(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, bc := range r.codes {
		if bc.IsActivated {
			n++
		}
	}
	return n, nil
}

// --- draw settings ---

type settingsRepo Store

var _ repositories.DrawSettingsRepository = (*settingsRepo)(nil)

func (r *settingsRepo) Get(_ context.Context) (*models.DrawSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, repositories.ErrNotFound
	}
	clone := *r.settings
	return &clone, nil
}

func (r *settingsRepo) Update(_ context.Context, settings *models.DrawSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return repositories.ErrNotFound
	}
	settings.ID = models.DrawSettingsID
	settings.UpdatedAt = time.Now()
	clone := *settings
	r.settings = &clone
	return nil
}

func (r *settingsRepo) EnsureExists(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		r.settings = &models.DrawSettings{
			ID:        models.DrawSettingsID,
			UpdatedAt: time.Now(),
		}
	}
	return nil
}

// --- login tokens ---

type tokenRepo Store

var _ repositories.LoginTokenRepository = (*tokenRepo)(nil)

func (r *tokenRepo) Create(_ context.Context, token *models.LoginToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.ID] = &clone
	return nil
}

func (r *tokenRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.LoginToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *tokenRepo) MarkUsed(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok || t.UsedAt != nil {
		return false, nil
	}
	now := time.Now()
	t.UsedAt = &now
	return true, nil
}
