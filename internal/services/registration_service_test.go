package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationFixture(t *testing.T) (*RegistrationService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewRegistrationService(store.Customers(), store.BraceletCodes(), slog.Default())
	return svc, store
}

func TestRegisterWithoutBraceletMintsSixDigitCode(t *testing.T) {
	svc, store := newRegistrationFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, "Lan", "0912345678", false, "")
	require.NoError(t, err)
	assert.Equal(t, "Lan", result.Name)
	require.Len(t, result.Code, 6)
	assert.GreaterOrEqual(t, result.Code, "100000")
	assert.LessOrEqual(t, result.Code, "999999")

	customer, err := store.Customers().FindByPhone(ctx, "0912345678")
	require.NoError(t, err)
	assert.Equal(t, result.Code, customer.BraceletCode)
	assert.False(t, customer.HasExistingCode)
	assert.False(t, customer.HasWon)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newRegistrationFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		custName    string
		phone       string
		hasBracelet bool
		code        string
		wantErr     error
	}{
		{"empty name", "  ", "0912345678", false, "", models.ErrNameRequired},
		{"short phone", "Lan", "091234567", false, "", models.ErrInvalidPhone},
		{"long phone", "Lan", "09123456789", false, "", models.ErrInvalidPhone},
		{"letters in phone", "Lan", "09123a5678", false, "", models.ErrInvalidPhone},
		{"bracelet declared but no code", "Lan", "0912345678", true, " ", models.ErrCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.custName, tt.phone, tt.hasBracelet, tt.code)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterAcceptsPhoneWithSpaces(t *testing.T) {
	svc, store := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Lan", "091 234 5678", false, "")
	require.NoError(t, err)

	_, err = store.Customers().FindByPhone(ctx, "0912345678")
	assert.NoError(t, err)
}

func TestRegisterDuplicatePhoneFailsRegardlessOfCode(t *testing.T) {
	svc, store := newRegistrationFixture(t)
	ctx := context.Background()

	require.NoError(t, store.BraceletCodes().Create(ctx, &models.BraceletCode{Code: "ABC123"}))
	require.NoError(t, store.BraceletCodes().Create(ctx, &models.BraceletCode{Code: "XYZ789"}))

	_, err := svc.Register(ctx, "Lan", "0912345678", true, "ABC123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Minh", "0912345678", true, "XYZ789")
	assert.ErrorIs(t, err, models.ErrPhoneTaken)

	_, err = svc.Register(ctx, "Minh", "0912345678", false, "")
	assert.ErrorIs(t, err, models.ErrPhoneTaken)

	// The failed attempts must not have consumed the second code.
	xyz, err := store.BraceletCodes().FindByCode(ctx, "XYZ789")
	require.NoError(t, err)
	assert.False(t, xyz.IsActivated)
}

func TestRegisterBraceletScenario(t *testing.T) {
	svc, store := newRegistrationFixture(t)
	ctx := context.Background()

	require.NoError(t, store.BraceletCodes().Create(ctx, &models.BraceletCode{Code: "ABC123"}))

	result, err := svc.Register(ctx, "Lan", "0912345678", true, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", result.Code)

	bc, err := store.BraceletCodes().FindByCode(ctx, "ABC123")
	require.NoError(t, err)
	assert.True(t, bc.IsActivated)
	require.NotNil(t, bc.ActivatedAt)

	customer, err := store.Customers().FindByPhone(ctx, "0912345678")
	require.NoError(t, err)
	assert.True(t, customer.HasExistingCode)

	// Same phone again: conflict, any code input.
	_, err = svc.Register(ctx, "Lan", "0912345678", true, "ABC123")
	assert.ErrorIs(t, err, models.ErrPhoneTaken)

	// Same code, different phone: already used.
	_, err = svc.Register(ctx, "Minh", "0987654321", true, "ABC123")
	assert.ErrorIs(t, err, models.ErrCodeUsed)
}

func TestRegisterUnknownBraceletCode(t *testing.T) {
	svc, _ := newRegistrationFixture(t)

	_, err := svc.Register(context.Background(), "Lan", "0912345678", true, "NOPE99")
	assert.ErrorIs(t, err, models.ErrCodeNotFound)
}

func TestRegisterLowercasesBraceletInputToUpper(t *testing.T) {
	svc, store := newRegistrationFixture(t)
	ctx := context.Background()

	require.NoError(t, store.BraceletCodes().Create(ctx, &models.BraceletCode{Code: "ABC123"}))

	result, err := svc.Register(ctx, "Lan", "0912345678", true, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", result.Code)
}

func TestRegisterDistinctPhonesYieldDistinctCodes(t *testing.T) {
	svc, store := newRegistrationFixture(t)
	ctx := context.Background()

	phones := []string{"0911111111", "0922222222", "0933333333", "0944444444", "0955555555"}
	for i, phone := range phones {
		_, err := svc.Register(ctx, "Player", phone, false, "")
		require.NoError(t, err, "registration %d", i)
	}

	customers, err := store.Customers().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, customers, len(phones))

	seenPhones := make(map[string]bool)
	seenCodes := make(map[string]bool)
	for _, c := range customers {
		assert.False(t, seenPhones[c.Phone], "duplicate phone %s", c.Phone)
		assert.False(t, seenCodes[c.BraceletCode], "duplicate code %s", c.BraceletCode)
		seenPhones[c.Phone] = true
		seenCodes[c.BraceletCode] = true
	}
}
