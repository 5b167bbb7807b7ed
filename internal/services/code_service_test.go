package services

import (
	"context"
	"testing"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCodeNormalizesAndRejectsDuplicates(t *testing.T) {
	store := memory.NewStore()
	svc := NewCodeService(store.BraceletCodes())
	ctx := context.Background()

	bc, err := svc.CreateCode(ctx, "  abc123 ")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", bc.Code)
	assert.False(t, bc.IsActivated)

	_, err = svc.CreateCode(ctx, "ABC123")
	assert.ErrorIs(t, err, models.ErrCodeUsed)

	_, err = svc.CreateCode(ctx, "   ")
	assert.ErrorIs(t, err, models.ErrCodeRequired)
}

func TestBulkGenerate(t *testing.T) {
	store := memory.NewStore()
	svc := NewCodeService(store.BraceletCodes())
	ctx := context.Background()

	batch, err := svc.BulkGenerate(ctx, 50)
	require.NoError(t, err)
	require.Len(t, batch, 50)

	seen := make(map[string]bool)
	for _, bc := range batch {
		require.Len(t, bc.Code, 8)
		assert.False(t, seen[bc.Code], "duplicate generated code %s", bc.Code)
		seen[bc.Code] = true
	}

	count, err := store.BraceletCodes().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 50, count)
}

func TestBulkGenerateRejectsBadCounts(t *testing.T) {
	svc := NewCodeService(memory.NewStore().BraceletCodes())

	_, err := svc.BulkGenerate(context.Background(), 0)
	assert.Error(t, err)
	_, err = svc.BulkGenerate(context.Background(), 1001)
	assert.Error(t, err)
}

func TestStatsCountsActivationAndWinners(t *testing.T) {
	store := memory.NewStore()
	codeSvc := NewCodeService(store.BraceletCodes())
	custSvc := NewCustomerService(store.Customers(), store.BraceletCodes())
	ctx := context.Background()

	bc, err := codeSvc.CreateCode(ctx, "ABC123")
	require.NoError(t, err)
	_, err = codeSvc.CreateCode(ctx, "XYZ789")
	require.NoError(t, err)

	won, err := store.BraceletCodes().Activate(ctx, bc.ID)
	require.NoError(t, err)
	require.True(t, won)

	c := &models.Customer{Name: "Lan", Phone: "0912345678", BraceletCode: "ABC123"}
	require.NoError(t, store.Customers().Create(ctx, c))
	require.NoError(t, store.Customers().MarkWon(ctx, c.ID, "Voucher"))

	stats, err := custSvc.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.TotalWinners)
	assert.EqualValues(t, 2, stats.TotalCodes)
	assert.EqualValues(t, 1, stats.ActivatedCodes)
}

func TestActivateIsSingleShot(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	bc := &models.BraceletCode{Code: "ABC123"}
	require.NoError(t, store.BraceletCodes().Create(ctx, bc))

	won, err := store.BraceletCodes().Activate(ctx, bc.ID)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.BraceletCodes().Activate(ctx, bc.ID)
	require.NoError(t, err)
	assert.False(t, won)
}
