package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/haivt/luckydraw-backend/internal/events"
	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDrawFixture(t *testing.T) (*DrawService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.DrawSettings().EnsureExists(context.Background()))
	bus := events.NewBus(slog.Default())
	t.Cleanup(func() { _ = bus.Close() })
	svc := NewDrawService(store.DrawSettings(), store.Customers(), bus, slog.Default())
	return svc, store
}

func addCustomer(t *testing.T, store *memory.Store, name, phone, code string, hasWon bool) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Phone: phone, BraceletCode: code}
	require.NoError(t, store.Customers().Create(context.Background(), c))
	if hasWon {
		require.NoError(t, store.Customers().MarkWon(context.Background(), c.ID, "earlier prize"))
	}
	return c
}

func TestStartFailsWithNoEligiblePlayers(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()

	before, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	_, err = svc.Start(ctx, "Voucher", 0)
	assert.ErrorIs(t, err, models.ErrNoEligiblePlayers)

	// State unchanged from before the call.
	after, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.State(), after.State())
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

	// All winners is the same as nobody registered.
	addCustomer(t, store, "Lan", "0911111111", "100001", true)
	_, err = svc.Start(ctx, "Voucher", 0)
	assert.ErrorIs(t, err, models.ErrNoEligiblePlayers)
}

func TestStartClearsWinnerAndSpins(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	// Leftovers from a previous round.
	settings, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	settings.ShowResult = true
	settings.WinningCode = "999999"
	settings.WinningName = "Old Winner"
	require.NoError(t, store.DrawSettings().Update(ctx, settings))

	settings, err = svc.Start(ctx, "iPhone 17", 0)
	require.NoError(t, err)
	defer svc.scheduler.Cancel()

	assert.Equal(t, models.DrawStateSpinning, settings.State())
	assert.True(t, settings.IsSpinning)
	assert.False(t, settings.ShowResult)
	assert.Empty(t, settings.WinningCode)
	assert.Empty(t, settings.WinningName)
	assert.Equal(t, "iPhone 17", settings.CurrentPrize)
}

func TestStartWhileSpinningFails(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	_, err := svc.Start(ctx, "Voucher", 0)
	require.NoError(t, err)
	defer svc.scheduler.Cancel()

	_, err = svc.Start(ctx, "Voucher", 0)
	assert.ErrorIs(t, err, models.ErrAlreadySpinning)
}

func TestScheduledCommitSelectsWinner(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)
	addCustomer(t, store, "Minh", "0922222222", "100002", false)

	_, err := svc.Start(ctx, "Voucher", 0)
	require.NoError(t, err)
	svc.scheduler.Cancel()

	svc.commitScheduledResult()

	settings, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStateResultShown, settings.State())
	assert.False(t, settings.IsSpinning)
	assert.True(t, settings.ShowResult)
	require.NotEmpty(t, settings.WinningCode)

	// Exactly one customer became a winner, and it matches the committed code.
	winner, err := store.Customers().FindByBraceletCode(ctx, settings.WinningCode)
	require.NoError(t, err)
	assert.True(t, winner.HasWon)
	assert.Equal(t, "Voucher", winner.PrizeName)
	require.NotNil(t, winner.WonAt)
	assert.Equal(t, winner.Name, settings.WinningName)

	count, err := store.Customers().CountWinners(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestScheduledCommitFiresViaTimer(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	_, err := svc.Start(ctx, "Voucher", 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		settings, err := svc.Snapshot(ctx)
		return err == nil && settings.State() == models.DrawStateResultShown
	}, 3*time.Second, 50*time.Millisecond)

	settings, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "100001", settings.WinningCode)
	assert.Equal(t, "Lan", settings.WinningName)
}

func TestScheduledCommitWithEmptiedPoolLeavesSpinning(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	c := addCustomer(t, store, "Lan", "0911111111", "100001", false)

	_, err := svc.Start(ctx, "Voucher", 0)
	require.NoError(t, err)
	svc.scheduler.Cancel()

	// The pool empties during the spin through another path.
	require.NoError(t, store.Customers().MarkWon(ctx, c.ID, "side prize"))

	svc.commitScheduledResult()

	settings, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStateSpinning, settings.State())
	assert.Empty(t, settings.WinningCode)
}

func TestStopCancelsPendingCommit(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	_, err := svc.Start(ctx, "Voucher", 30)
	require.NoError(t, err)

	settings, err := svc.Stop(ctx)
	require.NoError(t, err)
	assert.False(t, settings.IsSpinning)
	assert.False(t, settings.ShowResult)
	assert.Equal(t, models.DrawStateIdle, settings.State())

	// Nobody won.
	count, err := store.Customers().CountWinners(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestStopWhenNotSpinningFails(t *testing.T) {
	svc, _ := newDrawFixture(t)

	_, err := svc.Stop(context.Background())
	assert.ErrorIs(t, err, models.ErrNotSpinning)
}

func TestResetClearsWinnerFromAnyState(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	_, err := svc.Start(ctx, "Voucher", 0)
	require.NoError(t, err)
	svc.scheduler.Cancel()
	svc.commitScheduledResult()

	settings, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStateIdle, settings.State())
	assert.Empty(t, settings.WinningCode)
	assert.Empty(t, settings.WinningName)
	// Prize name survives a reset.
	assert.Equal(t, "Voucher", settings.CurrentPrize)

	// Eligibility is untouched: the winner stays won.
	count, err := store.Customers().CountWinners(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSetPrizeIsIndependentOfPhase(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	settings, err := svc.SetPrize(ctx, "Grand Prize")
	require.NoError(t, err)
	assert.Equal(t, "Grand Prize", settings.CurrentPrize)
	assert.Equal(t, models.DrawStateIdle, settings.State())

	_, err = svc.Start(ctx, "", 0)
	require.NoError(t, err)
	defer svc.scheduler.Cancel()

	settings, err = svc.SetPrize(ctx, "Consolation")
	require.NoError(t, err)
	assert.Equal(t, "Consolation", settings.CurrentPrize)
	assert.True(t, settings.IsSpinning)
}

func TestSpinningAndResultNeverBothTrue(t *testing.T) {
	svc, store := newDrawFixture(t)
	ctx := context.Background()
	addCustomer(t, store, "Lan", "0911111111", "100001", false)

	check := func() {
		settings, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.False(t, settings.IsSpinning && settings.ShowResult)
	}

	_, err := svc.Start(ctx, "Voucher", 0)
	require.NoError(t, err)
	check()
	svc.scheduler.Cancel()
	svc.commitScheduledResult()
	check()
	_, err = svc.Reset(ctx)
	require.NoError(t, err)
	check()
}

func TestClampSpinDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, clampSpinDuration(0))
	assert.Equal(t, 1*time.Second, clampSpinDuration(-3))
	assert.Equal(t, 1*time.Second, clampSpinDuration(1))
	assert.Equal(t, 12*time.Second, clampSpinDuration(12))
	assert.Equal(t, 30*time.Second, clampSpinDuration(99))
}
