package events

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	bus := NewBus(slog.Default())
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func receiveSettings(t *testing.T, ch <-chan *models.DrawSettings) *models.DrawSettings {
	t.Helper()
	select {
	case s := <-ch:
		require.NotNil(t, s)
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for draw settings event")
		return nil
	}
}

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := newTestBus(t)

	ch1, cancel1, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel1()

	ch2, cancel2, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel2()

	published := &models.DrawSettings{
		ID:           models.DrawSettingsID,
		CurrentPrize: "iPhone 17",
		IsSpinning:   true,
	}
	require.NoError(t, bus.PublishSettings(published))

	for _, ch := range []<-chan *models.DrawSettings{ch1, ch2} {
		got := receiveSettings(t, ch)
		assert.Equal(t, "iPhone 17", got.CurrentPrize)
		assert.True(t, got.IsSpinning)
		assert.Equal(t, models.DrawStateSpinning, got.State())
	}
}

func TestBusDeliversInCommitOrder(t *testing.T) {
	bus := newTestBus(t)

	ch, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.PublishSettings(&models.DrawSettings{IsSpinning: true}))
	require.NoError(t, bus.PublishSettings(&models.DrawSettings{ShowResult: true, WinningCode: "123456"}))

	first := receiveSettings(t, ch)
	second := receiveSettings(t, ch)
	assert.True(t, first.IsSpinning)
	assert.Equal(t, "123456", second.WinningCode)
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := newTestBus(t)

	ch, cancel, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	cancel()

	// After cancellation the output channel eventually closes.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscriber channel not closed after cancel")
		}
	}
}
