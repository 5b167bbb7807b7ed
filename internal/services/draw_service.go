package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/haivt/luckydraw-backend/internal/events"
	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
)

// Spin duration bounds, in seconds, for an operator-supplied value.
const (
	DefaultSpinSeconds = 5
	MinSpinSeconds     = 1
	MaxSpinSeconds     = 30
)

// DrawService owns the draw round state machine on the singleton
// draw_settings row and performs the winner selection when the spin timer
// elapses. The system runs exactly one round at a time; two operators
// driving it concurrently is last-write-wins on the singleton row.
type DrawService struct {
	settingsRepo repositories.DrawSettingsRepository
	customerRepo repositories.CustomerRepository
	bus          *events.Bus
	scheduler    spinScheduler
	logger       *slog.Logger
}

// NewDrawService creates a new DrawService
func NewDrawService(
	settingsRepo repositories.DrawSettingsRepository,
	customerRepo repositories.CustomerRepository,
	bus *events.Bus,
	logger *slog.Logger,
) *DrawService {
	return &DrawService{
		settingsRepo: settingsRepo,
		customerRepo: customerRepo,
		bus:          bus,
		logger:       logger,
	}
}

// Snapshot returns the current settings row
func (s *DrawService) Snapshot(ctx context.Context) (*models.DrawSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// Start begins a round: it clears the previous winner, flips the row to
// Spinning and schedules the winner commit after the spin duration.
// Valid from Idle or ResultShown; requires at least one eligible customer.
func (s *DrawService) Start(ctx context.Context, prizeName string, spinSeconds int) (*models.DrawSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw settings: %w", err)
	}
	if settings.IsSpinning {
		return nil, models.ErrAlreadySpinning
	}

	eligible, err := s.customerRepo.FindEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible customers: %w", err)
	}
	if len(eligible) == 0 {
		return nil, models.ErrNoEligiblePlayers
	}

	if prizeName != "" {
		settings.CurrentPrize = prizeName
	}
	settings.IsSpinning = true
	settings.ShowResult = false
	settings.WinningCode = ""
	settings.WinningName = ""
	if err := s.persist(ctx, settings); err != nil {
		return nil, err
	}

	duration := clampSpinDuration(spinSeconds)
	s.scheduler.Schedule(duration, s.commitScheduledResult)
	s.logger.Info("draw started", "prize", settings.CurrentPrize, "spinDuration", duration, "eligible", len(eligible))
	return settings, nil
}

// Stop aborts a spinning round without selecting a winner
func (s *DrawService) Stop(ctx context.Context) (*models.DrawSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw settings: %w", err)
	}
	if !settings.IsSpinning {
		return nil, models.ErrNotSpinning
	}

	s.scheduler.Cancel()
	settings.IsSpinning = false
	settings.ShowResult = false
	if err := s.persist(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("draw stopped by operator")
	return settings, nil
}

// Reset returns the round to Idle from any state and clears the winner
// fields. Prize name and customer eligibility are untouched.
func (s *DrawService) Reset(ctx context.Context) (*models.DrawSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw settings: %w", err)
	}

	s.scheduler.Cancel()
	settings.IsSpinning = false
	settings.ShowResult = false
	settings.WinningCode = ""
	settings.WinningName = ""
	if err := s.persist(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("draw reset")
	return settings, nil
}

// SetPrize updates the prize name independently of the round phase
func (s *DrawService) SetPrize(ctx context.Context, prizeName string) (*models.DrawSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw settings: %w", err)
	}
	settings.CurrentPrize = prizeName
	if err := s.persist(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SetBackground updates the display background image URL
func (s *DrawService) SetBackground(ctx context.Context, url string) (*models.DrawSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw settings: %w", err)
	}
	settings.BackgroundURL = url
	if err := s.persist(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// commitScheduledResult runs when the spin timer elapses. It re-reads the
// eligible pool at commit time, picks a winner uniformly at random, marks
// the winner row and then commits the result to the singleton row. The two
// writes are independent: a commit failure after the winner row is marked is
// reported but not rolled back.
func (s *DrawService) commitScheduledResult() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("scheduled commit: failed to load draw settings", "error", err)
		return
	}
	if !settings.IsSpinning {
		// Stopped or reset after the timer fired.
		s.logger.Warn("scheduled commit skipped: round is no longer spinning")
		return
	}

	pool, err := s.customerRepo.FindEligible(ctx)
	if err != nil {
		s.logger.Error("scheduled commit: failed to load eligible pool", "error", err)
		return
	}
	if len(pool) == 0 {
		// The pool emptied during the spin. Leave the round in Spinning so
		// the operator sees the notice and can stop or reset.
		s.logger.Warn("scheduled commit: no eligible players left")
		return
	}

	winner := pool[rand.Intn(len(pool))]
	if err := s.customerRepo.MarkWon(ctx, winner.ID, settings.CurrentPrize); err != nil {
		s.logger.Error("scheduled commit: failed to mark winner", "customerId", winner.ID.Hex(), "error", err)
		return
	}

	settings.IsSpinning = false
	settings.ShowResult = true
	settings.WinningCode = winner.BraceletCode
	settings.WinningName = winner.Name
	if err := s.persist(ctx, settings); err != nil {
		// The winner row is already marked; the singleton row commit failed.
		s.logger.Error("scheduled commit: winner marked but result commit failed",
			"customerId", winner.ID.Hex(), "code", winner.BraceletCode, "error", err)
		return
	}

	s.logger.Info("winner selected", "code", winner.BraceletCode, "name", winner.Name, "prize", settings.CurrentPrize)
}

// persist writes the settings row and fans the new state out to displays.
// Fan-out failures are logged, not surfaced; the commit already happened.
func (s *DrawService) persist(ctx context.Context, settings *models.DrawSettings) error {
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update draw settings: %w", err)
	}
	if err := s.bus.PublishSettings(settings); err != nil {
		s.logger.Error("failed to publish draw settings update", "error", err)
	}
	return nil
}

func clampSpinDuration(seconds int) time.Duration {
	if seconds == 0 {
		seconds = DefaultSpinSeconds
	}
	if seconds < MinSpinSeconds {
		seconds = MinSpinSeconds
	}
	if seconds > MaxSpinSeconds {
		seconds = MaxSpinSeconds
	}
	return time.Duration(seconds) * time.Second
}
