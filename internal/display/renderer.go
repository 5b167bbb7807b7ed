// Package display turns draw settings rows into the view state shown on the
// public screen. It never writes to the store; it is a pure consumer of the
// snapshot fetch and the live event stream.
package display

import (
	"math/rand"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
)

// PlaceholderCode is shown while no round is running.
const PlaceholderCode = "??????"

// SpinFrameInterval is how often the cosmetic code on the screen is replaced
// while the wheel is spinning.
const SpinFrameInterval = 50 * time.Millisecond

// ViewState is what the display screen renders at any instant
type ViewState struct {
	Phase         models.DrawState `json:"phase"`
	Code          string           `json:"code"`
	WinnerName    string           `json:"winner_name"`
	Prize         string           `json:"prize"`
	BackgroundURL string           `json:"background_url"`
	ShowOverlay   bool             `json:"show_overlay"`
}

// Render maps a settings row to the view state. While spinning the code
// field carries a cosmetic random frame; the real winner is unknown to the
// display until the result is committed.
func Render(settings *models.DrawSettings) ViewState {
	state := ViewState{
		Phase:         settings.State(),
		Prize:         settings.CurrentPrize,
		BackgroundURL: settings.BackgroundURL,
	}

	switch state.Phase {
	case models.DrawStateSpinning:
		state.Code = SpinFrame()
	case models.DrawStateResultShown:
		state.Code = settings.WinningCode
		state.WinnerName = settings.WinningName
		state.ShowOverlay = settings.WinningCode != ""
	default:
		state.Code = PlaceholderCode
	}
	return state
}

// SpinFrame returns a random 6-digit string for the spin animation
func SpinFrame() string {
	digits := make([]byte, 6)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}
