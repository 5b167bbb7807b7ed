package models

import "time"

// DrawState represents the phase of the current draw round
type DrawState string

const (
	DrawStateIdle        DrawState = "IDLE"
	DrawStateSpinning    DrawState = "SPINNING"
	DrawStateResultShown DrawState = "RESULT_SHOWN"
)

// DrawSettingsID is the fixed _id of the singleton draw_settings document.
const DrawSettingsID = "draw"

// DrawSettings is the singleton row driving the live draw screen.
// IsSpinning and ShowResult are never both true.
type DrawSettings struct {
	ID            string    `bson:"_id" json:"id"`
	CurrentPrize  string    `bson:"currentPrize" json:"current_prize"`
	BackgroundURL string    `bson:"backgroundUrl" json:"background_url"`
	IsSpinning    bool      `bson:"isSpinning" json:"is_spinning"`
	WinningCode   string    `bson:"winningCode" json:"winning_code"`
	WinningName   string    `bson:"winningName" json:"winning_name"`
	ShowResult    bool      `bson:"showResult" json:"show_result"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updated_at"`
}

// State derives the round phase from the persisted flags.
func (s *DrawSettings) State() DrawState {
	switch {
	case s.IsSpinning:
		return DrawStateSpinning
	case s.ShowResult:
		return DrawStateResultShown
	default:
		return DrawStateIdle
	}
}

// Stats summarizes registration progress for the operator dashboard
type Stats struct {
	TotalCustomers int64 `json:"total_customers"`
	TotalWinners   int64 `json:"total_winners"`
	TotalCodes     int64 `json:"total_codes"`
	ActivatedCodes int64 `json:"activated_codes"`
}
