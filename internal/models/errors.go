package models

import "errors"

// Validation errors, rejected before any side effect.
var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidPhone = errors.New("phone number must be exactly 10 digits")
	ErrCodeRequired = errors.New("bracelet code is required")
)

// Conflict errors from uniqueness or activation races.
var (
	ErrPhoneTaken        = errors.New("phone number is already registered")
	ErrCodeNotFound      = errors.New("bracelet code not found")
	ErrCodeUsed          = errors.New("bracelet code already used")
	ErrAlreadyRegistered = errors.New("phone number or bracelet code already registered")
	ErrActivationRace    = errors.New("bracelet code was claimed by another registration")
)

// ErrCodeExhausted is returned when the unique-code generation bound is reached.
var ErrCodeExhausted = errors.New("cannot allocate unique code")

// Draw state machine errors.
var (
	ErrNoEligiblePlayers = errors.New("no eligible players")
	ErrAlreadySpinning   = errors.New("a draw is already spinning")
	ErrNotSpinning       = errors.New("no draw is currently spinning")
)

// Auth errors.
var (
	ErrTokenNotFound = errors.New("sign-in token not found")
	ErrTokenExpired  = errors.New("sign-in token has expired")
	ErrTokenUsed     = errors.New("sign-in token already used")
)
