package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"github.com/haivt/luckydraw-backend/internal/utils"
)

// maxCodeAttempts bounds the random lucky-code mint loop.
const maxCodeAttempts = 100

// RegistrationService handles participant sign-up. Registration is a saga:
// validate, check the phone, claim or mint a code, insert the customer, then
// conditionally activate the claimed bracelet code, with a compensating
// customer delete if the activation race is lost. There is no cross-document
// transaction backing these steps.
type RegistrationService struct {
	customerRepo repositories.CustomerRepository
	codeRepo     repositories.BraceletCodeRepository
	logger       *slog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	customerRepo repositories.CustomerRepository,
	codeRepo repositories.BraceletCodeRepository,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		customerRepo: customerRepo,
		codeRepo:     codeRepo,
		logger:       logger,
	}
}

// Register signs up a participant and returns the code they entered the
// draw with.
func (s *RegistrationService) Register(ctx context.Context, name, phone string, hasBracelet bool, braceletCode string) (*models.RegistrationResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrNameRequired
	}

	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return nil, models.ErrInvalidPhone
	}

	braceletCode = strings.ToUpper(strings.TrimSpace(braceletCode))
	if hasBracelet && braceletCode == "" {
		return nil, models.ErrCodeRequired
	}

	// Check the phone before touching any bracelet code, so a duplicate
	// registration never consumes a code allocation.
	if _, err := s.customerRepo.FindByPhone(ctx, phone); err == nil {
		return nil, models.ErrPhoneTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}

	var claimed *models.BraceletCode
	finalCode := braceletCode

	if hasBracelet {
		bc, err := s.codeRepo.FindByCode(ctx, braceletCode)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, models.ErrCodeNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up bracelet code: %w", err)
		}
		if bc.IsActivated {
			return nil, models.ErrCodeUsed
		}
		claimed = bc
	} else {
		minted, err := s.mintUniqueCode(ctx)
		if err != nil {
			return nil, err
		}
		finalCode = minted
	}

	customer := &models.Customer{
		Name:            name,
		Phone:           phone,
		BraceletCode:    finalCode,
		HasExistingCode: hasBracelet,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost an insert race on phone or code to a concurrent registration.
			return nil, models.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	// Activate the claimed code only after the customer insert succeeded.
	if claimed != nil {
		won, err := s.codeRepo.Activate(ctx, claimed.ID)
		if err == nil && !won {
			err = models.ErrActivationRace
		}
		if err != nil {
			// Compensate: the customer row must not survive an unclaimed code.
			if delErr := s.customerRepo.Delete(ctx, customer.ID); delErr != nil {
				s.logger.Error("failed to roll back customer after activation failure",
					"customerId", customer.ID.Hex(), "code", finalCode, "error", delErr)
			}
			if errors.Is(err, models.ErrActivationRace) {
				return nil, models.ErrCodeUsed
			}
			return nil, fmt.Errorf("failed to activate bracelet code: %w", err)
		}
	}

	s.logger.Info("customer registered", "phone", phone, "code", finalCode, "hadBracelet", hasBracelet)
	return &models.RegistrationResult{Code: finalCode, Name: name}, nil
}

// mintUniqueCode draws random 6-digit codes until one is free of collisions
// with existing customers, up to maxCodeAttempts. Concurrent registrations
// can still race on the same candidate; the unique index on insert is the
// last line of defense.
func (s *RegistrationService) mintUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := utils.GenerateLuckyCode()
		_, err := s.customerRepo.FindByBraceletCode(ctx, code)
		if errors.Is(err, repositories.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
	}
	return "", models.ErrCodeExhausted
}
