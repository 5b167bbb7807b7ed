package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"github.com/haivt/luckydraw-backend/internal/utils"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CodeService handles bracelet code administration: codes are provisioned
// (singly or in bulk) before registration opens and activated exactly once
// by the registration flow.
type CodeService struct {
	codeRepo repositories.BraceletCodeRepository
}

// NewCodeService creates a new CodeService
func NewCodeService(codeRepo repositories.BraceletCodeRepository) *CodeService {
	return &CodeService{codeRepo: codeRepo}
}

// GetAllCodes retrieves all bracelet codes, newest first
func (s *CodeService) GetAllCodes(ctx context.Context) ([]*models.BraceletCode, error) {
	return s.codeRepo.FindAll(ctx)
}

// CreateCode registers a single pre-printed code
func (s *CodeService) CreateCode(ctx context.Context, code string) (*models.BraceletCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, models.ErrCodeRequired
	}
	bc := &models.BraceletCode{Code: code}
	if err := s.codeRepo.Create(ctx, bc); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, models.ErrCodeUsed
		}
		return nil, fmt.Errorf("failed to create bracelet code: %w", err)
	}
	return bc, nil
}

// BulkGenerate mints count fresh random codes and stores them in one batch.
// Collisions with existing codes are retried per candidate, bounded by the
// same attempt cap as registration's lucky-code loop.
func (s *CodeService) BulkGenerate(ctx context.Context, count int) ([]*models.BraceletCode, error) {
	if count <= 0 || count > 1000 {
		return nil, fmt.Errorf("count must be between 1 and 1000")
	}

	batch := make([]*models.BraceletCode, 0, count)
	chosen := make(map[string]bool, count)
	for len(batch) < count {
		var code string
		found := false
		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			candidate := utils.GenerateBraceletCode()
			if chosen[candidate] {
				continue
			}
			_, err := s.codeRepo.FindByCode(ctx, candidate)
			if errors.Is(err, repositories.ErrNotFound) {
				code = candidate
				found = true
				break
			}
			if err != nil {
				return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
			}
		}
		if !found {
			return nil, models.ErrCodeExhausted
		}
		chosen[code] = true
		batch = append(batch, &models.BraceletCode{Code: code})
	}

	if err := s.codeRepo.CreateMany(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to store generated codes: %w", err)
	}
	return batch, nil
}

// DeleteCode deletes a bracelet code by ID. Deletion is an administrative
// action and is allowed regardless of activation state.
func (s *CodeService) DeleteCode(ctx context.Context, id primitive.ObjectID) error {
	return s.codeRepo.Delete(ctx, id)
}

// ExportCodes builds an xlsx workbook of all bracelet codes
func (s *CodeService) ExportCodes(ctx context.Context) (*excelize.File, error) {
	codes, err := s.codeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracelet codes: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Code", "Activated", "Activated At", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, bc := range codes {
		activatedAt := ""
		if bc.ActivatedAt != nil {
			activatedAt = bc.ActivatedAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{bc.Code, bc.IsActivated, activatedAt, bc.CreatedAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
