package services

import (
	"context"
	"fmt"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerService handles the operator-facing customer administration
type CustomerService struct {
	customerRepo repositories.CustomerRepository
	codeRepo     repositories.BraceletCodeRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo repositories.CustomerRepository, codeRepo repositories.BraceletCodeRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		codeRepo:     codeRepo,
	}
}

// GetAllCustomers retrieves all customers, newest first
func (s *CustomerService) GetAllCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.customerRepo.FindAll(ctx)
}

// GetCustomerByID retrieves a customer by ID
func (s *CustomerService) GetCustomerByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

// UpdateCustomer updates a customer row. Administrators may edit any field,
// including clearing has_won; the draw flow itself never does that.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return s.customerRepo.Update(ctx, customer)
}

// DeleteCustomer deletes a customer by ID
func (s *CustomerService) DeleteCustomer(ctx context.Context, id primitive.ObjectID) error {
	return s.customerRepo.Delete(ctx, id)
}

// GetStats summarizes registration progress for the dashboard
func (s *CustomerService) GetStats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{}
	var err error
	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if stats.TotalWinners, err = s.customerRepo.CountWinners(ctx); err != nil {
		return nil, fmt.Errorf("failed to count winners: %w", err)
	}
	if stats.TotalCodes, err = s.codeRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count bracelet codes: %w", err)
	}
	if stats.ActivatedCodes, err = s.codeRepo.CountActivated(ctx); err != nil {
		return nil, fmt.Errorf("failed to count activated codes: %w", err)
	}
	return stats, nil
}

// ExportCustomers builds an xlsx workbook of all customers
func (s *CustomerService) ExportCustomers(ctx context.Context) (*excelize.File, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"Name", "Phone", "Bracelet Code", "Had Bracelet", "Has Won", "Prize", "Won At", "Registered At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, c := range customers {
		wonAt := ""
		if c.WonAt != nil {
			wonAt = c.WonAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			c.Name, c.Phone, c.BraceletCode, c.HasExistingCode, c.HasWon,
			c.PrizeName, wonAt, c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
