package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerHandler handles the admin customer table
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetAllCustomers handles GET /customers
func (h *CustomerHandler) GetAllCustomers(c *gin.Context) {
	customers, err := h.customerService.GetAllCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// UpdateCustomerRequest is the body of PUT /customers/:id
type UpdateCustomerRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	HasWon    *bool   `json:"has_won"`
	PrizeName *string `json:"prize_name"`
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID format"})
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.HasWon != nil {
		customer.HasWon = *req.HasWon
		if !*req.HasWon {
			// Administrative override: make the customer eligible again.
			customer.PrizeName = ""
			customer.WonAt = nil
		} else if customer.WonAt == nil {
			now := time.Now()
			customer.WonAt = &now
		}
	}
	if req.PrizeName != nil {
		customer.PrizeName = *req.PrizeName
	}

	if err := h.customerService.UpdateCustomer(c.Request.Context(), customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID format"})
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

// GetStats handles GET /stats
func (h *CustomerHandler) GetStats(c *gin.Context) {
	stats, err := h.customerService.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportCustomers handles GET /customers/export
func (h *CustomerHandler) ExportCustomers(c *gin.Context) {
	f, err := h.customerService.ExportCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="customers.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
