package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/services"
)

// RegistrationHandler handles participant sign-up requests
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	HasBracelet  bool   `json:"has_bracelet"`
	BraceletCode string `json:"bracelet_code"`
}

// Register handles POST /register
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.registrationService.Register(c.Request.Context(), req.Name, req.Phone, req.HasBracelet, req.BraceletCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
