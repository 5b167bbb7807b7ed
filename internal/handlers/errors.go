package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
)

// respondError maps the service error taxonomy to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrInvalidPhone),
		errors.Is(err, models.ErrCodeRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrPhoneTaken),
		errors.Is(err, models.ErrCodeUsed),
		errors.Is(err, models.ErrAlreadyRegistered),
		errors.Is(err, models.ErrAlreadySpinning),
		errors.Is(err, models.ErrNotSpinning),
		errors.Is(err, models.ErrNoEligiblePlayers):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrCodeNotFound),
		errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrCodeExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
