package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/services"
)

// DrawHandler exposes the operator draw controls
type DrawHandler struct {
	drawService *services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService *services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

// GetSettings handles GET /draw
func (h *DrawHandler) GetSettings(c *gin.Context) {
	settings, err := h.drawService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// StartRequest is the body of POST /draw/start
type StartRequest struct {
	PrizeName   string `json:"prize_name"`
	SpinSeconds int    `json:"spin_seconds"`
}

// Start handles POST /draw/start
func (h *DrawHandler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.drawService.Start(c.Request.Context(), req.PrizeName, req.SpinSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Stop handles POST /draw/stop
func (h *DrawHandler) Stop(c *gin.Context) {
	settings, err := h.drawService.Stop(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Reset handles POST /draw/reset
func (h *DrawHandler) Reset(c *gin.Context) {
	settings, err := h.drawService.Reset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PrizeRequest is the body of PUT /draw/prize
type PrizeRequest struct {
	PrizeName string `json:"prize_name" binding:"required"`
}

// SetPrize handles PUT /draw/prize
func (h *DrawHandler) SetPrize(c *gin.Context) {
	var req PrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.drawService.SetPrize(c.Request.Context(), req.PrizeName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// BackgroundRequest is the body of PUT /draw/background
type BackgroundRequest struct {
	BackgroundURL string `json:"background_url" binding:"required"`
}

// SetBackground handles PUT /draw/background
func (h *DrawHandler) SetBackground(c *gin.Context) {
	var req BackgroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.drawService.SetBackground(c.Request.Context(), req.BackgroundURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
