package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/display"
	"github.com/haivt/luckydraw-backend/internal/events"
	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/services"
)

// DisplayHandler serves the public draw screen: an initial snapshot plus a
// server-sent event stream of state changes and cosmetic spin frames.
type DisplayHandler struct {
	drawService *services.DrawService
	bus         *events.Bus
}

// NewDisplayHandler creates a new DisplayHandler
func NewDisplayHandler(drawService *services.DrawService, bus *events.Bus) *DisplayHandler {
	return &DisplayHandler{drawService: drawService, bus: bus}
}

// Snapshot handles GET /display/snapshot. A (re)connecting display calls
// this first; missed transitions are not replayed.
func (h *DisplayHandler) Snapshot(c *gin.Context) {
	settings, err := h.drawService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
		"view":     display.Render(settings),
	})
}

// Stream handles GET /display/stream. It subscribes the connection to the
// fan-out bus and relays every committed settings row as a "state" event.
// While the row says the wheel is spinning, cosmetic "frame" events with a
// random code are interleaved every 50ms.
func (h *DisplayHandler) Stream(c *gin.Context) {
	updates, cancel, err := h.bus.Subscribe(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	defer cancel()

	current, err := h.drawService.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.SSEvent("state", display.Render(current))
	c.Writer.Flush()

	ticker := time.NewTicker(display.SpinFrameInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case settings, ok := <-updates:
			if !ok {
				return false
			}
			current = settings
			c.SSEvent("state", display.Render(settings))
			return true
		case <-ticker.C:
			if current != nil && current.State() == models.DrawStateSpinning {
				c.SSEvent("frame", gin.H{"code": display.SpinFrame()})
			}
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
