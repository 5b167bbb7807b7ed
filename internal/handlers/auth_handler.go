package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/services"
)

// sessionCookieMaxAge matches the session token lifetime (24h).
const sessionCookieMaxAge = 24 * 60 * 60

// AuthHandler handles magic-link sign-in
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestMagicLink handles POST /auth/magic-link. It responds identically
// whether or not the address is known, so the endpoint does not leak
// operator emails.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req models.MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RequestMagicLink(c.Request.Context(), req.Email, req.Next); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send sign-in link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sign-in link sent"})
}

// Callback handles GET /auth/callback?code=...&next=..., the target of the
// emailed link. On success it sets the session cookie and redirects to the
// validated next path; on failure it redirects to the login page.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	target := h.authService.RedirectTarget(c.Query("next"))

	if code == "" {
		c.Redirect(http.StatusFound, "/login?error=auth_failed")
		return
	}

	session, err := h.authService.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusFound, "/login?error=auth_failed")
		return
	}

	c.SetCookie("session", session, sessionCookieMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, target)
}
