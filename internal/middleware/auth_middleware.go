package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/pkg/jwt"
)

const bearerSchema = "Bearer "

// SessionAuthMiddleware guards the admin API. It accepts the session token
// either as an Authorization bearer header or as the "session" cookie set by
// the magic-link callback.
func SessionAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, bearerSchema) {
			tokenString = authHeader[len(bearerSchema):]
		} else if cookie, err := c.Cookie("session"); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := tokens.ValidateSession(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set("userEmail", claims.Email)
		c.Next()
	}
}
