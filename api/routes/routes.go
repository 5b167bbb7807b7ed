package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haivt/luckydraw-backend/internal/config"
	"github.com/haivt/luckydraw-backend/internal/handlers"
	"github.com/haivt/luckydraw-backend/internal/middleware"
	"github.com/haivt/luckydraw-backend/pkg/jwt"
)

// HandlerDependencies collects everything SetupRouter wires into the tree
type HandlerDependencies struct {
	RegistrationHandler *handlers.RegistrationHandler
	DisplayHandler      *handlers.DisplayHandler
	AuthHandler         *handlers.AuthHandler
	DrawHandler         *handlers.DrawHandler
	CustomerHandler     *handlers.CustomerHandler
	CodeHandler         *handlers.CodeHandler
	TokenService        *jwt.TokenService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Participant registration
		public.POST("/register", deps.RegistrationHandler.Register)

		// Projector screen
		display := public.Group("/display")
		{
			display.GET("/snapshot", deps.DisplayHandler.Snapshot)
			display.GET("/stream", deps.DisplayHandler.Stream)
		}

		// Magic-link sign-in
		auth := public.Group("/auth")
		{
			auth.POST("/magic-link", deps.AuthHandler.RequestMagicLink)
			auth.GET("/callback", deps.AuthHandler.Callback)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.SessionAuthMiddleware(deps.TokenService))
	{
		// Draw controls
		draw := protected.Group("/draw")
		{
			draw.GET("", deps.DrawHandler.GetSettings)
			draw.POST("/start", deps.DrawHandler.Start)
			draw.POST("/stop", deps.DrawHandler.Stop)
			draw.POST("/reset", deps.DrawHandler.Reset)
			draw.PUT("/prize", deps.DrawHandler.SetPrize)
			draw.PUT("/background", deps.DrawHandler.SetBackground)
		}

		// Customer routes
		customers := protected.Group("/customers")
		{
			customers.GET("", deps.CustomerHandler.GetAllCustomers)
			customers.GET("/export", deps.CustomerHandler.ExportCustomers)
			customers.PUT("/:id", deps.CustomerHandler.UpdateCustomer)
			customers.DELETE("/:id", deps.CustomerHandler.DeleteCustomer)
		}

		// Bracelet code routes
		codes := protected.Group("/codes")
		{
			codes.GET("", deps.CodeHandler.GetAllCodes)
			codes.GET("/export", deps.CodeHandler.ExportCodes)
			codes.POST("", deps.CodeHandler.CreateCode)
			codes.POST("/bulk", deps.CodeHandler.BulkGenerate)
			codes.DELETE("/:id", deps.CodeHandler.DeleteCode)
		}

		protected.GET("/stats", deps.CustomerHandler.GetStats)
	}

	return router
}
