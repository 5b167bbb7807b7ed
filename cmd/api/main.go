package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/haivt/luckydraw-backend/api/routes"
	"github.com/haivt/luckydraw-backend/internal/config"
	"github.com/haivt/luckydraw-backend/internal/events"
	"github.com/haivt/luckydraw-backend/internal/handlers"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"github.com/haivt/luckydraw-backend/internal/repositories/memory"
	mongorepo "github.com/haivt/luckydraw-backend/internal/repositories/mongodb"
	"github.com/haivt/luckydraw-backend/internal/services"
	"github.com/haivt/luckydraw-backend/pkg/jwt"
	"github.com/haivt/luckydraw-backend/pkg/mailer"
	"github.com/haivt/luckydraw-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	var (
		customerRepo repositories.CustomerRepository
		codeRepo     repositories.BraceletCodeRepository
		settingsRepo repositories.DrawSettingsRepository
		tokenRepo    repositories.LoginTokenRepository
	)

	if cfg.MongoDB.InMemory {
		logger.Warn("using in-memory store, data will not survive a restart")
		store := memory.NewStore()
		customerRepo = store.Customers()
		codeRepo = store.BraceletCodes()
		settingsRepo = store.DrawSettings()
		tokenRepo = store.LoginTokens()
	} else {
		client, err := mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			logger.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("error disconnecting from MongoDB", "error", err)
			}
		}()

		db := client.Database(cfg.MongoDB.Database)

		customerRepo, err = mongorepo.NewCustomerRepository(db)
		if err != nil {
			logger.Error("failed to prepare customers collection", "error", err)
			os.Exit(1)
		}
		codeRepo, err = mongorepo.NewBraceletCodeRepository(db)
		if err != nil {
			logger.Error("failed to prepare bracelet codes collection", "error", err)
			os.Exit(1)
		}
		settingsRepo = mongorepo.NewDrawSettingsRepository(db)
		tokenRepo = mongorepo.NewLoginTokenRepository(db)
	}

	// The draw row must exist before the first display connects.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := settingsRepo.EnsureExists(ctx); err != nil {
		cancel()
		logger.Error("failed to provision draw settings", "error", err)
		os.Exit(1)
	}
	cancel()

	bus := events.NewBus(logger)
	defer bus.Close()

	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.SessionDuration())

	var mail mailer.Mailer
	if cfg.Mail.MockMailer {
		logger.Warn("using mock mailer, sign-in links are logged instead of sent")
		mail = mailer.NewMockMailer()
	} else {
		port, err := strconv.Atoi(cfg.Mail.Port)
		if err != nil {
			logger.Error("invalid SMTP port", "port", cfg.Mail.Port)
			os.Exit(1)
		}
		mail = mailer.NewSMTPMailer(cfg.Mail.Host, port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
	}

	registrationService := services.NewRegistrationService(customerRepo, codeRepo, logger)
	drawService := services.NewDrawService(settingsRepo, customerRepo, bus, logger)
	authService := services.NewAuthService(tokenRepo, tokens, mail, cfg.Server.BaseURL, logger)
	customerService := services.NewCustomerService(customerRepo, codeRepo)
	codeService := services.NewCodeService(codeRepo)

	deps := routes.HandlerDependencies{
		RegistrationHandler: handlers.NewRegistrationHandler(registrationService),
		DisplayHandler:      handlers.NewDisplayHandler(drawService, bus),
		AuthHandler:         handlers.NewAuthHandler(authService),
		DrawHandler:         handlers.NewDrawHandler(drawService),
		CustomerHandler:     handlers.NewCustomerHandler(customerService),
		CodeHandler:         handlers.NewCodeHandler(codeService),
		TokenService:        tokens,
	}

	router := routes.SetupRouter(cfg, deps, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exiting")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
