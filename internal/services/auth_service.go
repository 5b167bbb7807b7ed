package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	"github.com/haivt/luckydraw-backend/internal/utils"
	"github.com/haivt/luckydraw-backend/pkg/jwt"
	"github.com/haivt/luckydraw-backend/pkg/mailer"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRedirect is where a callback lands when no valid next path is given.
const DefaultRedirect = "/dashboard"

// magicLinkTTL is how long an emailed sign-in link stays valid.
const magicLinkTTL = 15 * time.Minute

// AuthService implements passwordless sign-in: it emails single-use links
// and exchanges their codes for session tokens. Only a bcrypt hash of the
// link secret is stored.
type AuthService struct {
	tokenRepo repositories.LoginTokenRepository
	tokens    *jwt.TokenService
	mail      mailer.Mailer
	baseURL   string
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tokenRepo repositories.LoginTokenRepository,
	tokens *jwt.TokenService,
	mail mailer.Mailer,
	baseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		tokenRepo: tokenRepo,
		tokens:    tokens,
		mail:      mail,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// RequestMagicLink mints a single-use token and emails the sign-in link
func (s *AuthService) RequestMagicLink(ctx context.Context, email, next string) error {
	secret, err := utils.GenerateRandomString(32)
	if err != nil {
		return fmt.Errorf("failed to generate link secret: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash link secret: %w", err)
	}

	token := &models.LoginToken{
		Email:      email,
		SecretHash: string(hash),
		ExpiresAt:  time.Now().Add(magicLinkTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store sign-in token: %w", err)
	}

	link := fmt.Sprintf("%s/api/v1/auth/callback?code=%s.%s&next=%s",
		s.baseURL, token.ID.Hex(), secret, url.QueryEscape(next))
	if err := s.mail.SendMagicLink(email, link); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}

	s.logger.Info("magic link sent", "email", email)
	return nil
}

// ExchangeCode validates a callback code and returns a session token.
// The code is "<tokenID>.<secret>"; the stored token must be unexpired,
// unused, and its hash must match the secret.
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (string, error) {
	idPart, secret, found := strings.Cut(code, ".")
	if !found {
		return "", models.ErrTokenNotFound
	}
	id, err := primitive.ObjectIDFromHex(idPart)
	if err != nil {
		return "", models.ErrTokenNotFound
	}

	token, err := s.tokenRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load sign-in token: %w", err)
	}

	if token.Used() {
		return "", models.ErrTokenUsed
	}
	if token.Expired(time.Now()) {
		return "", models.ErrTokenExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(token.SecretHash), []byte(secret)) != nil {
		return "", models.ErrTokenNotFound
	}

	used, err := s.tokenRepo.MarkUsed(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to consume sign-in token: %w", err)
	}
	if !used {
		// A concurrent callback exchanged it first.
		return "", models.ErrTokenUsed
	}

	session, err := s.tokens.IssueSession(token.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue session: %w", err)
	}
	s.logger.Info("magic link exchanged", "email", token.Email)
	return session, nil
}

// RedirectTarget returns next if it is a safe same-origin relative path,
// otherwise the default dashboard path.
func (s *AuthService) RedirectTarget(next string) string {
	if utils.IsValidRedirectPath(next) {
		return next
	}
	return DefaultRedirect
}
