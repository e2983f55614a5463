package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"sklad/internal/core/apperror"
	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
	"sklad/internal/core/tx"
	"sklad/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	// AdminTgIDs lists Telegram IDs that get the admin role on first login.
	AdminTgIDs []int64

	RefreshTokenExpiry time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		RefreshTokenExpiry: 30 * 24 * time.Hour, // the bot re-sends links monthly anyway
	}
}

// ParseAdminTgIDs parses the comma-separated ADMIN_TG_IDS allowlist.
func ParseAdminTgIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var v int64
		if _, err := fmt.Sscan(part, &v); err == nil && v > 0 {
			ids = append(ids, v)
		}
	}
	return ids
}

// Service provides authentication logic: magic link verification,
// first-login provisioning and JWT session management.
type Service struct {
	userRepo   UserRepository
	tokenRepo  TokenRepository
	txManager  tx.Manager
	jwtService *JWTService
	magic      *MagicLink
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	txManager tx.Manager,
	jwtService *JWTService,
	magic *MagicLink,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		txManager:  txManager,
		jwtService: jwtService,
		magic:      magic,
		config:     config,
	}
}

// VerifyMagicLink checks the HMAC signature, provisions the user on
// first login and returns a token pair.
func (s *Service) VerifyMagicLink(ctx context.Context, tgID int64, sig string, fullName string) (*TokenPair, *User, error) {
	if tgID <= 0 || sig == "" {
		return nil, nil, apperror.NewUnauthorized("invalid login link")
	}
	if !s.magic.Verify(tgID, sig) {
		return nil, nil, apperror.NewUnauthorized("invalid login link")
	}

	user, err := s.userRepo.GetByTgID(ctx, tgID)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, nil, err
		}
		user, err = s.provision(ctx, tgID, fullName)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if fullName != "" && (user.FullName == nil || *user.FullName != fullName) {
		if err := s.userRepo.SetFullName(ctx, user.ID, fullName); err == nil {
			user.FullName = &fullName
		}
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	logger.Info(ctx, "user logged in via magic link",
		"user_id", user.ID,
		"tg_id", user.TgID,
		"role", user.Role,
	)
	return tokens, user, nil
}

// provision creates a user on first login. The role comes from the
// admin allowlist; everyone else is a dealer.
func (s *Service) provision(ctx context.Context, tgID int64, fullName string) (*User, error) {
	role := appctx.RoleDealer
	for _, adminID := range s.config.AdminTgIDs {
		if adminID == tgID {
			role = appctx.RoleAdmin
			break
		}
	}

	user := NewUser(tgID, role)
	if fullName != "" {
		user.FullName = &fullName
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user provisioned", "user_id", user.ID, "tg_id", tgID, "role", role)
	return user, nil
}

// RefreshToken rotates a refresh token and returns a new pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	token, err := s.tokenRepo.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}

	if !token.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("user not found")
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	// Rotate: old token dies with the new pair.
	_ = s.tokenRepo.RevokeRefreshToken(ctx, token.ID, "refreshed")

	return s.generateTokenPair(ctx, user)
}

// Logout revokes all user's refresh tokens.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID, "logout")
}

// GetUserByID retrieves a user.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ListUsers lists all users.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.userRepo.List(ctx)
}

// MakeLink builds a signed login URL for a Telegram ID. Admin helper
// for onboarding users without going through the bot.
func (s *Service) MakeLink(tgID int64) (string, error) {
	if tgID <= 0 {
		return "", apperror.NewValidation("tg_id must be positive").WithDetail("tgId", tgID)
	}
	return s.magic.URL(tgID), nil
}

// generateTokenPair creates access and refresh tokens.
func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.TgID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshTokenRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// hashToken creates SHA256 hash of token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
