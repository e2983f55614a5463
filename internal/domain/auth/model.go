// Package auth provides authentication and authorization domain logic.
// Identity is delegated to the Telegram front door: users arrive via
// HMAC-signed magic links and get JWT sessions here.
package auth

import (
	"context"
	"strconv"
	"time"

	"sklad/internal/core/apperror"
	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
)

// User represents a system user keyed by their Telegram ID.
type User struct {
	ID       id.ID   `db:"id" json:"id"`
	TgID     int64   `db:"tg_id" json:"tgId"`
	FullName *string `db:"full_name" json:"fullName,omitempty"`

	// Role is either "admin" or "dealer".
	Role string `db:"role" json:"role"`

	IsActive    bool       `db:"is_active" json:"isActive"`
	LastLoginAt *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// NewUser creates an active user with the given role.
func NewUser(tgID int64, role string) *User {
	return &User{
		ID:        id.New(),
		TgID:      tgID,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.TgID <= 0 {
		return apperror.NewValidation("tg_id is required").WithDetail("field", "tgId")
	}
	if u.Role != appctx.RoleAdmin && u.Role != appctx.RoleDealer {
		return apperror.NewValidation("unknown role").WithDetail("role", u.Role)
	}
	return nil
}

// CanLogin checks if user can receive a session.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == appctx.RoleAdmin
}

// DisplayName returns the full name or the Telegram ID as fallback.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	return "tg:" + strconv.FormatInt(u.TgID, 10)
}

// RefreshToken represents a stored, hashed refresh token.
type RefreshToken struct {
	ID            id.ID      `db:"id"`
	UserID        id.ID      `db:"user_id"`
	TokenHash     string     `db:"token_hash"`
	ExpiresAt     time.Time  `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
	RevokedReason *string    `db:"revoked_reason"`
}

// IsValid checks if refresh token is usable.
func (t *RefreshToken) IsValid() bool {
	if t.RevokedAt != nil {
		return false
	}
	return time.Now().Before(t.ExpiresAt)
}

// TokenPair contains access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}
