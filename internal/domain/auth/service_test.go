package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/core/apperror"
	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
)

type memUserRepo struct {
	users map[id.ID]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[id.ID]*User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", userID)
}

func (r *memUserRepo) GetByTgID(ctx context.Context, tgID int64) (*User, error) {
	for _, u := range r.users {
		if u.TgID == tgID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", tgID)
}

func (r *memUserRepo) List(ctx context.Context) ([]*User, error) {
	out := make([]*User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) UpdateLastLogin(ctx context.Context, userID id.ID) error {
	if u, ok := r.users[userID]; ok {
		now := time.Now().UTC()
		u.LastLoginAt = &now
	}
	return nil
}

func (r *memUserRepo) SetFullName(ctx context.Context, userID id.ID, fullName string) error {
	if u, ok := r.users[userID]; ok {
		u.FullName = &fullName
	}
	return nil
}

type memTokenRepo struct {
	tokens map[string]*RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (r *memTokenRepo) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memTokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	if t, ok := r.tokens[tokenHash]; ok {
		return t, nil
	}
	return nil, apperror.NewUnauthorized("refresh token not found")
}

func (r *memTokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	for _, t := range r.tokens {
		if t.ID == tokenID && t.RevokedAt == nil {
			now := time.Now().UTC()
			t.RevokedAt = &now
			t.RevokedReason = &reason
		}
	}
	return nil
}

func (r *memTokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now().UTC()
			t.RevokedAt = &now
			t.RevokedReason = &reason
		}
	}
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const adminTgID = int64(100)

func newTestAuthService() (*Service, *memUserRepo, *memTokenRepo, *MagicLink) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	magic := NewMagicLink("shared-secret", "https://sklad.example.com")

	cfg := DefaultServiceConfig()
	cfg.AdminTgIDs = []int64{adminTgID}

	svc := NewService(users, tokens, passthroughTx{}, NewJWTService(DefaultJWTConfig("test-secret")), magic, cfg)
	return svc, users, tokens, magic
}

func TestVerifyMagicLink_ProvisionsDealer(t *testing.T) {
	svc, users, tokens, magic := newTestAuthService()
	ctx := context.Background()

	tgID := int64(555)
	pair, user, err := svc.VerifyMagicLink(ctx, tgID, magic.Sign(tgID), "Aziz")
	require.NoError(t, err)

	assert.Equal(t, appctx.RoleDealer, user.Role)
	assert.Equal(t, tgID, user.TgID)
	require.NotNil(t, user.FullName)
	assert.Equal(t, "Aziz", *user.FullName)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	assert.Len(t, users.users, 1)
	assert.Len(t, tokens.tokens, 1)
}

func TestVerifyMagicLink_AllowlistedAdmin(t *testing.T) {
	svc, _, _, magic := newTestAuthService()

	_, user, err := svc.VerifyMagicLink(context.Background(), adminTgID, magic.Sign(adminTgID), "")
	require.NoError(t, err)
	assert.Equal(t, appctx.RoleAdmin, user.Role)
	assert.True(t, user.IsAdmin())
}

func TestVerifyMagicLink_SecondLoginReusesUser(t *testing.T) {
	svc, users, _, magic := newTestAuthService()
	ctx := context.Background()

	tgID := int64(555)
	_, first, err := svc.VerifyMagicLink(ctx, tgID, magic.Sign(tgID), "Aziz")
	require.NoError(t, err)

	_, second, err := svc.VerifyMagicLink(ctx, tgID, magic.Sign(tgID), "Aziz Karimov")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.users, 1)
	require.NotNil(t, second.FullName)
	assert.Equal(t, "Aziz Karimov", *second.FullName)
}

func TestVerifyMagicLink_RejectsBadSignature(t *testing.T) {
	svc, users, _, magic := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name string
		tgID int64
		sig  string
	}{
		{name: "signature for other id", tgID: 555, sig: magic.Sign(556)},
		{name: "empty signature", tgID: 555, sig: ""},
		{name: "non-positive tg id", tgID: 0, sig: magic.Sign(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.VerifyMagicLink(ctx, tt.tgID, tt.sig, "")
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
		})
	}
	assert.Empty(t, users.users)
}

func TestVerifyMagicLink_DisabledAccount(t *testing.T) {
	svc, users, _, magic := newTestAuthService()

	u := NewUser(555, appctx.RoleDealer)
	u.IsActive = false
	users.users[u.ID] = u

	_, _, err := svc.VerifyMagicLink(context.Background(), 555, magic.Sign(555), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRefreshToken_Rotation(t *testing.T) {
	svc, _, tokens, magic := newTestAuthService()
	ctx := context.Background()

	pair, _, err := svc.VerifyMagicLink(ctx, 555, magic.Sign(555), "")
	require.NoError(t, err)

	next, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The old token was revoked by the rotation.
	old := tokens.tokens[hashToken(pair.RefreshToken)]
	require.NotNil(t, old)
	assert.NotNil(t, old.RevokedAt)

	_, err = svc.RefreshToken(ctx, pair.RefreshToken)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "never-issued")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	svc, _, tokens, magic := newTestAuthService()
	ctx := context.Background()

	pair1, user, err := svc.VerifyMagicLink(ctx, 555, magic.Sign(555), "")
	require.NoError(t, err)
	pair2, _, err := svc.VerifyMagicLink(ctx, 555, magic.Sign(555), "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))

	for _, raw := range []string{pair1.RefreshToken, pair2.RefreshToken} {
		stored := tokens.tokens[hashToken(raw)]
		require.NotNil(t, stored)
		assert.NotNil(t, stored.RevokedAt)
		assert.False(t, stored.IsValid())
	}
}

func TestMakeLink(t *testing.T) {
	svc, _, _, magic := newTestAuthService()

	url, err := svc.MakeLink(555)
	require.NoError(t, err)
	assert.Equal(t, magic.URL(555), url)

	_, err = svc.MakeLink(0)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRefreshToken_IsValid(t *testing.T) {
	now := time.Now()

	live := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, live.IsValid())

	expired := &RefreshToken{ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, expired.IsValid())

	revoked := &RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}
	assert.False(t, revoked.IsValid())
}
