package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/domain/auth"
	"sklad/internal/infrastructure/storage/postgres"
)

const refreshTokensTable = "auth_refresh_tokens"

// TokenRepo implements auth.TokenRepository. Only token hashes are
// stored; the raw token never touches the database.
type TokenRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewTokenRepo creates a new refresh token repository.
func NewTokenRepo(txManager *postgres.TxManager) *TokenRepo {
	return &TokenRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SaveRefreshToken stores a new refresh token.
func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	q := r.builder.Insert(refreshTokensTable).SetMap(postgres.StructToMap(token))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves a token by its hash.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	q := r.builder.
		Select("id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at", "revoked_reason").
		From(refreshTokensTable).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var token auth.RefreshToken
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &token, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewUnauthorized("refresh token not found")
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	return &token, nil
}

// RevokeRefreshToken marks one token as revoked.
func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	q := r.builder.
		Update(refreshTokensTable).
		Set("revoked_at", time.Now().UTC()).
		Set("revoked_reason", reason).
		Where(squirrel.Eq{"id": tokenID}).
		Where(squirrel.Eq{"revoked_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAllUserTokens revokes every live token of one user.
// Used on logout and when a token is replayed after rotation.
func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	q := r.builder.
		Update(refreshTokensTable).
		Set("revoked_at", time.Now().UTC()).
		Set("revoked_reason", reason).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"revoked_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	return nil
}
