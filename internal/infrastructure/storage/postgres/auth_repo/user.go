// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/domain/auth"
	"sklad/internal/infrastructure/storage/postgres"
)

const usersTable = "auth_users"

var userColumns = []string{
	"id", "tg_id", "full_name", "role",
	"is_active", "last_login_at", "created_at",
}

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.builder.Insert(usersTable).SetMap(postgres.StructToMap(user))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("user", "tg_id", auth.FormatTgID(user.TgID)).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": userID}, userID.String())
}

// GetByTgID retrieves a user by Telegram ID.
func (r *UserRepo) GetByTgID(ctx context.Context, tgID int64) (*auth.User, error) {
	return r.getBy(ctx, squirrel.Eq{"tg_id": tgID}, auth.FormatTgID(tgID))
}

func (r *UserRepo) getBy(ctx context.Context, pred squirrel.Eq, key string) (*auth.User, error) {
	q := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(pred).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var user auth.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	q := r.builder.
		Select(userColumns...).
		From(usersTable).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var users []*auth.User
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &users, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdateLastLogin stamps the login time.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID id.ID) error {
	return r.update(ctx, userID, "last_login_at", time.Now().UTC())
}

// SetFullName syncs the display name reported by Telegram.
func (r *UserRepo) SetFullName(ctx context.Context, userID id.ID, fullName string) error {
	return r.update(ctx, userID, "full_name", fullName)
}

func (r *UserRepo) update(ctx context.Context, userID id.ID, column string, value any) error {
	q := r.builder.
		Update(usersTable).
		Set(column, value).
		Where(squirrel.Eq{"id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user %s: %w", column, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}
