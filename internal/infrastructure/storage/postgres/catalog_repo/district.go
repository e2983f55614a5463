// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/domain/catalogs/district"
	"sklad/internal/infrastructure/storage/postgres"
)

const districtTable = "cat_districts"

// DistrictRepo implements district.Repository.
type DistrictRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewDistrictRepo creates a new district repository.
func NewDistrictRepo(txManager *postgres.TxManager) *DistrictRepo {
	return &DistrictRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new district.
func (r *DistrictRepo) Create(ctx context.Context, d *district.District) error {
	q := r.builder.Insert(districtTable).SetMap(postgres.StructToMap(d))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("district", "name", d.Name).WithCause(err)
		}
		return fmt.Errorf("insert district: %w", err)
	}

	return nil
}

// GetByID retrieves a district by ID.
func (r *DistrictRepo) GetByID(ctx context.Context, districtID id.ID) (*district.District, error) {
	q := r.builder.
		Select("id", "name", "created_at").
		From(districtTable).
		Where(squirrel.Eq{"id": districtID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d district.District
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("district", districtID.String())
		}
		return nil, fmt.Errorf("get district: %w", err)
	}

	return &d, nil
}

// GetByName retrieves a district by exact name.
func (r *DistrictRepo) GetByName(ctx context.Context, name string) (*district.District, error) {
	q := r.builder.
		Select("id", "name", "created_at").
		From(districtTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d district.District
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("district", name)
		}
		return nil, fmt.Errorf("get district by name: %w", err)
	}

	return &d, nil
}

// List returns all districts ordered by name.
func (r *DistrictRepo) List(ctx context.Context) ([]*district.District, error) {
	q := r.builder.
		Select("id", "name", "created_at").
		From(districtTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var districts []*district.District
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &districts, sql, args...); err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}

	return districts, nil
}

// Delete removes a district. Shops in the district are removed by the
// ON DELETE CASCADE constraint; a district whose shops still carry
// ledger entries is blocked by the restrict constraints on those tables.
func (r *DistrictRepo) Delete(ctx context.Context, districtID id.ID) error {
	q := r.builder.Delete(districtTable).Where(squirrel.Eq{"id": districtID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewEntityInUse("district", districtID.String()).WithCause(err)
		}
		return fmt.Errorf("delete district: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("district", districtID.String())
	}

	return nil
}
