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
	"sklad/internal/domain/catalogs/shop"
	"sklad/internal/infrastructure/storage/postgres"
)

const shopTable = "cat_shops"

// ShopRepo implements shop.Repository.
type ShopRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewShopRepo creates a new shop repository.
func NewShopRepo(txManager *postgres.TxManager) *ShopRepo {
	return &ShopRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new shop.
func (r *ShopRepo) Create(ctx context.Context, s *shop.Shop) error {
	q := r.builder.Insert(shopTable).SetMap(postgres.StructToMap(s))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return apperror.NewNotFound("district", s.DistrictID.String()).WithCause(err)
			case "23505":
				return apperror.NewDuplicate("shop", "name", s.Name).WithCause(err)
			}
		}
		return fmt.Errorf("insert shop: %w", err)
	}

	return nil
}

// GetByID retrieves a shop by ID.
func (r *ShopRepo) GetByID(ctx context.Context, shopID id.ID) (*shop.Shop, error) {
	q := r.builder.
		Select("id", "name", "district_id", "created_at").
		From(shopTable).
		Where(squirrel.Eq{"id": shopID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s shop.Shop
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shop", shopID.String())
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}

	return &s, nil
}

// ListByDistrict returns all shops of one district ordered by name.
func (r *ShopRepo) ListByDistrict(ctx context.Context, districtID id.ID) ([]*shop.Shop, error) {
	q := r.builder.
		Select("id", "name", "district_id", "created_at").
		From(shopTable).
		Where(squirrel.Eq{"district_id": districtID}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var shops []*shop.Shop
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &shops, sql, args...); err != nil {
		return nil, fmt.Errorf("list shops by district: %w", err)
	}

	return shops, nil
}

// List returns a filtered page of shops with the total match count.
func (r *ShopRepo) List(ctx context.Context, filter shop.ListFilter) (shop.ListResult, error) {
	result := shop.ListResult{
		Items:  []*shop.Shop{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	base := r.builder.Select().From(shopTable)
	if filter.DistrictID != nil {
		base = base.Where(squirrel.Eq{"district_id": *filter.DistrictID})
	}
	if filter.Search != "" {
		base = base.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count shops: %w", err)
	}

	q := base.
		Columns("id", "name", "district_id", "created_at").
		OrderBy("name").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list shops: %w", err)
	}

	return result, nil
}

// Delete removes a shop. Blocked with ENTITY_IN_USE when ledger entries
// or deliveries reference it.
func (r *ShopRepo) Delete(ctx context.Context, shopID id.ID) error {
	q := r.builder.Delete(shopTable).Where(squirrel.Eq{"id": shopID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewEntityInUse("shop", shopID.String()).WithCause(err)
		}
		return fmt.Errorf("delete shop: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("shop", shopID.String())
	}

	return nil
}
