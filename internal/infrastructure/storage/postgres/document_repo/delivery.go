// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/domain/documents/delivery"
	"sklad/internal/infrastructure/storage/postgres"
)

const deliveriesTable = "doc_deliveries"

var deliveryColumns = []string{
	"id", "district_id", "shop_id", "product_id",
	"qty_kg", "unit_price", "total", "pay_kind",
	"created_by", "created_at",
}

// DeliveryRepo implements delivery.Repository.
type DeliveryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewDeliveryRepo creates a new delivery repository.
func NewDeliveryRepo(txManager *postgres.TxManager) *DeliveryRepo {
	return &DeliveryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert stores a posted delivery. Runs inside the posting transaction.
func (r *DeliveryRepo) Insert(ctx context.Context, d *delivery.Delivery) error {
	q := r.builder.Insert(deliveriesTable).SetMap(postgres.StructToMap(d))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewValidation("delivery references a missing record").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
		return fmt.Errorf("insert delivery: %w", err)
	}

	return nil
}

// GetByID retrieves a delivery by ID.
func (r *DeliveryRepo) GetByID(ctx context.Context, deliveryID id.ID) (*delivery.Delivery, error) {
	q := r.builder.
		Select(deliveryColumns...).
		From(deliveriesTable).
		Where(squirrel.Eq{"id": deliveryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var d delivery.Delivery
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &d, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("delivery", deliveryID.String())
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}

	return &d, nil
}

// List returns deliveries newest-first.
func (r *DeliveryRepo) List(ctx context.Context, filter delivery.ListFilter) ([]*delivery.Delivery, error) {
	q := r.builder.
		Select(deliveryColumns...).
		From(deliveriesTable).
		OrderBy("created_at DESC")

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
	}
	if filter.DistrictID != nil {
		q = q.Where(squirrel.Eq{"district_id": *filter.DistrictID})
	}
	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"shop_id": *filter.ShopID})
	}
	if filter.CreatedBy != nil {
		q = q.Where(squirrel.Eq{"created_by": *filter.CreatedBy})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var deliveries []*delivery.Delivery
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &deliveries, sql, args...); err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}

	return deliveries, nil
}
