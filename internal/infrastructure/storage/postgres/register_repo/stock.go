// Package register_repo provides PostgreSQL implementations for the
// append-only ledger repositories. Balances are always computed by
// summing the full log; nothing here updates or deletes rows.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/registers/stock"
	"sklad/internal/infrastructure/storage/postgres"
)

const stockMovesTable = "reg_stock_moves"

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends one movement to the log.
func (r *StockRepo) Insert(ctx context.Context, m *stock.Movement) error {
	q := r.builder.Insert(stockMovesTable).SetMap(postgres.StructToMap(m))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}

	return nil
}

// Balance computes sum(kirim) - sum(chiqim) for one product.
// An empty log yields zero.
func (r *StockRepo) Balance(ctx context.Context, productID id.ID) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'kirim' THEN qty_kg ELSE -qty_kg END), 0)::bigint
		FROM reg_stock_moves
		WHERE product_id = $1
	`

	var balance int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, productID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("stock balance: %w", err)
	}

	return types.NewQuantityFromInt64Scaled(balance), nil
}

// Balances computes the balance of every active product ordered by
// name. The LEFT JOIN keeps products without movements in the result
// with a zero balance.
func (r *StockRepo) Balances(ctx context.Context) ([]stock.ProductBalance, error) {
	sql := `
		SELECT
			p.id   AS product_id,
			p.name AS product_name,
			p.kind AS kind,
			p.brand AS brand,
			COALESCE(SUM(CASE WHEN m.kind = 'kirim' THEN m.qty_kg ELSE -m.qty_kg END), 0)::bigint AS balance
		FROM cat_products p
		LEFT JOIN reg_stock_moves m ON m.product_id = p.id
		WHERE p.is_active = true
		GROUP BY p.id, p.name, p.kind, p.brand
		ORDER BY p.name
	`

	var balances []stock.ProductBalance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql); err != nil {
		return nil, fmt.Errorf("stock balances: %w", err)
	}

	return balances, nil
}

// History returns movements for a product, newest first.
func (r *StockRepo) History(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]stock.Movement, error) {
	q := r.builder.
		Select("id", "product_id", "kind", "qty_kg", "shop_id", "note", "created_at").
		From(stockMovesTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC")

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
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

	var movements []stock.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("stock history: %w", err)
	}

	return movements, nil
}
