package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/registers/shopledger"
	"sklad/internal/infrastructure/storage/postgres"
)

const shopTxTable = "reg_shop_transactions"

// ShopLedgerRepo implements shopledger.Repository.
type ShopLedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewShopLedgerRepo creates a new shop ledger repository.
func NewShopLedgerRepo(txManager *postgres.TxManager) *ShopLedgerRepo {
	return &ShopLedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends one transaction to the log.
func (r *ShopLedgerRepo) Insert(ctx context.Context, t *shopledger.Transaction) error {
	q := r.builder.Insert(shopTxTable).SetMap(postgres.StructToMap(t))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert shop transaction: %w", err)
	}

	return nil
}

// Balance computes sum(payment) - sum(sale) for one shop. A shop that
// owes money shows a negative balance; an empty log yields zero.
func (r *ShopLedgerRepo) Balance(ctx context.Context, shopID id.ID) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'payment' THEN amount ELSE -amount END), 0)
		FROM reg_shop_transactions
		WHERE shop_id = $1
	`

	var balance types.Money
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, shopID).Scan(&balance); err != nil {
		return types.Zero(), fmt.Errorf("shop balance: %w", err)
	}

	return balance, nil
}

// Balances computes the balance of every shop ordered by name,
// optionally narrowed to one district. The LEFT JOIN keeps shops
// without transactions in the result with a zero balance.
func (r *ShopLedgerRepo) Balances(ctx context.Context, districtID *id.ID) ([]shopledger.ShopBalance, error) {
	q := r.builder.
		Select(
			"s.id AS shop_id",
			"s.name AS shop_name",
			"d.id AS district_id",
			"d.name AS district_name",
			"COALESCE(SUM(CASE WHEN t.kind = 'payment' THEN t.amount ELSE -t.amount END), 0) AS balance",
		).
		From("cat_shops s").
		Join("cat_districts d ON d.id = s.district_id").
		LeftJoin(shopTxTable + " t ON t.shop_id = s.id").
		GroupBy("s.id", "s.name", "d.id", "d.name").
		OrderBy("s.name")

	if districtID != nil {
		q = q.Where(squirrel.Eq{"s.district_id": *districtID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []shopledger.ShopBalance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("shop balances: %w", err)
	}

	return balances, nil
}

// History returns transactions for a shop, newest first.
func (r *ShopLedgerRepo) History(ctx context.Context, shopID id.ID, limit int) ([]shopledger.Transaction, error) {
	q := r.builder.
		Select("id", "shop_id", "kind", "amount", "note", "created_at").
		From(shopTxTable).
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("created_at DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var transactions []shopledger.Transaction
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &transactions, sql, args...); err != nil {
		return nil, fmt.Errorf("shop history: %w", err)
	}

	return transactions, nil
}
