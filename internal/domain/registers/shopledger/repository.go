package shopledger

import (
	"context"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Repository defines operations for the shop ledger.
type Repository interface {
	// Insert appends one transaction. Entries are never updated or deleted.
	Insert(ctx context.Context, t *Transaction) error

	// Balance returns sum(payment) - sum(sale) for a shop, recomputed
	// from the full transaction log.
	Balance(ctx context.Context, shopID id.ID) (types.Money, error)

	// Balances returns the derived balance of every shop ordered by
	// shop name, optionally narrowed to one district. Shops without
	// transactions appear with a zero balance.
	Balances(ctx context.Context, districtID *id.ID) ([]ShopBalance, error)

	// History returns transactions for a shop, newest first.
	History(ctx context.Context, shopID id.ID, limit int) ([]Transaction, error)
}
