package stock

import (
	"context"
	"time"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Repository defines operations for the stock ledger.
type Repository interface {
	// Insert appends one movement. Entries are never updated or deleted.
	Insert(ctx context.Context, m *Movement) error

	// Balance returns sum(kirim) - sum(chiqim) for a product,
	// recomputed from the full movement log.
	Balance(ctx context.Context, productID id.ID) (types.Quantity, error)

	// Balances returns the derived balance of every active product
	// ordered by product name. Products without movements appear with
	// a zero balance.
	Balances(ctx context.Context) ([]ProductBalance, error)

	// History returns movements newest-first.
	History(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error)
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	Kind     *Kind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
