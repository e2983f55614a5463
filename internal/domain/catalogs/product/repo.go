package product

import (
	"context"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// GetForUpdate retrieves the product with a row lock. Delivery
	// posting uses it to serialize concurrent stock checks.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// List returns products ordered by name. OnlyActive hides retired ones.
	List(ctx context.Context, onlyActive bool) ([]*Product, error)

	UpdatePrice(ctx context.Context, productID id.ID, price *types.Money) error
	SetActive(ctx context.Context, productID id.ID, active bool) error

	// Delete removes the product permanently. Returns ENTITY_IN_USE when
	// movements or deliveries reference it.
	Delete(ctx context.Context, productID id.ID) error
}
