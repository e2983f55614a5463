package reports

import (
	"context"

	"sklad/internal/core/id"
)

// Repository defines read-side queries over deliveries.
type Repository interface {
	Summary(ctx context.Context, filter Filter) (Summary, error)
	DeliveriesByShop(ctx context.Context, filter Filter) ([]ShopGroupRow, error)
	DeliveriesByPayKind(ctx context.Context, filter Filter) ([]PayKindRow, error)
	DeliveryDetail(ctx context.Context, filter Filter, limit int) ([]DetailRow, error)
	ProductBreakdownForShop(ctx context.Context, shopID id.ID, filter Filter) ([]ProductRow, error)
}
