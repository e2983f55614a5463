package delivery

import (
	"context"
	"time"

	"sklad/internal/core/id"
)

// ListFilter narrows delivery listings.
type ListFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	DistrictID *id.ID
	ShopID     *id.ID
	CreatedBy  *id.ID
	Limit      int
	Offset     int
}

// Repository defines the interface for Delivery persistence.
type Repository interface {
	Insert(ctx context.Context, d *Delivery) error
	GetByID(ctx context.Context, deliveryID id.ID) (*Delivery, error)

	// List returns deliveries newest-first.
	List(ctx context.Context, filter ListFilter) ([]*Delivery, error)
}
