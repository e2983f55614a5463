package shop

import (
	"context"

	"sklad/internal/core/id"
)

// ListFilter narrows and paginates shop listings.
type ListFilter struct {
	DistrictID *id.ID
	Search     string
	Limit      int
	Offset     int
}

// ListResult is a page of shops with the total match count.
type ListResult struct {
	Items      []*Shop `json:"items"`
	TotalCount int     `json:"totalCount"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

// Repository defines the interface for Shop persistence.
type Repository interface {
	Create(ctx context.Context, s *Shop) error
	GetByID(ctx context.Context, shopID id.ID) (*Shop, error)
	ListByDistrict(ctx context.Context, districtID id.ID) ([]*Shop, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Delete(ctx context.Context, shopID id.ID) error
}
