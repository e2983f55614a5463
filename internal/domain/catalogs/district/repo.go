package district

import (
	"context"

	"sklad/internal/core/id"
)

// Repository defines the interface for District persistence.
type Repository interface {
	Create(ctx context.Context, d *District) error
	GetByID(ctx context.Context, districtID id.ID) (*District, error)
	GetByName(ctx context.Context, name string) (*District, error)
	List(ctx context.Context) ([]*District, error)

	// Delete removes the district. Shops in the district are removed by
	// the ON DELETE CASCADE constraint.
	Delete(ctx context.Context, districtID id.ID) error
}
