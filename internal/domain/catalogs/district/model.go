// Package district provides the District catalog.
// Districts group shops by delivery territory.
package district

import (
	"context"
	"strings"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
)

// District represents a delivery territory.
type District struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewDistrict creates a new District with a trimmed name.
func NewDistrict(name string) *District {
	return &District{
		ID:        id.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (d *District) Validate(ctx context.Context) error {
	if strings.TrimSpace(d.Name) == "" {
		return apperror.NewValidation("district name is required").
			WithDetail("field", "name")
	}
	return nil
}
