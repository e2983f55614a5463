// Package shop provides the Shop catalog.
// A shop is a retail point inside a district that receives deliveries
// and carries a money ledger.
package shop

import (
	"context"
	"strings"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
)

// Shop represents a retail point.
type Shop struct {
	ID         id.ID     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	DistrictID id.ID     `db:"district_id" json:"districtId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// NewShop creates a new Shop with a trimmed name.
func NewShop(name string, districtID id.ID) *Shop {
	return &Shop{
		ID:         id.New(),
		Name:       strings.TrimSpace(name),
		DistrictID: districtID,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks required fields.
func (s *Shop) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("shop name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(s.DistrictID) {
		return apperror.NewValidation("district is required").
			WithDetail("field", "districtId")
	}
	return nil
}
