// Package product provides the Product catalog.
// Products are goods tracked in kilograms on the stock ledger.
package product

import (
	"context"
	"strings"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Product represents a good delivered to shops.
type Product struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	// Kind is a free-form category ("un", "yog", ...)
	Kind  *string `db:"kind" json:"kind,omitempty"`
	Brand *string `db:"brand" json:"brand,omitempty"`

	// PricePerKg is the selling price used for deliveries.
	// Nil means the price must be supplied per delivery.
	PricePerKg *types.Money `db:"price_per_kg" json:"pricePerKg,omitempty"`

	// Purchase and selling prices per pack, informational.
	InPricePerPack  *types.Money `db:"in_price_per_pack" json:"inPricePerPack,omitempty"`
	OutPricePerPack *types.Money `db:"out_price_per_pack" json:"outPricePerPack,omitempty"`

	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewProduct creates an active Product with a trimmed name.
func NewProduct(name string) *Product {
	return &Product{
		ID:        id.New(),
		Name:      strings.TrimSpace(name),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields and price signs.
func (p *Product) Validate(ctx context.Context) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}
	for field, price := range map[string]*types.Money{
		"pricePerKg":      p.PricePerKg,
		"inPricePerPack":  p.InPricePerPack,
		"outPricePerPack": p.OutPricePerPack,
	} {
		if price != nil && price.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("field", field)
		}
	}
	return nil
}

// EffectivePricePerKg returns the catalog price if it is set and positive.
func (p *Product) EffectivePricePerKg() (types.Money, bool) {
	if p.PricePerKg != nil && p.PricePerKg.IsPositive() {
		return *p.PricePerKg, true
	}
	return types.Zero(), false
}
