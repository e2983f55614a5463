// Package delivery provides the delivery document: one product brought
// to one shop, priced and paid in a single atomic posting that touches
// the stock ledger and the shop ledger together.
package delivery

import (
	"context"
	"time"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// PayKind is how the shop settles the delivery.
type PayKind string

const (
	// PayNaqd is cash on delivery.
	PayNaqd PayKind = "naqd"
	// PayTerminal is card payment on delivery.
	PayTerminal PayKind = "terminal"
	// PayQarz is on credit: the total is added to the shop's debt.
	PayQarz PayKind = "qarz"
)

// ValidPayKind reports whether k is a known payment kind.
func ValidPayKind(k PayKind) bool {
	switch k {
	case PayNaqd, PayTerminal, PayQarz:
		return true
	}
	return false
}

// IsImmediate reports whether the payment settles on the spot.
func (k PayKind) IsImmediate() bool {
	return k == PayNaqd || k == PayTerminal
}

// Delivery is an immutable record of goods delivered to a shop.
type Delivery struct {
	ID         id.ID `db:"id" json:"id"`
	DistrictID id.ID `db:"district_id" json:"districtId"`
	ShopID     id.ID `db:"shop_id" json:"shopId"`
	ProductID  id.ID `db:"product_id" json:"productId"`

	QtyKg     types.Quantity `db:"qty_kg" json:"qtyKg"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`

	// Total is qty * unit_price, computed once at posting time.
	Total types.Money `db:"total" json:"total"`

	PayKind PayKind `db:"pay_kind" json:"payKind"`

	// CreatedBy is the recording user (dealer).
	CreatedBy *id.ID `db:"created_by" json:"createdBy,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks structural invariants of a delivery.
func (d *Delivery) Validate(ctx context.Context) error {
	if !d.QtyKg.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("qtyKg", d.QtyKg.String())
	}
	if !d.UnitPrice.IsPositive() {
		return apperror.NewValidation("unit price must be positive").
			WithDetail("unitPrice", d.UnitPrice.String())
	}
	if !ValidPayKind(d.PayKind) {
		return apperror.NewValidation("invalid payment kind").
			WithDetail("payKind", string(d.PayKind))
	}
	if id.IsNil(d.DistrictID) || id.IsNil(d.ShopID) || id.IsNil(d.ProductID) {
		return apperror.NewValidation("district, shop and product are required")
	}
	return nil
}
