// Package stock provides the stock ledger: an append-only log of
// warehouse receipts (kirim) and issues (chiqim) per product.
// Balances are always derived by summing the log, never stored.
package stock

import (
	"time"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Kind is the movement direction.
type Kind string

const (
	// KindKirim is a warehouse receipt.
	KindKirim Kind = "kirim"
	// KindChiqim is an issue from the warehouse, usually to a shop.
	KindChiqim Kind = "chiqim"
)

// Movement is a single immutable ledger entry. Quantity is always
// positive; direction is carried by Kind.
type Movement struct {
	ID        id.ID          `db:"id" json:"id"`
	ProductID id.ID          `db:"product_id" json:"productId"`
	Kind      Kind           `db:"kind" json:"kind"`
	QtyKg     types.Quantity `db:"qty_kg" json:"qtyKg"`

	// ShopID is the destination shop, set only for chiqim.
	ShopID *id.ID  `db:"shop_id" json:"shopId,omitempty"`
	Note   *string `db:"note" json:"note,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SignedQty returns the quantity with the movement direction applied.
func (m Movement) SignedQty() types.Quantity {
	if m.Kind == KindChiqim {
		return m.QtyKg.Neg()
	}
	return m.QtyKg
}

// ProductBalance pairs a product with its derived stock balance.
type ProductBalance struct {
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	Kind        *string        `db:"kind" json:"kind,omitempty"`
	Brand       *string        `db:"brand" json:"brand,omitempty"`
	Balance     types.Quantity `db:"balance" json:"balanceKg"`
}
