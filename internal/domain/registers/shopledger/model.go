// Package shopledger provides the shop money ledger: an append-only
// log of sales (debt accrued) and payments (money received) per shop.
// The balance is payments minus sales, so a shop that owes money
// shows a negative balance.
package shopledger

import (
	"time"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Kind is the transaction direction.
type Kind string

const (
	// KindSale increases what the shop owes.
	KindSale Kind = "sale"
	// KindPayment decreases what the shop owes.
	KindPayment Kind = "payment"
)

// Transaction is a single immutable ledger entry. Amount is always a
// positive magnitude; direction is carried by Kind.
type Transaction struct {
	ID        id.ID       `db:"id" json:"id"`
	ShopID    id.ID       `db:"shop_id" json:"shopId"`
	Kind      Kind        `db:"kind" json:"kind"`
	Amount    types.Money `db:"amount" json:"amount"`
	Note      *string     `db:"note" json:"note,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// SignedAmount returns the amount with the payment-positive sign
// convention applied.
func (t Transaction) SignedAmount() types.Money {
	if t.Kind == KindSale {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ShopBalance pairs a shop with its derived money balance.
type ShopBalance struct {
	ShopID       id.ID       `db:"shop_id" json:"shopId"`
	ShopName     string      `db:"shop_name" json:"shopName"`
	DistrictID   id.ID       `db:"district_id" json:"districtId"`
	DistrictName string      `db:"district_name" json:"districtName"`
	Balance      types.Money `db:"balance" json:"balance"`
}
