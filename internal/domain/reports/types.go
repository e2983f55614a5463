// Package reports provides read-only aggregations over deliveries.
// Reports never mutate state and always recompute from the source rows.
package reports

import (
	"time"

	"sklad/internal/core/id"
	"sklad/internal/core/types"
)

// Filter bounds every report query. The date window is half-open:
// [FromDate, ToDate).
type Filter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	DistrictID *id.ID
	ShopID     *id.ID
}

// Summary is the overall totals for a filter window.
type Summary struct {
	Count    int            `db:"count" json:"count"`
	SumQty   types.Quantity `db:"sum_qty" json:"sumQtyKg"`
	SumTotal types.Money    `db:"sum_total" json:"sumTotal"`
}

// ShopGroupRow aggregates deliveries per shop.
type ShopGroupRow struct {
	ShopID       id.ID          `db:"shop_id" json:"shopId"`
	ShopName     string         `db:"shop_name" json:"shopName"`
	DistrictName string         `db:"district_name" json:"districtName"`
	Count        int            `db:"count" json:"count"`
	SumQty       types.Quantity `db:"sum_qty" json:"sumQtyKg"`
	SumTotal     types.Money    `db:"sum_total" json:"sumTotal"`
}

// PayKindRow aggregates deliveries per payment kind.
type PayKindRow struct {
	PayKind  string         `db:"pay_kind" json:"payKind"`
	Count    int            `db:"count" json:"count"`
	SumQty   types.Quantity `db:"sum_qty" json:"sumQtyKg"`
	SumTotal types.Money    `db:"sum_total" json:"sumTotal"`
}

// DetailRow is one delivery joined with its names for flat listings.
type DetailRow struct {
	DeliveryID   id.ID          `db:"delivery_id" json:"deliveryId"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	DistrictName string         `db:"district_name" json:"districtName"`
	ShopName     string         `db:"shop_name" json:"shopName"`
	ProductName  string         `db:"product_name" json:"productName"`
	QtyKg        types.Quantity `db:"qty_kg" json:"qtyKg"`
	UnitPrice    types.Money    `db:"unit_price" json:"unitPrice"`
	Total        types.Money    `db:"total" json:"total"`
	PayKind      string         `db:"pay_kind" json:"payKind"`
}

// ProductRow aggregates deliveries of one shop per product.
type ProductRow struct {
	ProductID   id.ID          `db:"product_id" json:"productId"`
	ProductName string         `db:"product_name" json:"productName"`
	Count       int            `db:"count" json:"count"`
	SumQty      types.Quantity `db:"sum_qty" json:"sumQtyKg"`
	SumTotal    types.Money    `db:"sum_total" json:"sumTotal"`
}
