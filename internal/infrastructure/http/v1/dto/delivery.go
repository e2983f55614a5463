package dto

// CreateDeliveryRequest posts a delivery. Quantity and price are
// strings so comma decimals survive binding; parsing happens in the
// handler before the service call.
type CreateDeliveryRequest struct {
	DistrictID string `json:"districtId" binding:"required"`
	ShopID     string `json:"shopId" binding:"required"`
	ProductID  string `json:"productId" binding:"required"`
	QtyKg      string `json:"qtyKg" binding:"required"`

	// UnitPrice is used only when the product has no catalog price.
	UnitPrice string `json:"unitPrice"`

	PayKind string `json:"payKind" binding:"required"`
}
