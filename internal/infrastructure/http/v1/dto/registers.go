package dto

// InboundStockRequest records a warehouse receipt. Quantity is a
// string so comma decimals survive binding.
type InboundStockRequest struct {
	ProductID string `json:"productId" binding:"required"`
	QtyKg     string `json:"qtyKg" binding:"required"`
	Note      string `json:"note"`
}

// LedgerEntryRequest records a manual sale or payment on a shop ledger.
type LedgerEntryRequest struct {
	Amount string `json:"amount" binding:"required"`
	Note   string `json:"note"`
}
