package handlers

import (
	"github.com/gin-gonic/gin"

	"sklad/internal/core/apperror"
	"sklad/internal/core/types"
	"sklad/internal/domain/registers/shopledger"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// ShopLedgerHandler handles HTTP requests for the shop money ledger.
type ShopLedgerHandler struct {
	*BaseHandler
	service *shopledger.Service
	audit   *postgres.AuditService
}

// NewShopLedgerHandler creates a new shop ledger handler.
func NewShopLedgerHandler(base *BaseHandler, service *shopledger.Service, audit *postgres.AuditService) *ShopLedgerHandler {
	return &ShopLedgerHandler{BaseHandler: base, service: service, audit: audit}
}

// History handles GET /shops/:id/ledger
// Returns the shop's current balance and recent transactions.
func (h *ShopLedgerHandler) History(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	balance, err := h.service.BalanceOf(ctx, shopID)
	if err != nil {
		h.Error(c, err)
		return
	}

	limit := h.ParseIntQuery(c, "limit", 0)
	transactions, err := h.service.History(ctx, shopID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"shopId":       shopID,
		"balance":      balance,
		"transactions": transactions,
	})
}

// RecordSale handles POST /shops/:id/ledger/sale
// Manual debt adjustment outside delivery posting.
func (h *ShopLedgerHandler) RecordSale(c *gin.Context) {
	h.record(c, shopledger.KindSale)
}

// RecordPayment handles POST /shops/:id/ledger/payment
// Records money received from the shop.
func (h *ShopLedgerHandler) RecordPayment(c *gin.Context) {
	h.record(c, shopledger.KindPayment)
}

func (h *ShopLedgerHandler) record(c *gin.Context, kind shopledger.Kind) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.LedgerEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	amount, err := types.ParseMoney(req.Amount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid amount").WithDetail("amount", req.Amount))
		return
	}

	ctx := c.Request.Context()

	var t *shopledger.Transaction
	if kind == shopledger.KindSale {
		t, err = h.service.RecordSale(ctx, shopID, amount, req.Note)
	} else {
		t, err = h.service.RecordPayment(ctx, shopID, amount, req.Note)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(ctx, "shop_transaction", t.ID,
			postgres.AuditActionPost, map[string]any{"shopId": shopID, "kind": kind, "amount": req.Amount})
	}

	h.Created(c, t.ID.String())
}

// Balances handles GET /balances?districtId=
// Returns the derived balance of every shop, optionally per district.
func (h *ShopLedgerHandler) Balances(c *gin.Context) {
	districtID, ok := h.ParseOptionalIDQuery(c, "districtId")
	if !ok {
		return
	}

	balances, err := h.service.Balances(c.Request.Context(), districtID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[shopledger.ShopBalance]{Items: balances})
}
