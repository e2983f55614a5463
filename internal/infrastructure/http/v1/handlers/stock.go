package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/registers/stock"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
	audit   *postgres.AuditService
}

// NewStockHandler creates a new stock ledger handler.
func NewStockHandler(base *BaseHandler, service *stock.Service, audit *postgres.AuditService) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service, audit: audit}
}

// Inbound handles POST /stock/inbound
// Records a warehouse receipt (kirim).
func (h *StockHandler) Inbound(c *gin.Context) {
	var req dto.InboundStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, invalidField("productId"))
		return
	}

	qty, err := types.ParseQuantity(req.QtyKg)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid quantity").WithDetail("qtyKg", req.QtyKg))
		return
	}

	m, err := h.service.RecordInbound(c.Request.Context(), productID, qty, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "stock_movement", m.ID,
			postgres.AuditActionPost, map[string]any{"productId": productID, "qtyKg": qty.String()})
	}

	h.Created(c, m.ID.String())
}

// Balances handles GET /stock/balances
// Returns the derived balance of every active product.
func (h *StockHandler) Balances(c *gin.Context) {
	balances, err := h.service.Balances(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[stock.ProductBalance]{Items: balances})
}

// Movements handles GET /stock/movements?productId=
// Returns movement history for one product, newest first.
func (h *StockHandler) Movements(c *gin.Context) {
	productID, ok := h.ParseOptionalIDQuery(c, "productId")
	if !ok {
		return
	}
	if productID == nil {
		h.Error(c, apperror.NewValidation("productId is required"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if kindStr := c.Query("kind"); kindStr != "" {
		kind := stock.Kind(kindStr)
		if kind != stock.KindKirim && kind != stock.KindChiqim {
			h.Error(c, apperror.NewValidation("invalid kind").WithDetail("kind", kindStr))
			return
		}
		filter.Kind = &kind
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected RFC3339"))
			return
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected RFC3339"))
			return
		}
		filter.ToDate = &to
	}

	movements, err := h.service.History(c.Request.Context(), *productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[stock.Movement]{Items: movements})
}
