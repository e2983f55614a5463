package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"sklad/internal/core/apperror"
	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/documents/delivery"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// DeliveryHandler handles HTTP requests for delivery documents.
type DeliveryHandler struct {
	*BaseHandler
	service *delivery.Service
	audit   *postgres.AuditService
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *delivery.Service, audit *postgres.AuditService) *DeliveryHandler {
	return &DeliveryHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /deliveries
// Posts a delivery atomically: stock issue plus ledger entry.
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := h.parseCreateRequest(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), *in)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "delivery", d.ID,
			postgres.AuditActionPost, map[string]any{
				"shopId":  d.ShopID,
				"qtyKg":   d.QtyKg.String(),
				"total":   d.Total,
				"payKind": d.PayKind,
			})
	}

	h.OK(c, d)
}

func (h *DeliveryHandler) parseCreateRequest(req dto.CreateDeliveryRequest) (*delivery.CreateInput, error) {
	districtID, err := id.Parse(req.DistrictID)
	if err != nil {
		return nil, invalidField("districtId")
	}
	shopID, err := id.Parse(req.ShopID)
	if err != nil {
		return nil, invalidField("shopId")
	}
	productID, err := id.Parse(req.ProductID)
	if err != nil {
		return nil, invalidField("productId")
	}

	qty, err := types.ParseQuantity(req.QtyKg)
	if err != nil {
		return nil, apperror.NewValidation("invalid quantity").WithDetail("qtyKg", req.QtyKg)
	}

	in := &delivery.CreateInput{
		DistrictID: districtID,
		ShopID:     shopID,
		ProductID:  productID,
		QtyKg:      qty,
		PayKind:    delivery.PayKind(req.PayKind),
	}

	if req.UnitPrice != "" {
		price, err := types.ParseMoney(req.UnitPrice)
		if err != nil {
			return nil, apperror.NewValidation("invalid unit price").WithDetail("unitPrice", req.UnitPrice)
		}
		in.UnitPrice = &price
	}

	return in, nil
}

// Get handles GET /deliveries/:id
func (h *DeliveryHandler) Get(c *gin.Context) {
	deliveryID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), deliveryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, d)
}

// List handles GET /deliveries
// Dealers see only their own postings; admins see everything and may
// filter by district, shop, or date window.
func (h *DeliveryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := delivery.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	var ok bool
	if filter.DistrictID, ok = h.ParseOptionalIDQuery(c, "districtId"); !ok {
		return
	}
	if filter.ShopID, ok = h.ParseOptionalIDQuery(c, "shopId"); !ok {
		return
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

	if !appctx.IsAdmin(ctx) {
		userID, err := id.Parse(appctx.GetUserID(ctx))
		if err != nil {
			h.Error(c, apperror.NewUnauthorized("authentication required"))
			return
		}
		filter.CreatedBy = &userID
	}

	deliveries, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[*delivery.Delivery]{Items: deliveries})
}
