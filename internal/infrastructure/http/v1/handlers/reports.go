package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"sklad/internal/core/apperror"
	"sklad/internal/domain/reports"
	"sklad/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for delivery reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// parseFilter builds the report filter from shared query parameters.
// ?days= wins over an explicit from/to pair.
func (h *ReportsHandler) parseFilter(c *gin.Context) (reports.Filter, bool) {
	var filter reports.Filter

	var ok bool
	if filter.DistrictID, ok = h.ParseOptionalIDQuery(c, "districtId"); !ok {
		return filter, false
	}
	if filter.ShopID, ok = h.ParseOptionalIDQuery(c, "shopId"); !ok {
		return filter, false
	}

	if days := h.ParseIntQuery(c, "days", 0); days > 0 || (c.Query("from") == "" && c.Query("to") == "") {
		from, to := reports.WindowFromDays(days, time.Now().UTC())
		filter.FromDate, filter.ToDate = &from, &to
		return filter, true
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid from date, expected RFC3339"))
			return filter, false
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid to date, expected RFC3339"))
			return filter, false
		}
		filter.ToDate = &to
	}

	return filter, true
}

// Summary handles GET /reports/summary
func (h *ReportsHandler) Summary(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// DeliveriesByShop handles GET /reports/deliveries-by-shop
func (h *ReportsHandler) DeliveriesByShop(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	rows, err := h.service.DeliveriesByShop(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[reports.ShopGroupRow]{Items: rows})
}

// DeliveriesByPayKind handles GET /reports/deliveries-by-pay-kind
func (h *ReportsHandler) DeliveriesByPayKind(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	rows, err := h.service.DeliveriesByPayKind(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[reports.PayKindRow]{Items: rows})
}

// DeliveryDetail handles GET /reports/delivery-detail
func (h *ReportsHandler) DeliveryDetail(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 0)

	rows, err := h.service.DeliveryDetail(c.Request.Context(), filter, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[reports.DetailRow]{Items: rows})
}

// ProductBreakdown handles GET /reports/product-breakdown?shopId=
func (h *ReportsHandler) ProductBreakdown(c *gin.Context) {
	shopID, ok := h.ParseOptionalIDQuery(c, "shopId")
	if !ok {
		return
	}
	if shopID == nil {
		h.Error(c, apperror.NewValidation("shopId is required"))
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	filter.ShopID = nil // the dedicated argument carries the shop

	rows, err := h.service.ProductBreakdownForShop(c.Request.Context(), *shopID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[reports.ProductRow]{Items: rows})
}
