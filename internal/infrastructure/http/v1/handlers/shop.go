package handlers

import (
	"github.com/gin-gonic/gin"

	"sklad/internal/core/id"
	"sklad/internal/domain/catalogs/shop"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// ShopHandler handles HTTP requests for the shop catalog.
type ShopHandler struct {
	*BaseHandler
	service *shop.Service
	audit   *postgres.AuditService
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(base *BaseHandler, service *shop.Service, audit *postgres.AuditService) *ShopHandler {
	return &ShopHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /catalog/shops
func (h *ShopHandler) Create(c *gin.Context) {
	var req dto.CreateShopRequest
	if !h.BindJSON(c, &req) {
		return
	}

	districtID, err := id.Parse(req.DistrictID)
	if err != nil {
		h.Error(c, invalidField("districtId"))
		return
	}

	s, err := h.service.Create(c.Request.Context(), req.Name, districtID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "shop", s.ID,
			postgres.AuditActionCreate, map[string]any{"name": s.Name, "districtId": s.DistrictID})
	}

	h.Created(c, s.ID.String())
}

// Get handles GET /catalog/shops/:id
func (h *ShopHandler) Get(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), shopID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, s)
}

// List handles GET /catalog/shops
// Dealers filter by districtId; admins also page and search.
func (h *ShopHandler) List(c *gin.Context) {
	districtID, ok := h.ParseOptionalIDQuery(c, "districtId")
	if !ok {
		return
	}

	page := h.ParseIntQuery(c, "page", 1)
	size := h.ParseIntQuery(c, "size", 0)
	search := c.Query("search")

	result, err := h.service.ListPage(c.Request.Context(), page, size, districtID, search)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Delete handles DELETE /catalog/shops/:id
func (h *ShopHandler) Delete(c *gin.Context) {
	shopID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), shopID); err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "shop", shopID,
			postgres.AuditActionDelete, nil)
	}

	h.NoContent(c)
}
