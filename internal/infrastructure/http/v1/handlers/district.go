package handlers

import (
	"github.com/gin-gonic/gin"

	"sklad/internal/domain/catalogs/district"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// DistrictHandler handles HTTP requests for the district catalog.
type DistrictHandler struct {
	*BaseHandler
	service *district.Service
	audit   *postgres.AuditService
}

// NewDistrictHandler creates a new district handler.
func NewDistrictHandler(base *BaseHandler, service *district.Service, audit *postgres.AuditService) *DistrictHandler {
	return &DistrictHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /catalog/districts
func (h *DistrictHandler) Create(c *gin.Context) {
	var req dto.CreateDistrictRequest
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "district", d.ID,
			postgres.AuditActionCreate, map[string]any{"name": d.Name})
	}

	h.Created(c, d.ID.String())
}

// Get handles GET /catalog/districts/:id
func (h *DistrictHandler) Get(c *gin.Context) {
	districtID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), districtID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, d)
}

// List handles GET /catalog/districts
func (h *DistrictHandler) List(c *gin.Context) {
	districts, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[*district.District]{Items: districts})
}

// Delete handles DELETE /catalog/districts/:id
func (h *DistrictHandler) Delete(c *gin.Context) {
	districtID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), districtID); err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "district", districtID,
			postgres.AuditActionDelete, nil)
	}

	h.NoContent(c)
}
