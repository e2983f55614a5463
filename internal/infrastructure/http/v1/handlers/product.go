package handlers

import (
	"github.com/gin-gonic/gin"

	"sklad/internal/domain/catalogs/product"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
	audit   *postgres.AuditService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, audit *postgres.AuditService) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service, audit: audit}
}

// Create handles POST /catalog/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), product.CreateInput{
		Name:            req.Name,
		Kind:            req.Kind,
		Brand:           req.Brand,
		PricePerKg:      req.PricePerKg,
		InPricePerPack:  req.InPricePerPack,
		OutPricePerPack: req.OutPricePerPack,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "product", p.ID,
			postgres.AuditActionCreate, map[string]any{"name": p.Name})
	}

	h.Created(c, p.ID.String())
}

// Get handles GET /catalog/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// List handles GET /catalog/products
// ?active=true narrows to products dealers may deliver.
func (h *ProductHandler) List(c *gin.Context) {
	onlyActive := c.Query("active") == "true"

	products, err := h.service.List(c.Request.Context(), onlyActive)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[*product.Product]{Items: products})
}

// UpdatePrice handles PUT /catalog/products/:id/price
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePriceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdatePrice(c.Request.Context(), productID, req.PricePerKg)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "product", productID,
			postgres.AuditActionUpdate, map[string]any{"pricePerKg": req.PricePerKg})
	}

	h.OK(c, p)
}

// SetActive handles PUT /catalog/products/:id/active
func (h *ProductHandler) SetActive(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.SetActive(c.Request.Context(), productID, *req.Active)
	if err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "product", productID,
			postgres.AuditActionUpdate, map[string]any{"active": *req.Active})
	}

	h.OK(c, p)
}

// Delete handles DELETE /catalog/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	if h.audit != nil {
		_ = h.audit.LogChange(c.Request.Context(), "product", productID,
			postgres.AuditActionDelete, nil)
	}

	h.NoContent(c)
}
