package handlers

import (
	"github.com/gin-gonic/gin"

	"sklad/internal/core/apperror"
	"sklad/internal/infrastructure/http/v1/dto"
	"sklad/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the change history (admin only).
type AuditHandler struct {
	*BaseHandler
	service *postgres.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, service *postgres.AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// Recent handles GET /audit
// Without entity filters it returns the latest entries across all
// entities; with ?entityType=&entityId= it returns one entity's history.
func (h *AuditHandler) Recent(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 0)

	entityType := c.Query("entityType")
	entityID, ok := h.ParseOptionalIDQuery(c, "entityId")
	if !ok {
		return
	}

	if (entityType == "") != (entityID == nil) {
		h.Error(c, apperror.NewValidation("entityType and entityId must be supplied together"))
		return
	}

	var entries []postgres.AuditEntry
	var err error
	if entityID != nil {
		entries, err = h.service.GetEntityHistory(c.Request.Context(), entityType, *entityID, limit)
	} else {
		entries, err = h.service.Recent(c.Request.Context(), limit)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse[postgres.AuditEntry]{Items: entries})
}
