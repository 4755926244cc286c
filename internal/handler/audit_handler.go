package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/pkg/response"
)

type auditLogService interface {
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, *models.Pagination, error)
}

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	service  auditLogService
	location *time.Location
}

// NewAuditHandler constructs the handler.
// Date-only filters are interpreted in loc.
func NewAuditHandler(svc auditLogService, loc *time.Location) *AuditHandler {
	return &AuditHandler{service: svc, location: loc}
}

// List godoc
// @Summary List audit logs
// @Tags Audit
// @Produce json
// @Param resource query string false "Resource (table) name"
// @Param action query string false "Action"
// @Param username query string false "Acting username"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date, inclusive (YYYY-MM-DD)"
// @Param search query string false "Free text search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditLogFilter{
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
		Username: c.Query("username"),
		Search:   c.Query("search"),
	}
	var err error
	if filter.From, filter.To, err = dateRange(c, h.location); err != nil {
		response.Error(c, err)
		return
	}
	filter.Page, filter.PageSize = pageParams(c)

	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.AuditLogEntry{}
	}
	response.JSON(c, http.StatusOK, items, pagination)
}
