package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/middleware"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
	"github.com/noah-isme/health-survey-api/pkg/response"
)

type responseService interface {
	ListForSurvey(ctx context.Context, actor service.Actor, surveyID string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error)
	Get(ctx context.Context, actor service.Actor, id string) (*models.ResponseInfo, error)
	Stats(ctx context.Context, actor service.Actor, surveyID string) (*models.ResponseStats, bool, error)
	UpdateDetails(ctx context.Context, actor service.Actor, responseID string, req dto.UpdateDetailsRequest) (*dto.UpdateDetailsResult, error)
}

// ResponseHandler exposes browsing and editing of recorded responses.
type ResponseHandler struct {
	service  responseService
	location *time.Location
}

// NewResponseHandler constructs the handler.
// Date-only filters are interpreted in loc.
func NewResponseHandler(svc responseService, loc *time.Location) *ResponseHandler {
	return &ResponseHandler{service: svc, location: loc}
}

// ListForSurvey godoc
// @Summary List responses of a survey
// @Description Admins see every response, governorate admins those of their governorate, employees their own
// @Tags Responses
// @Produce json
// @Param id path string true "Survey ID"
// @Param region_id query string false "Health administration filter"
// @Param governorate_id query string false "Governorate filter (admins only)"
// @Param completed query bool false "Completion filter"
// @Param from query string false "Submitted on or after (YYYY-MM-DD)"
// @Param to query string false "Submitted on or before (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id}/responses [get]
func (h *ResponseHandler) ListForSurvey(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	filter := models.ResponseFilter{
		RegionID:      c.Query("region_id"),
		GovernorateID: c.Query("governorate_id"),
	}
	filter.Page, filter.PageSize = pageParams(c)
	if raw := c.Query("completed"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			filter.Completed = &val
		}
	}
	var err error
	if filter.From, filter.To, err = dateRange(c, h.location); err != nil {
		response.Error(c, err)
		return
	}

	rows, pagination, err := h.service.ListForSurvey(c.Request.Context(), actor, c.Param("id"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Stats godoc
// @Summary Survey statistics
// @Description Totals, completion rate and distinct health administrations, scoped to the caller's governorate
// @Tags Responses
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id}/stats [get]
func (h *ResponseHandler) Stats(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	stats, cacheHit, err := h.service.Stats(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get response
// @Description Response header with its answers and their field definitions
// @Tags Responses
// @Produce json
// @Param id path string true "Response ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /responses/{id} [get]
func (h *ResponseHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	info, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// UpdateDetails godoc
// @Summary Edit answers of a response
// @Description Batch update of answer values. Values are stored as given without revalidation.
// @Tags Responses
// @Accept json
// @Produce json
// @Param id path string true "Response ID"
// @Param payload body dto.UpdateDetailsRequest true "Updates"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /responses/{id}/details [patch]
func (h *ResponseHandler) UpdateDetails(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateDetailsRequest
	if !bindJSON(c, &req, "invalid details payload") {
		return
	}
	result, err := h.service.UpdateDetails(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
