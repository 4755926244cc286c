package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/service"
	"github.com/noah-isme/health-survey-api/pkg/response"
)

// SurveyHandler exposes survey authoring for admins.
type SurveyHandler struct {
	service *service.SurveyService
}

// NewSurveyHandler constructs the handler.
func NewSurveyHandler(svc *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{service: svc}
}

// List godoc
// @Summary List surveys
// @Description Surveys with field and response counts
// @Tags Surveys
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get survey
// @Description Survey with ordered fields and the governorates it is published to
// @Tags Surveys
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id} [get]
func (h *SurveyHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body dto.CreateSurveyRequest true "Survey"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys [post]
func (h *SurveyHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateSurveyRequest
	if !bindJSON(c, &req, "invalid survey payload") {
		return
	}
	item, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update survey
// @Description Fields with an id are edited in place, fields without one are appended
// @Tags Surveys
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param payload body dto.UpdateSurveyRequest true "Survey"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id} [put]
func (h *SurveyHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateSurveyRequest
	if !bindJSON(c, &req, "invalid survey payload") {
		return
	}
	item, err := h.service.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// SetGovernorates godoc
// @Summary Replace survey publication list
// @Tags Surveys
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param payload body dto.SurveyGovernoratesRequest true "Governorate ids"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /surveys/{id}/governorates [put]
func (h *SurveyHandler) SetGovernorates(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.SurveyGovernoratesRequest
	if !bindJSON(c, &req, "invalid governorate list") {
		return
	}
	ids, err := h.service.SetGovernorates(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ids, nil)
}

// Delete godoc
// @Summary Delete survey
// @Description Removes the survey together with its fields, responses and answers
// @Tags Surveys
// @Param id path string true "Survey ID"
// @Success 204
// @Security BearerAuth
// @Router /surveys/{id} [delete]
func (h *SurveyHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
