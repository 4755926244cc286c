package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/service"
	"github.com/noah-isme/health-survey-api/pkg/response"
)

// OrganisationHandler exposes governorates and their health administrations.
type OrganisationHandler struct {
	governorates *service.GovernorateService
	regions      *service.RegionService
}

// NewOrganisationHandler constructs the handler.
func NewOrganisationHandler(governorates *service.GovernorateService, regions *service.RegionService) *OrganisationHandler {
	return &OrganisationHandler{governorates: governorates, regions: regions}
}

// ListGovernorates godoc
// @Summary List governorates
// @Tags Governorates
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /governorates [get]
func (h *OrganisationHandler) ListGovernorates(c *gin.Context) {
	items, err := h.governorates.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// GetGovernorate godoc
// @Summary Get governorate
// @Tags Governorates
// @Produce json
// @Param id path string true "Governorate ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /governorates/{id} [get]
func (h *OrganisationHandler) GetGovernorate(c *gin.Context) {
	item, err := h.governorates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CreateGovernorate godoc
// @Summary Create governorate
// @Tags Governorates
// @Accept json
// @Produce json
// @Param payload body dto.GovernorateRequest true "Governorate"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /governorates [post]
func (h *OrganisationHandler) CreateGovernorate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.GovernorateRequest
	if !bindJSON(c, &req, "invalid governorate payload") {
		return
	}
	item, err := h.governorates.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateGovernorate godoc
// @Summary Update governorate
// @Tags Governorates
// @Accept json
// @Produce json
// @Param id path string true "Governorate ID"
// @Param payload body dto.GovernorateRequest true "Governorate"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /governorates/{id} [put]
func (h *OrganisationHandler) UpdateGovernorate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.GovernorateRequest
	if !bindJSON(c, &req, "invalid governorate payload") {
		return
	}
	item, err := h.governorates.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteGovernorate godoc
// @Summary Delete governorate
// @Description Rejected while health administrations still belong to it
// @Tags Governorates
// @Param id path string true "Governorate ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /governorates/{id} [delete]
func (h *OrganisationHandler) DeleteGovernorate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.governorates.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRegions godoc
// @Summary List health administrations
// @Tags Regions
// @Produce json
// @Param governorate_id query string false "Governorate filter"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /regions [get]
func (h *OrganisationHandler) ListRegions(c *gin.Context) {
	items, err := h.regions.List(c.Request.Context(), c.Query("governorate_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// GetRegion godoc
// @Summary Get health administration
// @Tags Regions
// @Produce json
// @Param id path string true "Region ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /regions/{id} [get]
func (h *OrganisationHandler) GetRegion(c *gin.Context) {
	item, err := h.regions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CreateRegion godoc
// @Summary Create health administration
// @Tags Regions
// @Accept json
// @Produce json
// @Param payload body dto.RegionRequest true "Region"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /regions [post]
func (h *OrganisationHandler) CreateRegion(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.RegionRequest
	if !bindJSON(c, &req, "invalid region payload") {
		return
	}
	item, err := h.regions.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateRegion godoc
// @Summary Update health administration
// @Tags Regions
// @Accept json
// @Produce json
// @Param id path string true "Region ID"
// @Param payload body dto.RegionRequest true "Region"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /regions/{id} [put]
func (h *OrganisationHandler) UpdateRegion(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.RegionRequest
	if !bindJSON(c, &req, "invalid region payload") {
		return
	}
	item, err := h.regions.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteRegion godoc
// @Summary Delete health administration
// @Description Rejected while users are assigned to it
// @Tags Regions
// @Param id path string true "Region ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /regions/{id} [delete]
func (h *OrganisationHandler) DeleteRegion(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.regions.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
