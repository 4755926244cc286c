package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
	"github.com/noah-isme/health-survey-api/pkg/response"
)

type governorateWorkspaceService interface {
	Workspace(ctx context.Context, actor service.Actor) (*dto.GovernorateWorkspace, error)
	Surveys(ctx context.Context, actor service.Actor) ([]models.SurveySummary, error)
	SetSurveyStatus(ctx context.Context, actor service.Actor, surveyID string, req dto.SurveyStatusRequest) (*models.Survey, error)
	Employees(ctx context.Context, actor service.Actor) ([]models.UserDetail, error)
	AssignEmployee(ctx context.Context, actor service.Actor, employeeID string, req dto.EmployeeAssignmentRequest) (*models.Profile, error)
}

// GovernorateWorkspaceHandler serves the governorate admin workspace.
type GovernorateWorkspaceHandler struct {
	service governorateWorkspaceService
}

// NewGovernorateWorkspaceHandler constructs the handler.
func NewGovernorateWorkspaceHandler(svc governorateWorkspaceService) *GovernorateWorkspaceHandler {
	return &GovernorateWorkspaceHandler{service: svc}
}

// Workspace godoc
// @Summary Own governorate
// @Description Governorate linked to the caller and its health administrations
// @Tags Governorate Workspace
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /governorate [get]
func (h *GovernorateWorkspaceHandler) Workspace(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ws, err := h.service.Workspace(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Surveys godoc
// @Summary Surveys published to the governorate
// @Tags Governorate Workspace
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /governorate/surveys [get]
func (h *GovernorateWorkspaceHandler) Surveys(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.service.Surveys(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// SetSurveyStatus godoc
// @Summary Activate or deactivate a survey
// @Tags Governorate Workspace
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param payload body dto.SurveyStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /governorate/surveys/{id}/status [patch]
func (h *GovernorateWorkspaceHandler) SetSurveyStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.SurveyStatusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	item, err := h.service.SetSurveyStatus(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Employees godoc
// @Summary Employees of the governorate
// @Tags Governorate Workspace
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /governorate/employees [get]
func (h *GovernorateWorkspaceHandler) Employees(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.service.Employees(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// AssignEmployee godoc
// @Summary Reassign an employee
// @Description Moves the employee to another health administration of the governorate and replaces its surveys
// @Tags Governorate Workspace
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.EmployeeAssignmentRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /governorate/employees/{id} [put]
func (h *GovernorateWorkspaceHandler) AssignEmployee(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.EmployeeAssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	profile, err := h.service.AssignEmployee(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
