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

type employeeWorkspaceService interface {
	Workspace(ctx context.Context, actor service.Actor) (*dto.EmployeeWorkspace, error)
	Surveys(ctx context.Context, actor service.Actor) ([]models.SurveySummary, error)
}

type submissionService interface {
	Form(ctx context.Context, actor service.Actor, surveyID string) (*dto.SurveyForm, error)
	HasCompletedToday(ctx context.Context, userID, surveyID string) (*dto.CompletionStatus, error)
	Submit(ctx context.Context, actor service.Actor, req dto.SubmitRequest) (*dto.SubmitResult, error)
}

type ownResponseLister interface {
	ListForSurvey(ctx context.Context, actor service.Actor, surveyID string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error)
}

// EmployeeWorkspaceHandler serves the /me endpoints used to fill in surveys.
type EmployeeWorkspaceHandler struct {
	workspace   employeeWorkspaceService
	submissions submissionService
	responses   ownResponseLister
}

// NewEmployeeWorkspaceHandler constructs the handler.
func NewEmployeeWorkspaceHandler(workspace employeeWorkspaceService, submissions submissionService, responses ownResponseLister) *EmployeeWorkspaceHandler {
	return &EmployeeWorkspaceHandler{workspace: workspace, submissions: submissions, responses: responses}
}

// Workspace godoc
// @Summary Employee workspace
// @Description Assigned health administration, governorate, last login and today's progress
// @Tags Employee Workspace
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /me/workspace [get]
func (h *EmployeeWorkspaceHandler) Workspace(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	ws, err := h.workspace.Workspace(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Surveys godoc
// @Summary Surveys available to the caller
// @Description Active allowed surveys, each flagged with completed_today
// @Tags Employee Workspace
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/surveys [get]
func (h *EmployeeWorkspaceHandler) Surveys(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	items, err := h.workspace.Surveys(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Form godoc
// @Summary Render a survey form
// @Description Ordered widgets for each field plus whether the survey was already completed today
// @Tags Employee Workspace
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /me/surveys/{id}/form [get]
func (h *EmployeeWorkspaceHandler) Form(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	form, err := h.submissions.Form(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// CompletionStatus godoc
// @Summary Daily completion status
// @Tags Employee Workspace
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/surveys/{id}/status [get]
func (h *EmployeeWorkspaceHandler) CompletionStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	status, err := h.submissions.HasCompletedToday(c.Request.Context(), actor.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Submit godoc
// @Summary Submit a response
// @Description Records a draft or a completed response. Completed responses must answer every required field and are accepted once per calendar day.
// @Tags Employee Workspace
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param payload body dto.SubmitRequest true "Answers keyed by field id"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /me/surveys/{id}/responses [post]
func (h *EmployeeWorkspaceHandler) Submit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if !bindJSON(c, &req, "invalid submission payload") {
		return
	}
	req.SurveyID = c.Param("id")

	result, err := h.submissions.Submit(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Responses godoc
// @Summary Own responses to a survey
// @Tags Employee Workspace
// @Produce json
// @Param id path string true "Survey ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /me/surveys/{id}/responses [get]
func (h *EmployeeWorkspaceHandler) Responses(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var filter models.ResponseFilter
	filter.Page, filter.PageSize = pageParams(c)
	rows, pagination, err := h.responses.ListForSurvey(c.Request.Context(), actor, c.Param("id"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}
