package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/middleware"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type governorateServiceMock struct {
	actor      service.Actor
	surveyID   string
	statusReq  dto.SurveyStatusRequest
	employeeID string
	assignReq  dto.EmployeeAssignmentRequest
	err        error
}

func (m *governorateServiceMock) Workspace(ctx context.Context, actor service.Actor) (*dto.GovernorateWorkspace, error) {
	m.actor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.GovernorateWorkspace{Governorate: models.Governorate{ID: actor.GovernorateID}}, nil
}

func (m *governorateServiceMock) Surveys(ctx context.Context, actor service.Actor) ([]models.SurveySummary, error) {
	return nil, m.err
}

func (m *governorateServiceMock) SetSurveyStatus(ctx context.Context, actor service.Actor, surveyID string, req dto.SurveyStatusRequest) (*models.Survey, error) {
	m.surveyID = surveyID
	m.statusReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Survey{ID: surveyID, IsActive: *req.IsActive}, nil
}

func (m *governorateServiceMock) Employees(ctx context.Context, actor service.Actor) ([]models.UserDetail, error) {
	return nil, m.err
}

func (m *governorateServiceMock) AssignEmployee(ctx context.Context, actor service.Actor, employeeID string, req dto.EmployeeAssignmentRequest) (*models.Profile, error) {
	m.employeeID = employeeID
	m.assignReq = req
	return &models.Profile{}, m.err
}

func governorateClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "ga", Role: models.RoleGovernorateAdmin, GovernorateID: "gov-1"}
}

func TestGovernorateWorkspaceUsesClaimsScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &governorateServiceMock{}
	h := NewGovernorateWorkspaceHandler(svc)

	c, w := newGinContext(http.MethodGet, "/governorate", nil)
	c.Set(middleware.ContextUserKey, governorateClaims())
	h.Workspace(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gov-1", svc.actor.GovernorateID)
	assert.Contains(t, w.Body.String(), `"gov-1"`)
}

func TestGovernorateWorkspaceNotLinked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewGovernorateWorkspaceHandler(&governorateServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "no governorate linked")})

	c, w := newGinContext(http.MethodGet, "/governorate", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "ga", Role: models.RoleGovernorateAdmin})
	h.Workspace(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGovernorateSetSurveyStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &governorateServiceMock{}
	h := NewGovernorateWorkspaceHandler(svc)

	c, w := newGinContext(http.MethodPatch, "/governorate/surveys/s1/status", []byte(`{"is_active":false}`))
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, governorateClaims())
	h.SetSurveyStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", svc.surveyID)
	require.NotNil(t, svc.statusReq.IsActive)
	assert.False(t, *svc.statusReq.IsActive)
	assert.Contains(t, w.Body.String(), `"is_active":false`)
}

func TestGovernorateAssignEmployee(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &governorateServiceMock{}
	h := NewGovernorateWorkspaceHandler(svc)

	c, w := newGinContext(http.MethodPut, "/governorate/employees/emp-1", []byte(`{"region_id":"region-2","survey_ids":["s1","s2"]}`))
	c.Params = gin.Params{{Key: "id", Value: "emp-1"}}
	c.Set(middleware.ContextUserKey, governorateClaims())
	h.AssignEmployee(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", svc.employeeID)
	assert.Equal(t, "region-2", svc.assignReq.RegionID)
	assert.Equal(t, []string{"s1", "s2"}, svc.assignReq.SurveyIDs)

	c, w = newGinContext(http.MethodPut, "/governorate/employees/emp-1", []byte(`{"region_id":`))
	c.Set(middleware.ContextUserKey, governorateClaims())
	h.AssignEmployee(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
