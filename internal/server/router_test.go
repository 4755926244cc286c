package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/handler"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
	"github.com/noah-isme/health-survey-api/pkg/config"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type tokenStub map[string]*models.JWTClaims

func (t tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := t[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

type workspaceStub struct{}

func (workspaceStub) Workspace(ctx context.Context, actor service.Actor) (*dto.EmployeeWorkspace, error) {
	return &dto.EmployeeWorkspace{UserID: actor.UserID, RegionID: actor.RegionID}, nil
}

func (workspaceStub) Surveys(ctx context.Context, actor service.Actor) ([]models.SurveySummary, error) {
	return []models.SurveySummary{}, nil
}

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := tokenStub{
		"admin":    {UserID: "a1", Role: models.RoleAdmin},
		"gov":      {UserID: "g1", Role: models.RoleGovernorateAdmin, GovernorateID: "gov-1"},
		"employee": {UserID: "e1", Role: models.RoleEmployee, RegionID: "region-1"},
		"orphan":   {UserID: "e2", Role: models.RoleEmployee},
	}
	handlers := Handlers{
		Auth:         handler.NewAuthHandler(nil),
		Users:        handler.NewUserHandler(nil),
		Organisation: handler.NewOrganisationHandler(nil, nil),
		Surveys:      handler.NewSurveyHandler(nil),
		Responses:    handler.NewResponseHandler(nil, time.UTC),
		Governorate:  handler.NewGovernorateWorkspaceHandler(nil),
		Employee:     handler.NewEmployeeWorkspaceHandler(workspaceStub{}, nil, nil),
		Audit:        handler.NewAuditHandler(nil, time.UTC),
		Metrics:      handler.NewMetricsHandler(service.NewMetricsService(), nil),
	}
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	return NewRouter(Options{Config: cfg, Tokens: tokens}, handlers)
}

func perform(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterAccessControl(t *testing.T) {
	router := buildTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"users need a token", http.MethodGet, "/api/v1/users", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/v1/users", "forged", http.StatusUnauthorized},
		{"employees cannot manage users", http.MethodGet, "/api/v1/users", "employee", http.StatusForbidden},
		{"governorate admins cannot author surveys", http.MethodPost, "/api/v1/surveys", "gov", http.StatusForbidden},
		{"admins have no employee workspace", http.MethodGet, "/api/v1/me/workspace", "admin", http.StatusForbidden},
		{"governorate admins cannot submit", http.MethodPost, "/api/v1/me/surveys/s1/responses", "gov", http.StatusForbidden},
		{"employees cannot read stats", http.MethodGet, "/api/v1/surveys/s1/stats", "employee", http.StatusForbidden},
		{"employees cannot read the audit log", http.MethodGet, "/api/v1/audit-logs", "employee", http.StatusForbidden},
		{"employee without region", http.MethodGet, "/api/v1/me/workspace", "orphan", http.StatusForbidden},
		{"employee workspace", http.MethodGet, "/api/v1/me/workspace", "employee", http.StatusOK},
		{"admin system snapshot", http.MethodGet, "/api/v1/admin/system", "admin", http.StatusOK},
		{"exports disabled", http.MethodPost, "/api/v1/exports", "admin", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(router, tc.method, tc.path, tc.token)
			require.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestRouterRegionlessEmployeeGetsDomainError(t *testing.T) {
	router := buildTestRouter()
	w := perform(router, http.MethodGet, "/api/v1/me/surveys", "orphan")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrNoRegion.Code)
}

func TestRouterDocsHiddenInProduction(t *testing.T) {
	router := buildTestRouter()
	w := perform(router, http.MethodGet, "/docs/index.html", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
