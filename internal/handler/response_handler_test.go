package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/middleware"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
)

type responseServiceMock struct {
	filter   models.ResponseFilter
	stats    *models.ResponseStats
	cacheHit bool
	updates  dto.UpdateDetailsRequest
}

func (m *responseServiceMock) ListForSurvey(ctx context.Context, actor service.Actor, surveyID string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error) {
	m.filter = filter
	return []models.ResponseRow{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *responseServiceMock) Get(ctx context.Context, actor service.Actor, id string) (*models.ResponseInfo, error) {
	return &models.ResponseInfo{}, nil
}

func (m *responseServiceMock) Stats(ctx context.Context, actor service.Actor, surveyID string) (*models.ResponseStats, bool, error) {
	return m.stats, m.cacheHit, nil
}

func (m *responseServiceMock) UpdateDetails(ctx context.Context, actor service.Actor, responseID string, req dto.UpdateDetailsRequest) (*dto.UpdateDetailsResult, error) {
	m.updates = req
	return &dto.UpdateDetailsResult{ResponseID: responseID, Updated: len(req.Updates)}, nil
}

func TestResponseHandlerListParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &responseServiceMock{}
	handler := NewResponseHandler(svc, time.UTC)

	c, w := newGinContext(http.MethodGet, "/surveys/s1/responses?region_id=r1&completed=true&from=2024-03-01&to=2024-03-31", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.ListForSurvey(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", svc.filter.RegionID)
	require.NotNil(t, svc.filter.Completed)
	assert.True(t, *svc.filter.Completed)
	require.NotNil(t, svc.filter.From)
	assert.Equal(t, 1, svc.filter.From.Day())
	require.NotNil(t, svc.filter.To)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *svc.filter.To)
}

func TestResponseHandlerListKeepsTimestampBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	loc := time.FixedZone("UTC+3", 3*3600)
	svc := &responseServiceMock{}
	handler := NewResponseHandler(svc, loc)

	c, w := newGinContext(http.MethodGet, "/surveys/s1/responses?from=2024-03-01&to=2024-03-05T12:00:00Z", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.ListForSurvey(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.filter.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)))
	assert.True(t, svc.filter.To.Equal(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)))
}

func TestResponseHandlerListRejectsReversedRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &responseServiceMock{}
	handler := NewResponseHandler(svc, time.UTC)

	c, w := newGinContext(http.MethodGet, "/surveys/s1/responses?from=2024-03-10&to=2024-03-01", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.ListForSurvey(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.filter.From)
}

func TestResponseHandlerListRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewResponseHandler(&responseServiceMock{}, time.UTC)

	c, w := newGinContext(http.MethodGet, "/surveys/s1/responses?from=yesterday", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.ListForSurvey(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResponseHandlerStatsReportsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &responseServiceMock{stats: &models.ResponseStats{SurveyID: "s1", Total: 4, Completed: 3, CompletionRate: 0.75}, cacheHit: true}
	handler := NewResponseHandler(svc, time.UTC)

	c, w := newGinContext(http.MethodGet, "/surveys/s1/stats", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "ga", Role: models.RoleGovernorateAdmin, GovernorateID: "gov-1"})

	handler.Stats(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.ResponseStats   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Completed)
	assert.Equal(t, true, body.Meta["cache_hit"])
}

func TestResponseHandlerUpdateDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &responseServiceMock{}
	handler := NewResponseHandler(svc, time.UTC)

	c, w := newGinContext(http.MethodPatch, "/responses/r1/details", []byte(`{"updates":[{"detail_id":"d1","answer_value":"7"}]}`))
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.UpdateDetails(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.updates.Updates, 1)
	assert.Equal(t, "d1", svc.updates.Updates[0].DetailID)
}
