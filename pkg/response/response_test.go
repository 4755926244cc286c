package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
	"github.com/noah-isme/health-survey-api/pkg/middleware/requestid"
)

func run(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var captured *gin.Context
	r := gin.New()
	r.Use(requestid.Middleware())
	r.GET("/", func(c *gin.Context) {
		captured = c
		h(c)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, captured
}

func TestJSONWithPaginationAndMeta(t *testing.T) {
	w, _ := run(t, func(c *gin.Context) {
		JSON(c, http.StatusOK, []string{"a"}, &models.Pagination{Page: 1, PageSize: 10, TotalCount: 1}, map[string]interface{}{"cache_hit": true})
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["meta"].(map[string]interface{})["cache_hit"])
	assert.NotNil(t, body["pagination"])
	assert.Nil(t, body["error"])
}

func TestErrorCarriesCodeAndRequestID(t *testing.T) {
	w, c := run(t, func(c *gin.Context) {
		Error(c, appErrors.Clone(appErrors.ErrAlreadyCompletedToday, "survey already completed today"))
	})

	require.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Error *appErrors.Error       `json:"error"`
		Meta  map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ALREADY_COMPLETED_TODAY", body.Error.Code)
	assert.Equal(t, "req-42", body.Meta["request_id"])
	assert.Empty(t, c.Errors)
}

func TestErrorHidesInternalCause(t *testing.T) {
	w, c := run(t, func(c *gin.Context) {
		Error(c, errors.New("pq: connection refused"))
	})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	require.Len(t, c.Errors, 1)
}

func TestAccepted(t *testing.T) {
	w, _ := run(t, func(c *gin.Context) { Accepted(c, gin.H{"id": "job-1"}) })
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestNoContentWritesStatusWithoutEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NoContent(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
