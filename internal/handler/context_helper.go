package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/health-survey-api/internal/middleware"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
	"github.com/noah-isme/health-survey-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// actorFromContext builds the acting session for service calls and writes a
// 401 when the request carries no claims.
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return service.Actor{}, false
	}
	ip, userAgent := clientMeta(c)
	return service.ActorFromClaims(claims, ip, userAgent), true
}

func clientMeta(c *gin.Context) (string, string) {
	return c.ClientIP(), c.GetHeader("User-Agent")
}

// bindJSON decodes the request body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		size = 20
	}
	return page, size
}

// dateRange parses the from and to query values as a half-open [from, to)
// window. Date-only values are midnight in loc; a date-only to is advanced one
// day so that day is included. RFC3339 values are used as given.
func dateRange(c *gin.Context, loc *time.Location) (from, to *time.Time, err error) {
	if loc == nil {
		loc = time.Local
	}
	if from, _, err = dateQuery(c, "from", loc); err != nil {
		return nil, nil, err
	}
	var dateOnly bool
	if to, dateOnly, err = dateQuery(c, "to", loc); err != nil {
		return nil, nil, err
	}
	if to != nil && dateOnly {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "from must be before to")
	}
	return from, to, nil
}

func dateQuery(c *gin.Context, key string, loc *time.Location) (*time.Time, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, false, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return &t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "invalid "+key+" date")
	}
	return &t, false, nil
}
