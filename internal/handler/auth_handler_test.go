package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/health-survey-api/internal/middleware"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/service"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type authServiceMock struct {
	loginReq     models.LoginRequest
	loginErr     error
	logoutToken  string
	logoutActor  service.Actor
	profileOf    string
	changeCalled bool
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.loginReq = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{TokenPair: models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, User: models.UserInfo{ID: "u-1", Username: req.Username}}, nil
}

func (m *authServiceMock) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, refreshToken string, actor service.Actor) error {
	m.logoutToken = refreshToken
	m.logoutActor = actor
	return nil
}

func (m *authServiceMock) ChangePassword(ctx context.Context, actor service.Actor, req models.ChangePasswordRequest) error {
	m.changeCalled = true
	return nil
}

func (m *authServiceMock) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	m.profileOf = userID
	return &models.Profile{}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"username":"sara","password":"secret1"}`))
	c.Request.Header.Set("User-Agent", "field-tablet")
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sara", svc.loginReq.Username)
	assert.Equal(t, "field-tablet", svc.loginReq.UserAgent)
	var body struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "access", body.Data.AccessToken)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"username":"sara","password":"nope"}`))
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestAuthHandlerLogoutRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/auth/logout", []byte(`{}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleEmployee})
	h.Logout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.logoutToken)
}

func TestAuthHandlerLogoutUsesSessionActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/auth/logout", []byte(`{"refresh_token":"rt"}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleEmployee, RegionID: "region-1"})
	h.Logout(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "rt", svc.logoutToken)
	assert.Equal(t, "u-1", svc.logoutActor.UserID)
	assert.Equal(t, "region-1", svc.logoutActor.RegionID)
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &authServiceMock{}
	h := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-7", Role: models.RoleAdmin})
	h.Me(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-7", svc.profileOf)
}
