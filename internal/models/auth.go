package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `json:"username" binding:"required" validate:"required"`
	Password  string `json:"password" binding:"required" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// TokenPair is the access and refresh token issued for one session.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	TokenPair
	User UserInfo `json:"user"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the rotated tokens.
type RefreshTokenResponse = TokenPair

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Role          UserRole `json:"role"`
	RegionID      string   `json:"region_id,omitempty"`
	GovernorateID string   `json:"governorate_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. It is the session
// context every handler receives.
type JWTClaims struct {
	UserID        string   `json:"user_id"`
	Role          UserRole `json:"role"`
	Username      string   `json:"username"`
	RegionID      string   `json:"region_id,omitempty"`
	GovernorateID string   `json:"governorate_id,omitempty"`
	jwt.RegisteredClaims
}

// Profile is returned by the "who am I" endpoint.
type Profile struct {
	UserDetail
	AllowedSurveys []string `json:"allowed_surveys,omitempty"`
}
