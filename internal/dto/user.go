package dto

import "github.com/noah-isme/health-survey-api/internal/models"

// CreateUserRequest captures POST /users.
type CreateUserRequest struct {
	Username      string          `json:"username" validate:"required,min=3,max=64"`
	Password      string          `json:"password" validate:"required,min=6"`
	Role          models.UserRole `json:"role" validate:"required,oneof=admin governorate_admin employee"`
	RegionID      string          `json:"region_id,omitempty"`
	GovernorateID string          `json:"governorate_id,omitempty"`
	SurveyIDs     []string        `json:"survey_ids,omitempty" validate:"dive,required"`
}

// UpdateUserRequest captures PUT /users/{id}. An empty password keeps the current one.
type UpdateUserRequest struct {
	Username      string          `json:"username" validate:"required,min=3,max=64"`
	Password      string          `json:"password,omitempty" validate:"omitempty,min=6"`
	Role          models.UserRole `json:"role" validate:"required,oneof=admin governorate_admin employee"`
	RegionID      string          `json:"region_id,omitempty"`
	GovernorateID string          `json:"governorate_id,omitempty"`
	SurveyIDs     []string        `json:"survey_ids,omitempty" validate:"dive,required"`
}

// AllowedSurveysRequest replaces a user's allowed surveys.
type AllowedSurveysRequest struct {
	SurveyIDs []string `json:"survey_ids" validate:"dive,required"`
}

// EmployeeAssignmentRequest captures PUT /governorate/employees/{id}.
type EmployeeAssignmentRequest struct {
	RegionID  string   `json:"region_id" validate:"required"`
	SurveyIDs []string `json:"survey_ids" validate:"dive,required"`
}
