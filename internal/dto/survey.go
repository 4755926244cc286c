package dto

import "github.com/noah-isme/health-survey-api/internal/models"

// FieldInput defines one field in a create or update survey payload. ID is set only
// when an existing field is edited.
type FieldInput struct {
	ID       string           `json:"id,omitempty"`
	Label    string           `json:"label" validate:"required,max=255"`
	Type     models.FieldType `json:"type" validate:"required,oneof=text number dropdown checkbox date"`
	Options  []string         `json:"options,omitempty"`
	Required bool             `json:"required"`
	Order    *int             `json:"order,omitempty"`
}

// CreateSurveyRequest captures POST /surveys.
type CreateSurveyRequest struct {
	Name           string       `json:"name" validate:"required,max=255"`
	GovernorateIDs []string     `json:"governorate_ids" validate:"dive,required"`
	Fields         []FieldInput `json:"fields" validate:"required,min=1,dive"`
}

// UpdateSurveyRequest captures PUT /surveys/{id}.
type UpdateSurveyRequest struct {
	Name     string       `json:"name" validate:"required,max=255"`
	IsActive *bool        `json:"is_active"`
	Fields   []FieldInput `json:"fields" validate:"dive"`
}

// SurveyGovernoratesRequest replaces the governorates a survey is published to.
type SurveyGovernoratesRequest struct {
	GovernorateIDs []string `json:"governorate_ids" validate:"dive,required"`
}

// SurveyStatusRequest toggles a survey's activation flag.
type SurveyStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
