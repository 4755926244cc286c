package dto

import "github.com/noah-isme/health-survey-api/internal/models"

// ExportRequest captures the POST /exports payload.
type ExportRequest struct {
	Type          models.ExportType   `json:"type" validate:"required,oneof=survey_responses audit_logs"`
	Format        models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	SurveyID      string              `json:"survey_id,omitempty" validate:"required_if=Type survey_responses"`
	GovernorateID string              `json:"governorate_id,omitempty"`
	Resource      string              `json:"resource,omitempty"`
	Action        string              `json:"action,omitempty"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ExportType   `json:"type"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
