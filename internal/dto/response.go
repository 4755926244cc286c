package dto

import "github.com/noah-isme/health-survey-api/internal/models"

// UpdateDetailsRequest captures PATCH /responses/{id}/details.
type UpdateDetailsRequest struct {
	Updates []models.DetailUpdate `json:"updates" validate:"required,min=1,dive"`
}

// UpdateDetailsResult reports how many answers changed.
type UpdateDetailsResult struct {
	ResponseID string `json:"response_id"`
	Updated    int    `json:"updated"`
}
