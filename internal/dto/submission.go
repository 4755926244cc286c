package dto

import (
	"time"

	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/survey"
)

// SubmitRequest captures POST /me/surveys/{id}/responses. Answers are keyed by field id.
type SubmitRequest struct {
	SurveyID    string         `json:"-" validate:"required"`
	Answers     map[string]any `json:"answers"`
	IsCompleted bool           `json:"is_completed"`
}

// SubmitResult describes a persisted submission.
type SubmitResult struct {
	ResponseID     string    `json:"response_id"`
	SurveyID       string    `json:"survey_id"`
	IsCompleted    bool      `json:"is_completed"`
	SubmissionDate time.Time `json:"submission_date"`
	DetailCount    int       `json:"detail_count"`
	Warnings       []string  `json:"warnings,omitempty"`
}

// SurveyForm is a rendered survey ready for an employee to fill in.
type SurveyForm struct {
	Survey         models.Survey `json:"survey"`
	Form           survey.Form   `json:"form"`
	CompletedToday bool          `json:"completed_today"`
}

// CompletionStatus answers whether the caller already completed a survey today.
type CompletionStatus struct {
	SurveyID       string    `json:"survey_id"`
	Day            time.Time `json:"day"`
	CompletedToday bool      `json:"completed_today"`
}
