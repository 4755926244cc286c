package models

import "time"

// SurveyResponse is one user's attempt, draft or final, at a survey.
type SurveyResponse struct {
	ID             string    `db:"id" json:"id"`
	SurveyID       string    `db:"survey_id" json:"survey_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	RegionID       string    `db:"region_id" json:"region_id"`
	SubmissionDate time.Time `db:"submission_date" json:"submission_date"`
	IsCompleted    bool      `db:"is_completed" json:"is_completed"`
	// CompletionDay is set for completed responses only and backs the daily uniqueness index.
	CompletionDay *time.Time `db:"completion_day" json:"-"`
}

// ResponseDetail is one answered field within a response. Every answer is stored as text.
type ResponseDetail struct {
	ID          string `db:"id" json:"id"`
	ResponseID  string `db:"response_id" json:"response_id"`
	FieldID     string `db:"field_id" json:"field_id"`
	AnswerValue string `db:"answer_value" json:"answer_value"`
}

// ResponseRow is a response joined with the names an administrator browses by.
type ResponseRow struct {
	SurveyResponse
	SurveyName      string `db:"survey_name" json:"survey_name"`
	Username        string `db:"username" json:"username"`
	RegionName      string `db:"region_name" json:"region_name"`
	GovernorateID   string `db:"governorate_id" json:"governorate_id"`
	GovernorateName string `db:"governorate_name" json:"governorate_name"`
}

// ResponseDetailView is a detail row joined with its field definition.
type ResponseDetailView struct {
	ResponseDetail
	Label    string       `db:"label" json:"label"`
	Type     FieldType    `db:"field_type" json:"type"`
	Options  FieldOptions `db:"options" json:"options,omitempty"`
	Required bool         `db:"is_required" json:"required"`
	Order    int          `db:"field_order" json:"order"`
}

// ResponseInfo bundles a response header with its answers.
type ResponseInfo struct {
	ResponseRow
	Details []ResponseDetailView `json:"details"`
}

// ResponseFilter narrows response listings.
type ResponseFilter struct {
	SurveyID      string
	UserID        string
	GovernorateID string
	RegionID      string
	Completed     *bool
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// ResponseStats summarises the responses of a survey within a scope.
type ResponseStats struct {
	SurveyID       string  `db:"survey_id" json:"survey_id"`
	Total          int     `db:"total" json:"total"`
	Completed      int     `db:"completed" json:"completed"`
	Regions        int     `db:"regions" json:"regions"`
	CompletionRate float64 `db:"-" json:"completion_rate"`
}

// DetailUpdate changes the stored answer of one detail row.
type DetailUpdate struct {
	DetailID    string `json:"detail_id" validate:"required"`
	AnswerValue string `json:"answer_value"`
}
