package dto

import (
	"time"

	"github.com/noah-isme/health-survey-api/internal/models"
)

// EmployeeWorkspace summarises where an employee works.
type EmployeeWorkspace struct {
	UserID          string     `json:"user_id"`
	Username        string     `json:"username"`
	RegionID        string     `json:"region_id"`
	RegionName      string     `json:"region_name"`
	GovernorateID   string     `json:"governorate_id,omitempty"`
	GovernorateName string     `json:"governorate_name,omitempty"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	SurveyCount     int        `json:"survey_count"`
	CompletedToday  int        `json:"completed_today"`
}

// GovernorateWorkspace is the home view of a governorate admin.
type GovernorateWorkspace struct {
	Governorate models.Governorate            `json:"governorate"`
	Regions     []models.HealthAdministration `json:"regions"`
}
