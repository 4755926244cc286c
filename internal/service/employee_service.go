package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/survey"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type employeeUserRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error)
}

type employeeSurveyRepository interface {
	ListAllowedForUser(ctx context.Context, userID string, dayStart, dayEnd time.Time) ([]models.SurveySummary, error)
}

// EmployeeService backs the employee workspace.
type EmployeeService struct {
	users    employeeUserRepository
	surveys  employeeSurveyRepository
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time
}

// NewEmployeeService constructs an EmployeeService. Calendar days are computed in location.
func NewEmployeeService(users employeeUserRepository, surveys employeeSurveyRepository, logger *zap.Logger, location *time.Location) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &EmployeeService{users: users, surveys: surveys, logger: logger, location: location, now: time.Now}
}

// Workspace describes the employee's region, governorate and today's progress.
func (s *EmployeeService) Workspace(ctx context.Context, actor Actor) (*dto.EmployeeWorkspace, error) {
	user, err := s.users.FindDetailByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load user")
	}
	if user.AssignedRegion == nil {
		return nil, appErrors.Clone(appErrors.ErrNoRegion, "no health administration is assigned to this account")
	}

	surveys, err := s.Surveys(ctx, actor)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, item := range surveys {
		if item.CompletedToday {
			completed++
		}
	}

	workspace := &dto.EmployeeWorkspace{
		UserID:         user.ID,
		Username:       user.Username,
		RegionID:       *user.AssignedRegion,
		LastLogin:      user.LastLogin,
		SurveyCount:    len(surveys),
		CompletedToday: completed,
	}
	if user.RegionName != nil {
		workspace.RegionName = *user.RegionName
	}
	if user.GovernorateID != nil {
		workspace.GovernorateID = *user.GovernorateID
	}
	if user.GovernorateName != nil {
		workspace.GovernorateName = *user.GovernorateName
	}
	return workspace, nil
}

// Surveys lists active surveys the employee may fill in, flagging today's completions.
func (s *EmployeeService) Surveys(ctx context.Context, actor Actor) ([]models.SurveySummary, error) {
	start, end := survey.DayRange(s.now(), s.location)
	items, err := s.surveys.ListAllowedForUser(ctx, actor.UserID, start, end)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list assigned surveys")
	}
	return items, nil
}
