package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/repository"
	"github.com/noah-isme/health-survey-api/internal/survey"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type submissionSurveyRepository interface {
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	ListFields(ctx context.Context, surveyID string) ([]models.SurveyField, error)
	IsAllowedForUser(ctx context.Context, userID, surveyID string) (bool, error)
}

type submissionResponseRepository interface {
	HasCompletedToday(ctx context.Context, userID, surveyID string, dayStart, dayEnd time.Time) (bool, error)
	Create(ctx context.Context, response *models.SurveyResponse, details []models.ResponseDetail) error
}

type surveyCacheInvalidator interface {
	InvalidateSurvey(ctx context.Context, surveyID string)
}

// SubmissionService renders survey forms and records employee submissions,
// enforcing required answers on completion and one completion per calendar day.
type SubmissionService struct {
	surveys   submissionSurveyRepository
	responses submissionResponseRepository
	cache     surveyCacheInvalidator
	metrics   *MetricsService
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewSubmissionService constructs a SubmissionService. Calendar days are computed in location.
func NewSubmissionService(
	surveys submissionSurveyRepository,
	responses submissionResponseRepository,
	cache surveyCacheInvalidator,
	metrics *MetricsService,
	audit auditWriter,
	validate *validator.Validate,
	logger *zap.Logger,
	location *time.Location,
) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if location == nil {
		location = time.Local
	}
	return &SubmissionService{
		surveys:   surveys,
		responses: responses,
		cache:     cache,
		metrics:   metrics,
		audit:     auditRecorder{writer: audit, logger: logger},
		validator: validate,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

// ListFields returns the survey's field definitions ordered for display.
func (s *SubmissionService) ListFields(ctx context.Context, surveyID string) ([]models.SurveyField, error) {
	fields, err := s.surveys.ListFields(ctx, surveyID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey fields")
	}
	return survey.Ordered(fields), nil
}

// Form renders the survey for the acting user.
func (s *SubmissionService) Form(ctx context.Context, actor Actor, surveyID string) (*dto.SurveyForm, error) {
	item, err := s.accessibleSurvey(ctx, actor, surveyID)
	if err != nil {
		return nil, err
	}
	fields, err := s.ListFields(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	form := survey.Render(surveyID, fields)
	for _, warning := range form.Warnings {
		s.logger.Warn("survey form warning", zap.String("survey_id", surveyID), zap.String("warning", warning))
	}

	done, err := s.completedToday(ctx, actor.UserID, surveyID)
	if err != nil {
		return nil, err
	}
	return &dto.SurveyForm{Survey: *item, Form: form, CompletedToday: done}, nil
}

// HasCompletedToday reports whether the user already completed the survey on the current calendar day.
func (s *SubmissionService) HasCompletedToday(ctx context.Context, userID, surveyID string) (*dto.CompletionStatus, error) {
	done, err := s.completedToday(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}
	day, _ := survey.DayRange(s.now(), s.location)
	return &dto.CompletionStatus{SurveyID: surveyID, Day: day, CompletedToday: done}, nil
}

// Submit validates and persists a draft or completed response with one detail per answered field.
func (s *SubmissionService) Submit(ctx context.Context, actor Actor, req dto.SubmitRequest) (*dto.SubmitResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid submission payload")
	}
	if actor.RegionID == "" {
		s.metrics.RecordRejection(RejectNotAllowed)
		return nil, appErrors.Clone(appErrors.ErrNoRegion, "no health administration is assigned to this account")
	}

	item, err := s.accessibleSurvey(ctx, actor, req.SurveyID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		s.metrics.RecordRejection(RejectInactive)
		return nil, appErrors.Clone(appErrors.ErrSurveyInactive, "survey is not accepting responses")
	}

	fields, err := s.ListFields(ctx, req.SurveyID)
	if err != nil {
		return nil, err
	}

	answers, warnings := survey.Collect(fields, req.Answers)
	if missing := survey.Validate(fields, answers, req.IsCompleted); len(missing) > 0 {
		s.metrics.RecordRejection(RejectMissingFields)
		message := "required fields are missing: " + strings.Join(missing, ", ")
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrMissingRequiredFields, message), map[string][]string{"missing_fields": missing})
	}

	now := s.now()
	if req.IsCompleted {
		done, err := s.completedToday(ctx, actor.UserID, req.SurveyID)
		if err != nil {
			return nil, err
		}
		if done {
			s.metrics.RecordRejection(RejectCompletedToday)
			return nil, appErrors.ErrAlreadyCompletedToday
		}
	}

	response := &models.SurveyResponse{
		SurveyID:       req.SurveyID,
		UserID:         actor.UserID,
		RegionID:       actor.RegionID,
		SubmissionDate: now.UTC(),
		IsCompleted:    req.IsCompleted,
	}
	if req.IsCompleted {
		day := survey.DateAtLocation(now, s.location)
		response.CompletionDay = &day
	}
	details := survey.Details("", fields, answers)

	if err := s.responses.Create(ctx, response, details); err != nil {
		if repository.IsUniqueViolation(err) {
			s.metrics.RecordRejection(RejectCompletedToday)
			return nil, appErrors.ErrAlreadyCompletedToday
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to save response")
	}

	if s.cache != nil {
		s.cache.InvalidateSurvey(ctx, req.SurveyID)
	}
	s.metrics.RecordSubmission(req.IsCompleted)
	s.audit.record(ctx, actor, models.AuditActionSubmit, models.AuditResourceResponses, response.ID, nil, map[string]interface{}{
		"survey_id":    response.SurveyID,
		"region_id":    response.RegionID,
		"is_completed": response.IsCompleted,
		"details":      len(details),
	})
	s.logger.Info("survey response saved",
		zap.String("response_id", response.ID),
		zap.String("survey_id", response.SurveyID),
		zap.String("user_id", response.UserID),
		zap.Bool("completed", response.IsCompleted))

	return &dto.SubmitResult{
		ResponseID:     response.ID,
		SurveyID:       response.SurveyID,
		IsCompleted:    response.IsCompleted,
		SubmissionDate: response.SubmissionDate,
		DetailCount:    len(details),
		Warnings:       warnings,
	}, nil
}

func (s *SubmissionService) accessibleSurvey(ctx context.Context, actor Actor, surveyID string) (*models.Survey, error) {
	item, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey")
	}
	if actor.Role == models.RoleEmployee {
		allowed, err := s.surveys.IsAllowedForUser(ctx, actor.UserID, surveyID)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check survey permission")
		}
		if !allowed {
			s.metrics.RecordRejection(RejectNotAllowed)
			return nil, appErrors.Clone(appErrors.ErrForbidden, "survey is not assigned to this account")
		}
	}
	return item, nil
}

func (s *SubmissionService) completedToday(ctx context.Context, userID, surveyID string) (bool, error) {
	start, end := survey.DayRange(s.now(), s.location)
	done, err := s.responses.HasCompletedToday(ctx, userID, surveyID, start, end)
	if err != nil {
		return false, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check today's completion")
	}
	return done, nil
}
