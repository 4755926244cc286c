package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type responseRepository interface {
	List(ctx context.Context, filter models.ResponseFilter) ([]models.ResponseRow, int, error)
	GetRow(ctx context.Context, id string) (*models.ResponseRow, error)
	ListDetails(ctx context.Context, responseID string) ([]models.ResponseDetailView, error)
	UpdateDetails(ctx context.Context, responseID string, updates []models.DetailUpdate) (int, error)
	Stats(ctx context.Context, surveyID, governorateID string) (*models.ResponseStats, error)
}

type surveyPublication interface {
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	IsPublishedTo(ctx context.Context, surveyID, governorateID string) (bool, error)
}

type statsCache interface {
	SurveyStats(ctx context.Context, surveyID, governorateID string, load func(context.Context) (*models.ResponseStats, error)) (*models.ResponseStats, bool, error)
	InvalidateSurvey(ctx context.Context, surveyID string)
}

// ResponseService lets admins, governorate admins and employees browse and edit
// collected responses within their scope.
type ResponseService struct {
	repo      responseRepository
	surveys   surveyPublication
	cache     statsCache
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResponseService constructs a ResponseService.
func NewResponseService(repo responseRepository, surveys surveyPublication, cache statsCache, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *ResponseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResponseService{
		repo:      repo,
		surveys:   surveys,
		cache:     cache,
		audit:     auditRecorder{writer: audit, logger: logger},
		validator: validate,
		logger:    logger,
	}
}

// ListForSurvey returns responses of a survey visible to the actor, newest first.
func (s *ResponseService) ListForSurvey(ctx context.Context, actor Actor, surveyID string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error) {
	if err := s.authorizeSurvey(ctx, actor, surveyID); err != nil {
		return nil, nil, err
	}
	filter.SurveyID = surveyID
	switch actor.Role {
	case models.RoleGovernorateAdmin:
		filter.GovernorateID = actor.GovernorateID
	case models.RoleEmployee:
		filter.UserID = actor.UserID
		filter.GovernorateID = ""
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	filter.Page, filter.PageSize = page, pageSize

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list responses")
	}
	return rows, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a response header with its answers.
func (s *ResponseService) Get(ctx context.Context, actor Actor, id string) (*models.ResponseInfo, error) {
	row, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.ListDetails(ctx, id)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load response details")
	}
	return &models.ResponseInfo{ResponseRow: *row, Details: details}, nil
}

// Stats returns aggregate counts for a survey within the actor's scope and
// whether they were served from cache.
func (s *ResponseService) Stats(ctx context.Context, actor Actor, surveyID string) (*models.ResponseStats, bool, error) {
	if actor.Role == models.RoleEmployee {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "statistics are not available to employees")
	}
	if err := s.authorizeSurvey(ctx, actor, surveyID); err != nil {
		return nil, false, err
	}
	governorateID := ""
	if actor.Role == models.RoleGovernorateAdmin {
		governorateID = actor.GovernorateID
	}

	load := func(ctx context.Context) (*models.ResponseStats, error) {
		stats, err := s.repo.Stats(ctx, surveyID, governorateID)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to compute survey statistics")
		}
		return stats, nil
	}
	if s.cache == nil {
		stats, err := load(ctx)
		return stats, false, err
	}
	return s.cache.SurveyStats(ctx, surveyID, governorateID, load)
}

// UpdateDetails rewrites answer values of one response in a single transaction.
// Answers are not revalidated and the daily completion gate does not apply.
func (s *ResponseService) UpdateDetails(ctx context.Context, actor Actor, responseID string, req dto.UpdateDetailsRequest) (*dto.UpdateDetailsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid detail update payload")
	}
	row, err := s.loadVisible(ctx, actor, responseID)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.ListDetails(ctx, responseID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load response details")
	}
	old := make(map[string]string, len(current))
	for _, detail := range current {
		old[detail.ID] = detail.AnswerValue
	}

	before := make(map[string]string, len(req.Updates))
	after := make(map[string]string, len(req.Updates))
	for _, update := range req.Updates {
		value, ok := old[update.DetailID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "detail "+update.DetailID+" does not belong to this response")
		}
		before[update.DetailID] = value
		after[update.DetailID] = update.AnswerValue
	}

	updated, err := s.repo.UpdateDetails(ctx, responseID, req.Updates)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update response details")
	}
	if s.cache != nil {
		s.cache.InvalidateSurvey(ctx, row.SurveyID)
	}
	s.audit.record(ctx, actor, models.AuditActionDetailUpdate, models.AuditResourceResponseDetails, responseID, before, after)
	return &dto.UpdateDetailsResult{ResponseID: responseID, Updated: updated}, nil
}

func (s *ResponseService) loadVisible(ctx context.Context, actor Actor, id string) (*models.ResponseRow, error) {
	row, err := s.repo.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "response not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load response")
	}
	switch actor.Role {
	case models.RoleAdmin:
		return row, nil
	case models.RoleGovernorateAdmin:
		if actor.GovernorateID != "" && row.GovernorateID == actor.GovernorateID {
			return row, nil
		}
	case models.RoleEmployee:
		if row.UserID == actor.UserID {
			return row, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrForbidden, "response is outside your scope")
}

func (s *ResponseService) authorizeSurvey(ctx context.Context, actor Actor, surveyID string) error {
	if _, err := s.surveys.GetByID(ctx, surveyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey")
	}
	if actor.Role != models.RoleGovernorateAdmin {
		return nil
	}
	if actor.GovernorateID == "" {
		return appErrors.Clone(appErrors.ErrForbidden, "no governorate is linked to this account")
	}
	published, err := s.surveys.IsPublishedTo(ctx, surveyID, actor.GovernorateID)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check survey publication")
	}
	if !published {
		return appErrors.Clone(appErrors.ErrForbidden, "survey is not published to your governorate")
	}
	return nil
}
