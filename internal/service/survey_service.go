package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/survey"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type surveyRepository interface {
	List(ctx context.Context) ([]models.SurveySummary, error)
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	ListFields(ctx context.Context, surveyID string) ([]models.SurveyField, error)
	ListGovernorateIDs(ctx context.Context, surveyID string) ([]string, error)
	Create(ctx context.Context, survey *models.Survey, fields []models.SurveyField, governorateIDs []string) error
	Update(ctx context.Context, survey *models.Survey, existing []models.SurveyField, added []models.SurveyField) error
	ReplaceGovernorates(ctx context.Context, surveyID string, governorateIDs []string) error
	Delete(ctx context.Context, id string) error
}

// SurveyService lets administrators author surveys and publish them to governorates.
type SurveyService struct {
	repo         surveyRepository
	governorates governorateLookup
	cache        surveyCacheInvalidator
	audit        auditRecorder
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(repo surveyRepository, governorates governorateLookup, cache surveyCacheInvalidator, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *SurveyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SurveyService{
		repo:         repo,
		governorates: governorates,
		cache:        cache,
		audit:        auditRecorder{writer: audit, logger: logger},
		validator:    validate,
		logger:       logger,
	}
}

// List returns every survey with field and response counts.
func (s *SurveyService) List(ctx context.Context) ([]models.SurveySummary, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list surveys")
	}
	return items, nil
}

// Get returns a survey with its ordered fields and publication list.
func (s *SurveyService) Get(ctx context.Context, id string) (*models.SurveyDetail, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := s.repo.ListFields(ctx, id)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey fields")
	}
	governorateIDs, err := s.repo.ListGovernorateIDs(ctx, id)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey governorates")
	}
	return &models.SurveyDetail{Survey: *item, Fields: survey.Ordered(fields), GovernorateIDs: governorateIDs}, nil
}

// Create stores a new active survey with its fields and governorate links.
func (s *SurveyService) Create(ctx context.Context, actor Actor, req dto.CreateSurveyRequest) (*models.SurveyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid survey payload")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "survey name is required")
	}
	governorateIDs, err := s.checkGovernorates(ctx, req.GovernorateIDs)
	if err != nil {
		return nil, err
	}

	fields := make([]models.SurveyField, 0, len(req.Fields))
	for i, input := range req.Fields {
		field, err := buildField(input, i+1)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	item := &models.Survey{Name: name, IsActive: true}
	if actor.UserID != "" {
		creator := actor.UserID
		item.CreatedBy = &creator
	}
	if err := s.repo.Create(ctx, item, fields, governorateIDs); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to create survey")
	}

	detail := &models.SurveyDetail{Survey: *item, Fields: survey.Ordered(fields), GovernorateIDs: governorateIDs}
	s.audit.record(ctx, actor, models.AuditActionCreate, models.AuditResourceSurveys, item.ID, nil, detail)
	return detail, nil
}

// Update renames a survey, toggles activation, edits fields by id and appends new ones.
func (s *SurveyService) Update(ctx context.Context, actor Actor, id string, req dto.UpdateSurveyRequest) (*models.SurveyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid survey payload")
	}
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	known := make(map[string]models.SurveyField, len(before.Fields))
	for _, field := range before.Fields {
		known[field.ID] = field
	}

	item := before.Survey
	item.Name = strings.TrimSpace(req.Name)
	if item.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "survey name is required")
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	var existing, added []models.SurveyField
	for _, input := range req.Fields {
		if input.ID == "" {
			field, err := buildField(input, 0)
			if err != nil {
				return nil, err
			}
			added = append(added, field)
			continue
		}
		current, ok := known[input.ID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "field "+input.ID+" does not belong to this survey")
		}
		field, err := buildField(input, current.Order)
		if err != nil {
			return nil, err
		}
		field.ID = current.ID
		field.SurveyID = id
		existing = append(existing, field)
	}

	if err := s.repo.Update(ctx, &item, existing, added); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update survey")
	}
	s.invalidate(ctx, id)

	after, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceSurveys, id, before, after)
	return after, nil
}

// SetGovernorates replaces the governorates a survey is published to.
func (s *SurveyService) SetGovernorates(ctx context.Context, actor Actor, id string, req dto.SurveyGovernoratesRequest) ([]string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid governorate list")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	before, err := s.repo.ListGovernorateIDs(ctx, id)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey governorates")
	}
	governorateIDs, err := s.checkGovernorates(ctx, req.GovernorateIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceGovernorates(ctx, id, governorateIDs); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update survey governorates")
	}
	s.invalidate(ctx, id)
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceSurveys, id,
		map[string][]string{"governorate_ids": before}, map[string][]string{"governorate_ids": governorateIDs})
	return governorateIDs, nil
}

// Delete removes a survey and everything collected for it.
func (s *SurveyService) Delete(ctx context.Context, actor Actor, id string) error {
	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to delete survey")
	}
	s.invalidate(ctx, id)
	s.audit.record(ctx, actor, models.AuditActionDelete, models.AuditResourceSurveys, id, item, nil)
	return nil
}

func (s *SurveyService) load(ctx context.Context, id string) (*models.Survey, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey")
	}
	return item, nil
}

func (s *SurveyService) checkGovernorates(ctx context.Context, ids []string) ([]string, error) {
	ids = dedupe(ids)
	for _, id := range ids {
		if _, err := s.governorates.GetByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "governorate "+id+" does not exist")
			}
			return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load governorate")
		}
	}
	return ids, nil
}

func (s *SurveyService) invalidate(ctx context.Context, surveyID string) {
	if s.cache != nil {
		s.cache.InvalidateSurvey(ctx, surveyID)
	}
}

// buildField normalises a field payload. Dropdown options are trimmed and blanks
// dropped; other types carry no options. fallbackOrder applies when none is given.
func buildField(input dto.FieldInput, fallbackOrder int) (models.SurveyField, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return models.SurveyField{}, appErrors.Clone(appErrors.ErrValidation, "field label is required")
	}
	if !input.Type.Known() {
		return models.SurveyField{}, appErrors.Clone(appErrors.ErrValidation, "unsupported field type "+string(input.Type))
	}
	field := models.SurveyField{
		Label:    label,
		Type:     input.Type,
		Required: input.Required,
		Order:    fallbackOrder,
	}
	if input.Order != nil {
		field.Order = *input.Order
	}
	if input.Type == models.FieldTypeDropdown {
		for _, option := range input.Options {
			if option = strings.TrimSpace(option); option != "" {
				field.Options = append(field.Options, option)
			}
		}
	}
	return field, nil
}
