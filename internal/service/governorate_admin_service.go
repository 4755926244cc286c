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

type adminGovernorateRepository interface {
	GetByAdmin(ctx context.Context, userID string) (*models.Governorate, error)
}

type adminRegionRepository interface {
	List(ctx context.Context, governorateID string) ([]models.HealthAdministration, error)
	GetByID(ctx context.Context, id string) (*models.HealthAdministration, error)
}

type adminSurveyRepository interface {
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	ListByGovernorate(ctx context.Context, governorateID string) ([]models.SurveySummary, error)
	IsPublishedTo(ctx context.Context, surveyID, governorateID string) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type adminUserRepository interface {
	FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error)
	ListEmployeesByGovernorate(ctx context.Context, governorateID string) ([]models.UserDetail, error)
	ListAllowedSurveyIDs(ctx context.Context, userID string) ([]string, error)
	UpdateEmployeeAssignment(ctx context.Context, userID, regionID string, surveyIDs []string) error
}

// GovernorateAdminService backs the workspace of a governorate admin: its own
// governorate, the surveys published there and the employees working in it.
type GovernorateAdminService struct {
	governorates adminGovernorateRepository
	regions      adminRegionRepository
	surveys      adminSurveyRepository
	users        adminUserRepository
	cache        surveyCacheInvalidator
	audit        auditRecorder
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewGovernorateAdminService constructs a GovernorateAdminService.
func NewGovernorateAdminService(
	governorates adminGovernorateRepository,
	regions adminRegionRepository,
	surveys adminSurveyRepository,
	users adminUserRepository,
	cache surveyCacheInvalidator,
	audit auditWriter,
	validate *validator.Validate,
	logger *zap.Logger,
) *GovernorateAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GovernorateAdminService{
		governorates: governorates,
		regions:      regions,
		surveys:      surveys,
		users:        users,
		cache:        cache,
		audit:        auditRecorder{writer: audit, logger: logger},
		validator:    validate,
		logger:       logger,
	}
}

// Workspace returns the actor's governorate and its health administrations.
func (s *GovernorateAdminService) Workspace(ctx context.Context, actor Actor) (*dto.GovernorateWorkspace, error) {
	governorate, err := s.ownGovernorate(ctx, actor)
	if err != nil {
		return nil, err
	}
	regions, err := s.regions.List(ctx, governorate.ID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list health administrations")
	}
	return &dto.GovernorateWorkspace{Governorate: *governorate, Regions: regions}, nil
}

// Surveys lists the surveys published to the actor's governorate.
func (s *GovernorateAdminService) Surveys(ctx context.Context, actor Actor) ([]models.SurveySummary, error) {
	governorate, err := s.ownGovernorate(ctx, actor)
	if err != nil {
		return nil, err
	}
	items, err := s.surveys.ListByGovernorate(ctx, governorate.ID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list governorate surveys")
	}
	return items, nil
}

// SetSurveyStatus toggles whether a survey published to the actor's governorate accepts responses.
func (s *GovernorateAdminService) SetSurveyStatus(ctx context.Context, actor Actor, surveyID string, req dto.SurveyStatusRequest) (*models.Survey, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid survey status payload")
	}
	governorate, err := s.ownGovernorate(ctx, actor)
	if err != nil {
		return nil, err
	}
	item, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load survey")
	}
	published, err := s.surveys.IsPublishedTo(ctx, surveyID, governorate.ID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check survey publication")
	}
	if !published {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "survey is not published to your governorate")
	}

	previous := item.IsActive
	if err := s.surveys.SetActive(ctx, surveyID, *req.IsActive); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update survey status")
	}
	item.IsActive = *req.IsActive
	if s.cache != nil {
		s.cache.InvalidateSurvey(ctx, surveyID)
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceSurveys, surveyID,
		map[string]bool{"is_active": previous}, map[string]bool{"is_active": item.IsActive})
	return item, nil
}

// Employees lists employees assigned to health administrations of the actor's governorate.
func (s *GovernorateAdminService) Employees(ctx context.Context, actor Actor) ([]models.UserDetail, error) {
	governorate, err := s.ownGovernorate(ctx, actor)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListEmployeesByGovernorate(ctx, governorate.ID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list employees")
	}
	if users == nil {
		users = []models.UserDetail{}
	}
	return users, nil
}

// AssignEmployee moves an employee between health administrations of the
// actor's governorate and replaces its surveys. Survey ids not published to the
// governorate are dropped.
func (s *GovernorateAdminService) AssignEmployee(ctx context.Context, actor Actor, employeeID string, req dto.EmployeeAssignmentRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid employee assignment payload")
	}
	governorate, err := s.ownGovernorate(ctx, actor)
	if err != nil {
		return nil, err
	}

	employee, err := s.users.FindDetailByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load employee")
	}
	if employee.Role != models.RoleEmployee || employee.GovernorateID == nil || *employee.GovernorateID != governorate.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "employee is not part of your governorate")
	}

	region, err := s.regions.GetByID(ctx, req.RegionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "health administration does not exist")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load health administration")
	}
	if region.GovernorateID != governorate.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "health administration belongs to another governorate")
	}

	published, err := s.surveys.ListByGovernorate(ctx, governorate.ID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list governorate surveys")
	}
	allowed := make(map[string]struct{}, len(published))
	for _, item := range published {
		allowed[item.ID] = struct{}{}
	}
	surveyIDs := make([]string, 0, len(req.SurveyIDs))
	for _, id := range dedupe(req.SurveyIDs) {
		if _, ok := allowed[id]; ok {
			surveyIDs = append(surveyIDs, id)
		}
	}

	before, err := s.users.ListAllowedSurveyIDs(ctx, employeeID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load allowed surveys")
	}
	if err := s.users.UpdateEmployeeAssignment(ctx, employeeID, region.ID, surveyIDs); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update employee assignment")
	}

	oldRegion := ""
	if employee.AssignedRegion != nil {
		oldRegion = *employee.AssignedRegion
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceUsers, employeeID,
		map[string]interface{}{"assigned_region": oldRegion, "survey_ids": before},
		map[string]interface{}{"assigned_region": region.ID, "survey_ids": surveyIDs})

	employee.AssignedRegion = &region.ID
	employee.RegionName = &region.Name
	return &models.Profile{UserDetail: *employee, AllowedSurveys: surveyIDs}, nil
}

func (s *GovernorateAdminService) ownGovernorate(ctx context.Context, actor Actor) (*models.Governorate, error) {
	governorate, err := s.governorates.GetByAdmin(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "no governorate is linked to this account")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load governorate")
	}
	return governorate, nil
}
