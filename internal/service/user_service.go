package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/health-survey-api/internal/dto"
	"github.com/noah-isme/health-survey-api/internal/models"
	"github.com/noah-isme/health-survey-api/internal/repository"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindDetailByID(ctx context.Context, id string) (*models.UserDetail, error)
	ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error)
	Create(ctx context.Context, user *models.User, assignment repository.UserAssignment) error
	Update(ctx context.Context, user *models.User, assignment repository.UserAssignment) error
	Delete(ctx context.Context, id string) error
	CountResponses(ctx context.Context, id string) (int, error)
	ListAllowedSurveyIDs(ctx context.Context, userID string) ([]string, error)
	ReplaceAllowedSurveys(ctx context.Context, userID string, surveyIDs []string) error
}

type regionLookup interface {
	GetByID(ctx context.Context, id string) (*models.HealthAdministration, error)
}

type governorateLookup interface {
	GetByID(ctx context.Context, id string) (*models.Governorate, error)
}

// UserService handles user management workflows.
type UserService struct {
	repo         userRepository
	regions      regionLookup
	governorates governorateLookup
	audit        auditRecorder
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, regions regionLookup, governorates governorateLookup, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{
		repo:         repo,
		regions:      regions,
		governorates: governorates,
		audit:        auditRecorder{writer: audit, logger: logger},
		validator:    validate,
		logger:       logger,
	}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.UserDetail, *models.Pagination, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role filter")
	}
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a user with its region and governorate names.
func (s *UserService) Get(ctx context.Context, id string) (*models.Profile, error) {
	user, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load user")
	}
	allowed, err := s.repo.ListAllowedSurveyIDs(ctx, id)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load allowed surveys")
	}
	return &models.Profile{UserDetail: *user, AllowedSurveys: allowed}, nil
}

// Create adds a new user with its role dependent assignment.
func (s *UserService) Create(ctx context.Context, actor Actor, req dto.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid create user payload")
	}
	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	region, assignment, err := s.resolveAssignment(ctx, req.Role, req.RegionID, req.GovernorateID, req.SurveyIDs)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to hash password")
	}

	user := &models.User{
		Username:       username,
		PasswordHash:   string(passwordHash),
		Role:           req.Role,
		AssignedRegion: region,
	}
	if err := s.repo.Create(ctx, user, assignment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to create user")
	}

	s.audit.record(ctx, actor, models.AuditActionCreate, models.AuditResourceUsers, user.ID, nil, userAuditPayload(user, assignment))
	return user, nil
}

// Update modifies a user's name, role, password and assignment in one step.
func (s *UserService) Update(ctx context.Context, actor Actor, id string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid update user payload")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load user")
	}
	before := userAuditPayload(user, repository.UserAssignment{})

	username := strings.TrimSpace(req.Username)
	if err := s.ensureUsernameFree(ctx, username, id); err != nil {
		return nil, err
	}
	region, assignment, err := s.resolveAssignment(ctx, req.Role, req.RegionID, req.GovernorateID, req.SurveyIDs)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Role = req.Role
	user.AssignedRegion = region
	if req.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to hash password")
		}
		user.PasswordHash = string(passwordHash)
	}

	if err := s.repo.Update(ctx, user, assignment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update user")
	}

	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceUsers, user.ID, before, userAuditPayload(user, assignment))
	return user, nil
}

// Delete removes a user that has not submitted any responses.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if id == actor.UserID {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "cannot delete the signed in account")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load user")
	}

	count, err := s.repo.CountResponses(ctx, id)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to count user responses")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrReferencedResource, "cannot delete a user who has submitted responses")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to delete user")
	}

	s.audit.record(ctx, actor, models.AuditActionDelete, models.AuditResourceUsers, id, userAuditPayload(user, repository.UserAssignment{}), nil)
	return nil
}

// AllowedSurveys returns the surveys granted to a user.
func (s *UserService) AllowedSurveys(ctx context.Context, id string) ([]string, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load user")
	}
	ids, err := s.repo.ListAllowedSurveyIDs(ctx, id)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load allowed surveys")
	}
	return ids, nil
}

// SetAllowedSurveys replaces a user's allowed surveys.
func (s *UserService) SetAllowedSurveys(ctx context.Context, actor Actor, id string, req dto.AllowedSurveysRequest) ([]string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid allowed surveys payload")
	}
	before, err := s.AllowedSurveys(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := dedupe(req.SurveyIDs)
	if err := s.repo.ReplaceAllowedSurveys(ctx, id, ids); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update allowed surveys")
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceUsers, id,
		map[string][]string{"survey_ids": before}, map[string][]string{"survey_ids": ids})
	return ids, nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, excludeID string) error {
	if username == "" {
		return appErrors.Clone(appErrors.ErrValidation, "username is required")
	}
	exists, err := s.repo.ExistsByUsername(ctx, username, excludeID)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check username uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "username already exists")
	}
	return nil
}

// resolveAssignment checks the role specific links: governorate admins need a
// governorate, employees a region, and admins carry neither.
func (s *UserService) resolveAssignment(ctx context.Context, role models.UserRole, regionID, governorateID string, surveyIDs []string) (*string, repository.UserAssignment, error) {
	switch role {
	case models.RoleAdmin:
		return nil, repository.UserAssignment{}, nil
	case models.RoleGovernorateAdmin:
		if governorateID == "" {
			return nil, repository.UserAssignment{}, appErrors.Clone(appErrors.ErrValidation, "governorate_id is required for governorate admins")
		}
		if _, err := s.governorates.GetByID(ctx, governorateID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, repository.UserAssignment{}, appErrors.Clone(appErrors.ErrValidation, "governorate does not exist")
			}
			return nil, repository.UserAssignment{}, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load governorate")
		}
		return nil, repository.UserAssignment{GovernorateID: governorateID, SurveyIDs: dedupe(surveyIDs)}, nil
	case models.RoleEmployee:
		if regionID == "" {
			return nil, repository.UserAssignment{}, appErrors.Clone(appErrors.ErrValidation, "region_id is required for employees")
		}
		if _, err := s.regions.GetByID(ctx, regionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, repository.UserAssignment{}, appErrors.Clone(appErrors.ErrValidation, "health administration does not exist")
			}
			return nil, repository.UserAssignment{}, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load health administration")
		}
		region := regionID
		return &region, repository.UserAssignment{SurveyIDs: dedupe(surveyIDs)}, nil
	}
	return nil, repository.UserAssignment{}, appErrors.Clone(appErrors.ErrValidation, "unknown role")
}

func userAuditPayload(user *models.User, assignment repository.UserAssignment) map[string]interface{} {
	payload := map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}
	if user.AssignedRegion != nil {
		payload["assigned_region"] = *user.AssignedRegion
	}
	if assignment.GovernorateID != "" {
		payload["governorate_id"] = assignment.GovernorateID
	}
	if len(assignment.SurveyIDs) > 0 {
		payload["survey_ids"] = assignment.SurveyIDs
	}
	return payload
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
