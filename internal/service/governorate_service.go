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
	"github.com/noah-isme/health-survey-api/internal/repository"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type governorateRepository interface {
	List(ctx context.Context) ([]models.GovernorateSummary, error)
	GetByID(ctx context.Context, id string) (*models.Governorate, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, item *models.Governorate) error
	Update(ctx context.Context, item *models.Governorate) error
	Delete(ctx context.Context, id string) error
	CountRegions(ctx context.Context, id string) (int, error)
}

// GovernorateService manages governorates.
type GovernorateService struct {
	repo      governorateRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGovernorateService constructs a GovernorateService.
func NewGovernorateService(repo governorateRepository, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *GovernorateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GovernorateService{repo: repo, audit: auditRecorder{writer: audit, logger: logger}, validator: validate, logger: logger}
}

// List returns all governorates with their region counts.
func (s *GovernorateService) List(ctx context.Context) ([]models.GovernorateSummary, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list governorates")
	}
	return items, nil
}

// Get returns one governorate.
func (s *GovernorateService) Get(ctx context.Context, id string) (*models.Governorate, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "governorate not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load governorate")
	}
	return item, nil
}

// Create adds a governorate with a unique name.
func (s *GovernorateService) Create(ctx context.Context, actor Actor, req dto.GovernorateRequest) (*models.Governorate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid governorate payload")
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	item := &models.Governorate{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.Create(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "governorate name already exists")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to create governorate")
	}
	s.audit.record(ctx, actor, models.AuditActionCreate, models.AuditResourceGovernorates, item.ID, nil, item)
	return item, nil
}

// Update renames or redescribes a governorate.
func (s *GovernorateService) Update(ctx context.Context, actor Actor, id string, req dto.GovernorateRequest) (*models.Governorate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid governorate payload")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *item
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}
	item.Name = name
	item.Description = strings.TrimSpace(req.Description)
	if err := s.repo.Update(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "governorate name already exists")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update governorate")
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceGovernorates, id, before, item)
	return item, nil
}

// Delete removes a governorate that has no health administrations.
func (s *GovernorateService) Delete(ctx context.Context, actor Actor, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountRegions(ctx, id)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to count health administrations")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrReferencedResource, "cannot delete a governorate that has health administrations")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrReferencedResource, "governorate is still referenced")
		}
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to delete governorate")
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, models.AuditResourceGovernorates, id, item, nil)
	return nil
}

func (s *GovernorateService) ensureNameFree(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check governorate name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "governorate name already exists")
	}
	return nil
}
