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

type regionRepository interface {
	List(ctx context.Context, governorateID string) ([]models.HealthAdministration, error)
	GetByID(ctx context.Context, id string) (*models.HealthAdministration, error)
	ExistsByName(ctx context.Context, name, governorateID, excludeID string) (bool, error)
	Create(ctx context.Context, item *models.HealthAdministration) error
	Update(ctx context.Context, item *models.HealthAdministration) error
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, id string) (int, error)
}

// RegionService manages health administrations.
type RegionService struct {
	repo         regionRepository
	governorates governorateLookup
	audit        auditRecorder
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewRegionService constructs a RegionService.
func NewRegionService(repo regionRepository, governorates governorateLookup, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *RegionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RegionService{repo: repo, governorates: governorates, audit: auditRecorder{writer: audit, logger: logger}, validator: validate, logger: logger}
}

// List returns health administrations, optionally within one governorate.
func (s *RegionService) List(ctx context.Context, governorateID string) ([]models.HealthAdministration, error) {
	items, err := s.repo.List(ctx, governorateID)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list health administrations")
	}
	return items, nil
}

// Get returns one health administration.
func (s *RegionService) Get(ctx context.Context, id string) (*models.HealthAdministration, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "health administration not found")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load health administration")
	}
	return item, nil
}

// Create adds a health administration whose name is unique within its governorate.
func (s *RegionService) Create(ctx context.Context, actor Actor, req dto.RegionRequest) (*models.HealthAdministration, error) {
	item := &models.HealthAdministration{}
	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "health administration name already exists in this governorate")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to create health administration")
	}
	s.audit.record(ctx, actor, models.AuditActionCreate, models.AuditResourceRegions, item.ID, nil, item)
	return item, nil
}

// Update edits a health administration, possibly moving it to another governorate.
func (s *RegionService) Update(ctx context.Context, actor Actor, id string, req dto.RegionRequest) (*models.HealthAdministration, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *item
	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "health administration name already exists in this governorate")
		}
		return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to update health administration")
	}
	s.audit.record(ctx, actor, models.AuditActionUpdate, models.AuditResourceRegions, id, before, item)
	return item, nil
}

// Delete removes a health administration with no assigned users.
func (s *RegionService) Delete(ctx context.Context, actor Actor, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to count assigned users")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrReferencedResource, "cannot delete a health administration with assigned users")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrReferencedResource, "health administration still has responses")
		}
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to delete health administration")
	}
	s.audit.record(ctx, actor, models.AuditActionDelete, models.AuditResourceRegions, id, item, nil)
	return nil
}

func (s *RegionService) apply(ctx context.Context, item *models.HealthAdministration, req dto.RegionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrValidation, "invalid health administration payload")
	}
	governorate, err := s.governorates.GetByID(ctx, req.GovernorateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "governorate does not exist")
		}
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load governorate")
	}
	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, governorate.ID, item.ID)
	if err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to check health administration name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "health administration name already exists in this governorate")
	}
	item.Name = name
	item.Description = strings.TrimSpace(req.Description)
	item.GovernorateID = governorate.ID
	item.GovernorateName = governorate.Name
	return nil
}
