package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type auditReader interface {
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int, error)
}

// Actor identifies who performs a mutation and from where.
type Actor struct {
	UserID        string
	Role          models.UserRole
	RegionID      string
	GovernorateID string
	IP            string
	UserAgent     string
}

// ActorFromClaims builds an Actor from access token claims.
func ActorFromClaims(claims *models.JWTClaims, ip, userAgent string) Actor {
	if claims == nil {
		return Actor{IP: ip, UserAgent: userAgent}
	}
	return Actor{
		UserID:        claims.UserID,
		Role:          claims.Role,
		RegionID:      claims.RegionID,
		GovernorateID: claims.GovernorateID,
		IP:            ip,
		UserAgent:     userAgent,
	}
}

// auditRecorder writes audit entries; failures are logged and never fail the caller.
type auditRecorder struct {
	writer auditWriter
	logger *zap.Logger
}

func (a auditRecorder) record(ctx context.Context, actor Actor, action, resource, resourceID string, oldValues, newValues interface{}) {
	if a.writer == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	}
	if actor.UserID != "" {
		userID := actor.UserID
		entry.UserID = &userID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	entry.OldValues = marshalAudit(oldValues)
	entry.NewValues = marshalAudit(newValues)
	if err := a.writer.CreateAuditLog(ctx, entry); err != nil {
		a.logger.Warn("failed to record audit log",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err))
	}
}

func marshalAudit(v interface{}) []byte {
	if v == nil {
		return nil
	}
	if raw, ok := v.([]byte); ok {
		return raw
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return payload
}

// AuditService exposes the audit trail to administrators.
type AuditService struct {
	repo      auditReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditReader, validate *validator.Validate, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuditService{repo: repo, validator: validate, logger: logger}
}

// List returns audit entries newest first.
func (s *AuditService) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, *models.Pagination, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to list audit logs")
	}
	return entries, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
