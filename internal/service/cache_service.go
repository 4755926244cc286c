package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/health-survey-api/internal/models"
	appErrors "github.com/noah-isme/health-survey-api/pkg/errors"
)

const cacheNamespace = "hs:"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is the read-through cache for survey statistics. A disabled or
// unreachable cache degrades to computing every value from the database.
type CacheService struct {
	repo     CacheRepository
	metrics  *MetricsService
	statsTTL time.Duration
	logger   *zap.Logger
	enabled  bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, statsTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if statsTTL <= 0 {
		statsTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, statsTTL: statsTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// StatsKey is the cache key for a survey's response statistics within a
// governorate scope; an empty scope means every governorate.
func StatsKey(surveyID, governorateID string) string {
	if governorateID == "" {
		governorateID = "all"
	}
	return cacheNamespace + "stats:" + surveyID + ":" + governorateID
}

// SurveyStats returns cached statistics or computes them with load and stores
// the result. The boolean reports a cache hit.
func (s *CacheService) SurveyStats(ctx context.Context, surveyID, governorateID string, load func(context.Context) (*models.ResponseStats, error)) (*models.ResponseStats, bool, error) {
	return remember(ctx, s, StatsKey(surveyID, governorateID), load)
}

// InvalidateSurvey drops every cached entry derived from a survey's responses.
func (s *CacheService) InvalidateSurvey(ctx context.Context, surveyID string) {
	if !s.Enabled() {
		return
	}
	pattern := cacheNamespace + "stats:" + surveyID + ":*"
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("survey_id", surveyID), zap.String("pattern", pattern), zap.Error(err))
	}
}

func remember[T any](ctx context.Context, s *CacheService, key string, load func(context.Context) (*T, error)) (*T, bool, error) {
	if !s.Enabled() {
		v, err := load(ctx)
		return v, false, err
	}

	var cached T
	start := time.Now()
	err := s.repo.Get(ctx, key, &cached)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	switch {
	case err == nil:
		return &cached, true, nil
	case !errors.Is(err, appErrors.ErrCacheMiss):
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load(ctx)
	if err != nil {
		return nil, false, err
	}

	start = time.Now()
	if err := s.repo.Set(ctx, key, v, s.statsTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	s.metrics.ObserveCacheWrite(time.Since(start))
	return v, false, nil
}
