package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/martinstiben/SGH-portal/internal/models"
	appErrors "github.com/martinstiben/SGH-portal/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is the read-through cache for timetable grids. It also
// serves as the invalidation hook the schedule service calls after
// mutations.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// GetGrid attempts to load a cached grid. Cache failures degrade to a
// miss; the projector recomputes.
func (s *CacheService) GetGrid(ctx context.Context, key string) (*models.TimetableGrid, bool) {
	if !s.Enabled() {
		return nil, false
	}

	start := time.Now()
	var grid models.TimetableGrid
	err := s.repo.Get(ctx, key, &grid)
	duration := time.Since(start)

	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false, duration)
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	if s.metrics != nil {
		s.metrics.RecordCacheOperation(true, duration)
	}
	return &grid, true
}

// SetGrid stores a rendered grid with the default TTL.
func (s *CacheService) SetGrid(ctx context.Context, key string, grid *models.TimetableGrid) {
	if !s.Enabled() || grid == nil {
		return
	}
	if err := s.repo.Set(ctx, key, grid, s.defaultTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateTimetables drops cached grids for the affected course and
// teacher after a block mutation.
func (s *CacheService) InvalidateTimetables(ctx context.Context, courseID, teacherID string) {
	if !s.Enabled() {
		return
	}
	patterns := []string{
		fmt.Sprintf("grid:course:%s", courseID),
		fmt.Sprintf("grid:teacher:%s", teacherID),
	}
	for _, pattern := range patterns {
		if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}
