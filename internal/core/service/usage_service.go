package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
	"github.com/studyforge/learning-api/internal/pkg/metrics"
)

const (
	// DefaultDailyLimit is the registered-user AI quota per usage window.
	DefaultDailyLimit = 20
	// DefaultUsageWindow is the rolling period after which the counter resets.
	DefaultUsageWindow = 24 * time.Hour
)

// UsageService meters AI operations per user within a rolling window.
type UsageService struct {
	repo   ports.UserRepository
	limit  int
	window time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

func NewUsageService(repo ports.UserRepository, limit int, window time.Duration, log zerolog.Logger) *UsageService {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if window <= 0 {
		window = DefaultUsageWindow
	}
	return &UsageService{repo: repo, limit: limit, window: window, log: log, now: time.Now}
}

// Limit returns the configured quota.
func (s *UsageService) Limit() int {
	return s.limit
}

// Consume records one metered operation for userID. It returns
// domain.ErrQuotaExceeded, without incrementing, once the quota is used up;
// the returned status then carries the current count.
func (s *UsageService) Consume(ctx context.Context, userID string) (*domain.User, domain.UsageStatus, error) {
	status := domain.UsageStatus{Limit: s.limit}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, status, domain.ErrUserNotFound
		}
		return nil, status, domain.Internal("failed to load user", err)
	}

	now := s.now().UTC()
	if user.UsageWindowExpired(now, s.window) {
		// Persisted on its own so a failed increment still leaves a fresh window.
		if err := s.repo.ResetUsageWindow(ctx, user.ID, user.AIUsageLastReset, now); err != nil {
			return nil, status, domain.Internal("failed to reset usage window", err)
		}
		s.log.Debug().Str("user_id", user.ID).Int("previous_count", user.AIUsageCount).Msg("usage window reset")
	}

	updated, ok, err := s.repo.IncrementUsage(ctx, user.ID, s.limit, now)
	if err != nil {
		return nil, status, domain.Internal("failed to update usage", err)
	}
	if !ok {
		current, err := s.repo.FindByID(ctx, user.ID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return nil, status, domain.ErrUserNotFound
			}
			return nil, status, domain.Internal("failed to load user", err)
		}
		status.Count = current.AIUsageCount
		metrics.UsageChecksTotal.WithLabelValues("limit_reached").Inc()
		s.log.Info().Str("user_id", user.ID).Int("count", status.Count).Int("limit", s.limit).Msg("ai usage limit reached")
		return nil, status, domain.ErrQuotaExceeded
	}

	status.Count = updated.AIUsageCount
	metrics.UsageChecksTotal.WithLabelValues("allowed").Inc()
	return updated, status, nil
}
