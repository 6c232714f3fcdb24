package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps the skip offset well inside int range.
	maxPage = 100000
)

// AccountService serves the authenticated user's own record, progress
// updates, and the admin listing.
type AccountService struct {
	repo ports.UserRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewAccountService(repo ports.UserRepository, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, log: log, now: time.Now}
}

func (s *AccountService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal("failed to load user", err)
	}
	return user, nil
}

// UpdateProgress applies a partial progression update. Badges are merged as a
// set into the stored badges.
func (s *AccountService) UpdateProgress(ctx context.Context, userID string, change ports.ProgressChange) (*domain.User, error) {
	change.Badges = uniqueBadges(change.Badges)
	if change.Level == nil && change.XP == nil && len(change.Badges) == 0 {
		return nil, domain.ErrNoProgressFields
	}
	if change.Level != nil && *change.Level < domain.InitialLevel {
		return nil, &domain.Error{Kind: domain.KindValidation, Message: "Level must be at least 1."}
	}
	if change.XP != nil && *change.XP < 0 {
		return nil, &domain.Error{Kind: domain.KindValidation, Message: "XP must not be negative."}
	}

	user, err := s.repo.UpdateProgress(ctx, userID, change, s.now().UTC())
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal("failed to update progress", err)
	}

	s.log.Info().Str("user_id", userID).Int("level", user.Level).Int("xp", user.XP).Msg("progress updated")
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > maxPage {
		filter.Page = maxPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.Internal("failed to list users", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func uniqueBadges(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, b := range in {
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
