package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

// stubUserRepo is an in-memory ports.UserRepository mirroring the guarded
// updates of the Mongo implementation.
type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int

	findErr      error
	createErr    error
	incrementErr error
	resetCalls   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Badges = append([]string{}, u.Badges...)
	if u.ResetTokenExpiresAt != nil {
		exp := *u.ResetTokenExpiresAt
		clone.ResetTokenExpiresAt = &exp
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, tokenHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, tokenHash string, expiresAt, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiresAt = &expiresAt
	u.UpdatedAt = now
	return nil
}

func (r *stubUserRepo) ClearResetToken(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetTokenHash = ""
	u.ResetTokenExpiresAt = nil
	u.UpdatedAt = now
	return nil
}

func (r *stubUserRepo) RedeemResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenHash == tokenHash && u.HasPendingReset(now) {
			u.PasswordHash = passwordHash
			u.ResetTokenHash = ""
			u.ResetTokenExpiresAt = nil
			u.UpdatedAt = now
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ResetUsageWindow(_ context.Context, id string, previous, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetCalls++
	u, ok := r.users[id]
	if !ok || !u.AIUsageLastReset.Equal(previous) {
		return nil
	}
	u.AIUsageCount = 0
	u.AIUsageLastReset = now
	u.UpdatedAt = now
	return nil
}

func (r *stubUserRepo) IncrementUsage(_ context.Context, id string, limit int, now time.Time) (*domain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incrementErr != nil {
		return nil, false, r.incrementErr
	}
	u, ok := r.users[id]
	if !ok || u.AIUsageCount >= limit {
		return nil, false, nil
	}
	u.AIUsageCount++
	u.UpdatedAt = now
	return cloneUser(u), true, nil
}

func (r *stubUserRepo) UpdateProgress(_ context.Context, id string, change ports.ProgressChange, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if change.Level != nil {
		u.Level = *change.Level
	}
	if change.XP != nil {
		u.XP = *change.XP
	}
	for _, b := range change.Badges {
		found := false
		for _, have := range u.Badges {
			if have == b {
				found = true
				break
			}
		}
		if !found {
			u.Badges = append(u.Badges, b)
		}
	}
	u.UpdatedAt = now
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

// seed stores u directly and returns its ID.
func (r *stubUserRepo) seed(u *domain.User) string {
	created, err := r.Create(context.Background(), u)
	if err != nil {
		panic(err)
	}
	return created.ID
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[id])
}

var _ ports.UserRepository = (*stubUserRepo)(nil)
