package ports

import (
	"context"
	"time"

	"github.com/studyforge/learning-api/internal/core/domain"
)

// ListUsersFilter carries pagination for the admin listing.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int
}

// ProgressChange is a partial update of the progression fields. Nil pointers
// and an empty Badges slice leave the stored value untouched.
type ProgressChange struct {
	Level  *int
	XP     *int
	Badges []string
}

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// Create inserts a new user and returns it with its assigned ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByResetToken looks up the user holding tokenHash, expired or not.
	FindByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)

	// SetResetToken stores a reset token digest together with its expiry.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) error
	// ClearResetToken unsets both reset fields.
	ClearResetToken(ctx context.Context, id string, now time.Time) error
	// RedeemResetToken replaces the password hash and clears the reset fields in
	// one update, provided tokenHash is still stored and unexpired at now.
	// It reports false when no document matched.
	RedeemResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error)

	// ResetUsageWindow zeroes the AI usage counter and moves the window start to
	// now, but only if the stored window start still equals previous.
	ResetUsageWindow(ctx context.Context, id string, previous, now time.Time) error
	// IncrementUsage adds one to the AI usage counter if it is below limit and
	// returns the updated user. It reports false when the guard did not match
	// (user missing or limit reached).
	IncrementUsage(ctx context.Context, id string, limit int, now time.Time) (*domain.User, bool, error)

	UpdateProgress(ctx context.Context, id string, change ProgressChange, now time.Time) (*domain.User, error)
	// List returns a page of users ordered by creation time and the total count.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}
