package ports

import (
	"context"
	"time"

	"github.com/studyforge/learning-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type PasswordResetService interface {
	// RequestReset never reveals whether email is registered.
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token, newPassword string) error
}

// UsageService is the gate consulted before every metered AI operation.
type UsageService interface {
	Consume(ctx context.Context, userID string) (*domain.User, domain.UsageStatus, error)
}

// ListUsersResult is one page of the admin user listing.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type AccountService interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProgress(ctx context.Context, userID string, change ProgressChange) (*domain.User, error)
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
}
