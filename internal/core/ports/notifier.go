package ports

import (
	"context"
	"time"
)

// ResetNotice is everything a delivery channel needs to send a reset link.
type ResetNotice struct {
	UserID    string
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// ResetNotifier hands a reset notice to an out-of-band delivery channel.
type ResetNotifier interface {
	Notify(ctx context.Context, notice ResetNotice) error
}

// ResetMailer performs the actual delivery of a reset notice.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, notice ResetNotice) error
}

// ResetThrottle limits how often reset notices are issued for one email.
type ResetThrottle interface {
	// Allow reports whether a reset may be issued for email now, and records
	// the attempt when it may.
	Allow(ctx context.Context, email string) (bool, error)
}
