package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	// MinPasswordLength applies to signup and password reset alike.
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest password bcrypt accepts, in bytes.
	MaxPasswordBytes = 72
	// InitialLevel is the level assigned to every new account.
	InitialLevel = 1
)

// User models a registered learner. Credential and reset fields never leave
// the process: they carry json:"-" so any handler can render a User directly.
type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                string     `json:"role"`
	Level               int        `json:"level"`
	XP                  int        `json:"xp"`
	Badges              []string   `json:"badges"`
	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	AIUsageCount        int        `json:"aiUsageCount"`
	AIUsageLastReset    time.Time  `json:"aiUsageLastReset"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// HasPendingReset reports whether a reset token is set and still valid at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetTokenHash != "" && u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now)
}

// UsageWindowExpired reports whether the AI usage window has elapsed at now.
// The comparison is strict: exactly one window after the last reset is still
// inside the window.
func (u *User) UsageWindowExpired(now time.Time, window time.Duration) bool {
	return now.Sub(u.AIUsageLastReset) > window
}

// NewUser returns a freshly initialised account with an empty progression and
// a usage window starting at now.
func NewUser(name, email, passwordHash string, now time.Time) *User {
	return &User{
		Name:             name,
		Email:            email,
		PasswordHash:     passwordHash,
		Role:             RoleUser,
		Level:            InitialLevel,
		XP:               0,
		Badges:           []string{},
		AIUsageCount:     0,
		AIUsageLastReset: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
