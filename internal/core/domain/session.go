package domain

import "time"

// SessionClaims is the identity carried by a session token.
type SessionClaims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UsageStatus reports the counter state after a usage gate check.
type UsageStatus struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}
