package ports

import (
	"time"

	"github.com/studyforge/learning-api/internal/core/domain"
)

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch is not an error.
	Verify(plaintext, digest string) bool
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(claims domain.SessionClaims) (string, time.Time, error)
	// Verify returns domain.ErrInvalidToken for every kind of rejection.
	Verify(token string) (*domain.SessionClaims, error)
}

// ResetTokenGenerator produces opaque reset tokens and the digest stored for them.
type ResetTokenGenerator interface {
	Generate() (token string, err error)
	Digest(token string) string
}
