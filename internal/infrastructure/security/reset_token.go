package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the entropy of a password reset token.
const ResetTokenBytes = 32

// ResetTokenGenerator creates hex-encoded opaque reset tokens. Only the
// SHA-256 digest of a token is ever persisted.
type ResetTokenGenerator struct {
	size int
}

func NewResetTokenGenerator() *ResetTokenGenerator {
	return &ResetTokenGenerator{size: ResetTokenBytes}
}

func (g *ResetTokenGenerator) Generate() (string, error) {
	buf := make([]byte, g.size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (g *ResetTokenGenerator) Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
