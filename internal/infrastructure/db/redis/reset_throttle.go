package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultResetThrottle is the minimum gap between two reset notices for one email.
const DefaultResetThrottle = time.Minute

// ResetThrottle allows one password reset per email per window, backed by a
// Redis key with a TTL.
// Key format: reset:throttle:<sha256(email)>
type ResetThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
func NewResetThrottle(client *redis.Client, window time.Duration) *ResetThrottle {
	if window <= 0 {
		window = DefaultResetThrottle
	}
	return &ResetThrottle{client: client, window: window}
}

// Allow claims the throttle slot for email. It returns false while a previous
// claim is still alive.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(email), "1", t.window).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}
	return ok, nil
}

// The email is hashed so addresses never appear in the cache keyspace.
func (t *ResetThrottle) key(email string) string {
	sum := sha256.Sum256([]byte(email))
	return "reset:throttle:" + hex.EncodeToString(sum[:])
}
