// Package cache memoizes simulation responses per user. Entries carry the
// hash of the inputs that produced them, so a stale entry is detected by the
// reader even when an invalidation was missed.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMiss is returned when no entry exists for a user.
var ErrMiss = errors.New("cache miss")

// KeyPrefix namespaces simulation entries in a shared Redis.
const KeyPrefix = "hrt:sim:"

// Entry is a cached simulation payload and the input hash it was computed from.
type Entry struct {
	InputHash string `json:"hash"`
	Payload   []byte `json:"payload"`
}

// SimulationCache stores at most one entry per user.
type SimulationCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Entry, error)
	Set(ctx context.Context, userID uuid.UUID, entry Entry, ttl time.Duration) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Key returns the storage key for a user's entry.
func Key(userID uuid.UUID) string {
	return KeyPrefix + userID.String()
}
