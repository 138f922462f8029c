package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when the key is absent or evicted.
var ErrMiss = errors.New("cache miss")

// Entry is a cached payload with the time it was stored and when it stops being fresh.
// An entry past ExpiresAt is stale but may still be served when a refresh fails.
type Entry struct {
	Value     []byte    `json:"value"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Fresh reports whether the entry is still within its TTL at now.
func (e Entry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Store persists entries. Backends keep entries for a retention window longer than any TTL
// so stale values survive for fallback.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
}
