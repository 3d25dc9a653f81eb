// Package cache defines the expiring key/value store used to memoize reads.
package cache

import (
	"context"
	"time"
)

// Store is a key/value cache with per-key time-to-live.
//
// A ttl <= 0 passed to Set expires the key immediately, which callers use to
// force-invalidate a key.
type Store interface {
	// Get returns the value and true, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites any existing value and its pending expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Clear removes every key owned by the store.
	Clear(ctx context.Context) error
}
