package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Store is a byte-oriented key-value store with expiration.
// A zero ttl means the key never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// Take returns the value and deletes the key atomically.
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	// DeleteIfEqual deletes key only while it still holds value and reports
	// whether it did.
	DeleteIfEqual(ctx context.Context, key string, value []byte) (bool, error)
}
