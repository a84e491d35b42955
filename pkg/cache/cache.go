package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// BytesCache is a minimal key/value cache storing raw bytes with TTL.
// The authoring-time response cache is built on this contract so the
// backend can be swapped between in-memory and Redis.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
