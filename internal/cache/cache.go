package cache

import (
	"context"
	"errors"
	"time"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Cache is our generic cache interface.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key, with TTL. Zero ttl = no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// SetIfAbsent stores value only when key is missing and reports whether it did.
	SetIfAbsent(ctx context.Context, key string, value V, ttl time.Duration) (bool, error)
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
}

func NewCache[V any](backend string, opts ...interface{}) Cache[V] {
	switch backend {
	case RedisBackend:
		return NewRedisCache[V](opts[0].(*RedisOptions))
	case MemoryBackend:
		return NewMemoryCache[V]()
	default:
		panic("unknown cache backend")
	}
}
