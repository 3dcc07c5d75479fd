package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache[V any](t *testing.T, withOpTimeout time.Duration) (*RedisCache[V], *miniredis.Miniredis) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	opts := &RedisOptions{
		Addr:            s.Addr(),
		PoolSize:        5,
		MinIdleConns:    1,
		MaxRetries:      1,
		MinRetryBackoff: 1 * time.Millisecond,
		MaxRetryBackoff: 10 * time.Millisecond,
		OpTimeout:       withOpTimeout,
	}
	return NewRedisCache[V](opts), s
}

func TestRedisCacheDefaultOpTimeout_NoPanic(t *testing.T) {
	rc, s := setupRedisCache[string](t, 0)
	defer func() {
		rc.Close()
		s.Close()
	}()

	ctx := context.Background()
	assert.NoError(t, rc.Set(ctx, "foo", "bar", 0))
	v, err := rc.Get(ctx, "foo")
	assert.NoError(t, err)
	assert.Equal(t, "bar", v)
	assert.NoError(t, rc.Ping(ctx))
}

func TestRedisCacheBasicAndEdgeCases(t *testing.T) {
	rc, s := setupRedisCache[runClaim](t, 100*time.Millisecond)
	defer func() {
		rc.Close()
		s.Close()
	}()
	ctx := context.Background()

	assert.NoError(t, rc.Set(ctx, "key", runClaim{Owner: "worker"}, 0))
	v, err := rc.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "worker", v.Owner)

	_, err = rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, rc.Set(ctx, "temp", runClaim{}, 50*time.Millisecond))
	s.FastForward(100 * time.Millisecond)
	_, err = rc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, rc.Delete(ctx, "key"))
	_, err = rc.Get(ctx, "key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheGetInvalidJSON(t *testing.T) {
	rc, s := setupRedisCache[runClaim](t, 100*time.Millisecond)
	defer func() {
		rc.Close()
		s.Close()
	}()

	require.NoError(t, s.Set("broken", "{not json"))
	_, err := rc.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheSetUnsupportedValue(t *testing.T) {
	rc, s := setupRedisCache[func()](t, 100*time.Millisecond)
	defer func() {
		rc.Close()
		s.Close()
	}()

	assert.Error(t, rc.Set(context.Background(), "f", func() {}, 0))
	_, err := rc.SetIfAbsent(context.Background(), "f", func() {}, time.Second)
	assert.Error(t, err)
}

func TestRedisCacheSetIfAbsent(t *testing.T) {
	rc, s := setupRedisCache[string](t, 100*time.Millisecond)
	defer func() {
		rc.Close()
		s.Close()
	}()
	ctx := context.Background()

	ok, err := rc.SetIfAbsent(ctx, "settlement:run:1", "api", 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = rc.SetIfAbsent(ctx, "settlement:run:1", "worker", 30*time.Second)
	assert.NoError(t, err)
	assert.False(t, ok)

	v, _ := rc.Get(ctx, "settlement:run:1")
	assert.Equal(t, "api", v)

	s.FastForward(31 * time.Second)
	ok, err = rc.SetIfAbsent(ctx, "settlement:run:1", "worker", 30*time.Second)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCacheUpstreamError(t *testing.T) {
	rc, s := setupRedisCache[string](t, 50*time.Millisecond)
	defer rc.Close()
	s.Close()

	_, err := rc.Get(context.Background(), "x")
	assert.Error(t, err)
	_, err = rc.SetIfAbsent(context.Background(), "x", "y", time.Second)
	assert.Error(t, err)
	assert.Error(t, rc.Ping(context.Background()))
}
