package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type runClaim struct {
	Owner string `json:"owner"`
}

func TestMemoryCacheBasic(t *testing.T) {
	mc := NewMemoryCache[runClaim]()
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.Set(ctx, "claim", runClaim{Owner: "api"}, 0))
	v, err := mc.Get(ctx, "claim")
	assert.NoError(t, err)
	assert.Equal(t, "api", v.Owner)

	assert.NoError(t, mc.Delete(ctx, "claim"))
	_, err = mc.Get(ctx, "claim")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCacheWithOptions[string](4, time.Hour)
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.Set(ctx, "temp", "x", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	_, err := mc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheSetIfAbsent(t *testing.T) {
	mc := NewMemoryCacheWithOptions[string](4, time.Hour)
	defer mc.Stop()
	ctx := context.Background()

	ok, err := mc.SetIfAbsent(ctx, "run:1", "first", time.Minute)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = mc.SetIfAbsent(ctx, "run:1", "second", time.Minute)
	assert.NoError(t, err)
	assert.False(t, ok)

	v, _ := mc.Get(ctx, "run:1")
	assert.Equal(t, "first", v)

	// expired claims can be taken again
	ok, _ = mc.SetIfAbsent(ctx, "run:2", "a", 10*time.Millisecond)
	assert.True(t, ok)
	time.Sleep(25 * time.Millisecond)
	ok, _ = mc.SetIfAbsent(ctx, "run:2", "b", time.Minute)
	assert.True(t, ok)
}

func TestMemoryCacheSetIfAbsentSingleWinner(t *testing.T) {
	mc := NewMemoryCache[int]()
	defer mc.Stop()
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if ok, _ := mc.SetIfAbsent(ctx, "run:event", i, time.Minute); ok {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestMemoryCacheCustomShardCount(t *testing.T) {
	mc := NewMemoryCacheWithOptions[int](4, time.Hour)
	defer mc.Stop()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key%d", i)
		assert.NoError(t, mc.Set(ctx, key, i, 0))
		v, err := mc.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestMemoryCacheStopIdempotent(t *testing.T) {
	mc := NewMemoryCache[string]()
	assert.NotPanics(t, func() {
		mc.Stop()
		mc.Stop()
	})
}

func TestMemoryCacheJanitorCleansExpiredEntries(t *testing.T) {
	interval := 10 * time.Millisecond
	mc := NewMemoryCacheWithOptions[string](4, interval)
	defer mc.Stop()
	ctx := context.Background()

	assert.NoError(t, mc.Set(ctx, "k", "v", interval))
	time.Sleep(5 * interval)

	s := mc.getShard("k")
	s.RLock()
	_, exists := s.items["k"]
	s.RUnlock()
	assert.False(t, exists)
}
