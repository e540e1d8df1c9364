package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiter(3, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow(ctx, "a")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "b")
	assert.True(t, allowed)
}

func TestMemoryLimiter_Burst(t *testing.T) {
	limiter := NewMemoryLimiter(60, 1)
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "a")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "a")
	assert.False(t, allowed)
}

func TestMemoryLimiter_Disabled(t *testing.T) {
	limiter := NewMemoryLimiter(0, 0)
	for i := 0; i < 100; i++ {
		allowed, err := limiter.Allow(context.Background(), "a")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	limiter := NewMemoryLimiter(10, 10)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow(context.Background(), "shared"); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, granted)
}

func TestMemoryLimiter_EvictsIdleKeys(t *testing.T) {
	limiter := NewMemoryLimiter(60, 2)
	now := time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = limiter.Allow(ctx, "a")
	_, _ = limiter.Allow(ctx, "a")
	_, _ = limiter.Allow(ctx, "b")
	assert.Equal(t, 2, limiter.Len())

	now = now.Add(time.Second)
	_, _ = limiter.Allow(ctx, "b")

	now = now.Add(1500 * time.Millisecond)
	_, _ = limiter.Allow(ctx, "c")
	assert.Equal(t, 2, limiter.Len(), "idle key a should be dropped")

	allowed, _ := limiter.Allow(ctx, "a")
	assert.True(t, allowed)
}

func TestMemoryLimiter_DisabledTracksNothing(t *testing.T) {
	limiter := NewMemoryLimiter(0, 5)
	_, _ = limiter.Allow(context.Background(), "a")
	assert.Zero(t, limiter.Len())
}
