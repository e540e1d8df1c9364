package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// MemoryLimiter keeps a token bucket per key in process memory. A bucket
// idle long enough to have refilled completely is dropped on the next sweep.
type MemoryLimiter struct {
	buckets sync.Map
	every   rate.Limit
	burst   int
	idleTTL time.Duration

	mu        sync.Mutex
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter allows perMinute submissions per key with the given burst.
// A non-positive perMinute disables limiting.
func NewMemoryLimiter(perMinute, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	m := &MemoryLimiter{every: rate.Inf, burst: burst, now: time.Now}
	if perMinute > 0 {
		interval := time.Minute / time.Duration(perMinute)
		m.every = rate.Every(interval)
		m.idleTTL = interval * time.Duration(burst)
	}
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if m.every == rate.Inf {
		return true, nil
	}

	now := m.now()
	m.sweep(now)

	val, ok := m.buckets.Load(key)
	if !ok {
		val, _ = m.buckets.LoadOrStore(key, &bucket{limiter: rate.NewLimiter(m.every, m.burst)})
	}
	b := val.(*bucket)
	b.lastSeen.Store(now.UnixNano())
	return b.limiter.AllowN(now, 1), nil
}

// Len returns the number of tracked keys.
func (m *MemoryLimiter) Len() int {
	n := 0
	m.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *MemoryLimiter) sweep(now time.Time) {
	m.mu.Lock()
	if now.Sub(m.lastSweep) < m.idleTTL {
		m.mu.Unlock()
		return
	}
	m.lastSweep = now
	m.mu.Unlock()

	cutoff := now.Add(-m.idleTTL).UnixNano()
	m.buckets.Range(func(key, val any) bool {
		if val.(*bucket).lastSeen.Load() < cutoff {
			m.buckets.Delete(key)
		}
		return true
	})
}
