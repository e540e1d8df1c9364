package worker

import (
	"context"
	"math"
	"time"
)

// RetryPolicy is the backoff schedule for failed sheet appends. Zero fields
// take the MirrorRetryPolicy values, except Jitter where zero disables it.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Jitter spreads each delay by up to this fraction either way.
	Jitter float64
}

// MirrorRetryPolicy is the schedule the API uses for the Sheets mirror.
func MirrorRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2,
		Jitter:        0.1,
	}
}

func (r RetryPolicy) withDefaults() RetryPolicy {
	def := MirrorRetryPolicy()
	if r.MaxRetries <= 0 {
		r.MaxRetries = def.MaxRetries
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = def.InitialDelay
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = def.MaxDelay
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = def.BackoffFactor
	}
	if r.Jitter < 0 || r.Jitter > 1 {
		r.Jitter = 0
	}
	return r
}

// Exhausted reports whether a row that failed attempt times is given up.
func (r RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= r.withDefaults().MaxRetries
}

// NextDelay returns the un-jittered wait before retry number attempt
// (1-based), capped at MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	r = r.withDefaults()
	if attempt < 1 {
		attempt = 1
	}

	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if d > r.MaxDelay || d <= 0 {
		d = r.MaxDelay
	}
	return d
}

// spread applies Jitter to d. roll is uniform in [0, 1).
func (r RetryPolicy) spread(d time.Duration, roll float64) time.Duration {
	if r.Jitter <= 0 || r.Jitter > 1 {
		return d
	}
	return time.Duration(math.Round(float64(d) * (1 + r.Jitter*(2*roll-1))))
}

// wait blocks for d or until ctx is done, reporting whether the full delay
// elapsed.
func wait(ctx context.Context, d time.Duration, after func(time.Duration) <-chan time.Time) bool {
	select {
	case <-ctx.Done():
		return false
	case <-after(d):
		return true
	}
}
