package ratelimit

import (
	"context"
	"sync"
	"time"

	"pictiv/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverLimiter uses the primary limiter until it errors, then serves from
// the fallback and retries the primary once per recoveryInterval.
type FailoverLimiter struct {
	primary  domain.SubmissionLimiter
	fallback domain.SubmissionLimiter
	logger   *zerolog.Logger
	now      func() time.Time

	mu        sync.Mutex
	isDown    bool
	lastCheck time.Time
}

func NewFailoverLimiter(primary, fallback domain.SubmissionLimiter, logger *zerolog.Logger) *FailoverLimiter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (f *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if f.shouldTryPrimary() {
		allowed, err := f.primary.Allow(ctx, key)
		if err == nil {
			f.markUp()
			return allowed, nil
		}
		f.markDown(err)
	}

	return f.fallback.Allow(ctx, key)
}

func (f *FailoverLimiter) shouldTryPrimary() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.isDown || f.now().Sub(f.lastCheck) > recoveryInterval
}

func (f *FailoverLimiter) markUp() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isDown {
		f.logger.Info().Msg("Primary rate limiter recovered")
	}
	f.isDown = false
}

func (f *FailoverLimiter) markDown(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.isDown {
		f.logger.Error().Err(err).Msg("Primary rate limiter failed, falling back to memory")
	}
	f.isDown = true
	f.lastCheck = f.now()
}
