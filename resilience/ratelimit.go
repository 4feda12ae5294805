package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the token bucket.
type RateLimiterConfig struct {
	// Rate is the sustained operations-per-second budget.
	// Default: 100
	Rate float64

	// Burst is the bucket capacity. Default: 10
	Burst int

	// WaitOnLimit makes Execute wait for a token instead of failing.
	// Default: false
	WaitOnLimit bool

	// MaxWait bounds how long a waiting call blocks for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter is a token bucket. The bucket starts full and refills
// continuously at Rate tokens per second up to Burst.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	tokens   float64
	refillAt time.Time
}

// NewRateLimiter creates a token bucket limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &RateLimiter{
		config:   config,
		tokens:   float64(config.Burst),
		refillAt: time.Now(),
	}
}

// Allow reports whether one operation may proceed now.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN reports whether n operations may proceed now, consuming the
// tokens when they may.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens < float64(n) {
		return false
	}
	rl.tokens -= float64(n)
	return true
}

// Wait blocks until one token is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.WaitN(ctx, 1)
}

// WaitN blocks until n tokens are available, the wait cap elapses, or
// ctx is cancelled. A capped wait that still finds no tokens returns
// ErrRateLimitExceeded.
func (rl *RateLimiter) WaitN(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.AllowN(n) {
		return nil
	}

	rl.mu.Lock()
	deficit := float64(n) - rl.tokens
	wait := time.Duration(deficit / rl.config.Rate * float64(time.Second))
	rl.mu.Unlock()

	if wait > rl.config.MaxWait {
		wait = rl.config.MaxWait
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		if rl.AllowN(n) {
			return nil
		}
		return ErrRateLimitExceeded
	}
}

// Execute runs op when the budget admits it. With WaitOnLimit the call
// waits for a token; otherwise it fails fast with ErrRateLimitExceeded.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.Allow() {
		return ErrRateLimitExceeded
	}
	return op(ctx)
}

// Tokens returns the current token count after refill.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket to capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Burst)
	rl.refillAt = time.Now()
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.refillAt)
	rl.refillAt = now

	rl.tokens += elapsed.Seconds() * rl.config.Rate
	if limit := float64(rl.config.Burst); rl.tokens > limit {
		rl.tokens = limit
	}
}
