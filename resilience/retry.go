package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// BackoffStrategy selects how retry delays grow.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay by Multiplier per attempt.
	BackoffExponential BackoffStrategy = iota
	// BackoffLinear grows the delay by InitialDelay per attempt.
	BackoffLinear
	// BackoffConstant keeps InitialDelay for every attempt.
	BackoffConstant
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts counts the initial attempt. Default: 3
	MaxAttempts int

	// InitialDelay precedes the first retry. Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries. Default: 30s
	MaxDelay time.Duration

	// Multiplier drives exponential backoff. Default: 2.0
	Multiplier float64

	// Strategy picks the backoff curve. Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter randomizes delays so synchronized callers spread out.
	// Default: true
	Jitter bool

	// RetryIf gates which errors are retried. Default: every non-nil
	// error.
	RetryIf func(err error) bool

	// OnRetry runs before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry re-runs failing operations on a backoff schedule.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a retry handler with defaults applied.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs op until it succeeds, exhausts MaxAttempts, hits a
// non-retryable error, or ctx is cancelled during a delay. The last
// operation error is returned on exhaustion.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	schedule := r.newSchedule()

	attempt := 0
	for {
		attempt++

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !r.config.RetryIf(err) || attempt >= r.config.MaxAttempts {
			return err
		}

		delay := schedule(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// newSchedule returns the per-attempt delay function for one execution.
// The exponential schedule is driven by cenkalti/backoff; linear and
// constant schedules are computed directly.
func (r *Retry) newSchedule() func(attempt int) time.Duration {
	switch r.config.Strategy {
	case BackoffConstant:
		return func(int) time.Duration { return r.config.InitialDelay }

	case BackoffLinear:
		return func(attempt int) time.Duration {
			delay := r.config.InitialDelay * time.Duration(attempt)
			return min(delay, r.config.MaxDelay)
		}

	default: // BackoffExponential
		eb := &backoff.ExponentialBackOff{
			InitialInterval:     r.config.InitialDelay,
			Multiplier:          r.config.Multiplier,
			MaxInterval:         r.config.MaxDelay,
			RandomizationFactor: 0,
		}
		if r.config.Jitter {
			// Up to 25% variance to prevent thundering herd.
			eb.RandomizationFactor = 0.25
		}
		eb.Reset()

		return func(int) time.Duration {
			return eb.NextBackOff()
		}
	}
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
