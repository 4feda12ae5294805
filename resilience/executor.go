package resilience

import (
	"context"
	"time"
)

// Executor chains the configured patterns around one operation. From the
// outside in: rate limiter, bulkhead, circuit breaker, retry, timeout.
// That order keeps rejected calls from burning retry budget, and the
// breaker sees one request per caller invocation no matter how many
// retry attempts run inside it.
type Executor struct {
	rateLimiter *RateLimiter
	bulkhead    *Bulkhead
	breaker     *CircuitBreaker
	retry       *Retry
	timeout     *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor composes the given patterns. An executor with no options
// runs operations directly.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker places cb around retry and timeout.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.breaker = cb }
}

// WithRetry places r around the timeout.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) { e.retry = r }
}

// WithRateLimiter places rl at the outermost position.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.rateLimiter = rl }
}

// WithBulkhead places b inside the rate limiter.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithTimeout bounds each individual attempt.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout}) }
}

// WithTimeoutConfig installs a pre-built timeout wrapper.
func WithTimeoutConfig(t *Timeout) ExecutorOption {
	return func(e *Executor) { e.timeout = t }
}

// wrapper is the Execute shape every pattern shares.
type wrapper interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// Execute runs op through every configured pattern.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	chain := op
	wrap := func(w wrapper) {
		inner := chain
		chain = func(ctx context.Context) error {
			return w.Execute(ctx, inner)
		}
	}

	// Innermost first; each configured pattern wraps the chain so far.
	if e.timeout != nil {
		wrap(e.timeout)
	}
	if e.retry != nil {
		wrap(e.retry)
	}
	if e.breaker != nil {
		wrap(e.breaker)
	}
	if e.bulkhead != nil {
		wrap(e.bulkhead)
	}
	if e.rateLimiter != nil {
		wrap(e.rateLimiter)
	}
	return chain(ctx)
}
