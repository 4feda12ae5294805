package adapter

import "time"

// FallbackStrategy names the degraded path tried when the primary
// operation cannot complete.
type FallbackStrategy string

const (
	// FallbackCache serves a previously cached value, even a stale one.
	FallbackCache FallbackStrategy = "cache"
	// FallbackSimplified runs the operation's cheaper approximation.
	FallbackSimplified FallbackStrategy = "simplified"
	// FallbackPartial runs the operation's best-effort subset.
	FallbackPartial FallbackStrategy = "partial"
	// FallbackDefault returns the operation's default result.
	FallbackDefault FallbackStrategy = "default"
	// FallbackFail makes no fallback attempt.
	FallbackFail FallbackStrategy = "fail"
)

// fallbackOrder is the order remaining strategies are tried after the
// configured preference.
var fallbackOrder = []FallbackStrategy{
	FallbackCache,
	FallbackSimplified,
	FallbackPartial,
	FallbackDefault,
}

// Config configures one adapter instance.
type Config struct {
	// Name identifies the adapter. It is the circuit breaker service name
	// and the default cache layer.
	Name string

	// CacheLayer is the cache layer results are stored in.
	// Default: Name.
	CacheLayer string

	// EnableFallback turns the degraded fallback chain on.
	EnableFallback bool

	// FallbackStrategy is the preferred strategy, tried first.
	// Default: FallbackCache.
	FallbackStrategy FallbackStrategy

	// MaxRetries is the number of retries after the first attempt.
	// Default: 2.
	MaxRetries int

	// RetryDelay is the delay before the first retry.
	// Default: 100ms.
	RetryDelay time.Duration

	// BackoffMultiplier grows the delay each retry.
	// Default: 2.0.
	BackoffMultiplier float64

	// MaxRetryDelay caps the delay between retries.
	// Default: 5s.
	MaxRetryDelay time.Duration

	// OperationTimeout bounds one core invocation.
	// Default: 30s.
	OperationTimeout time.Duration

	// MaxConcurrent bounds in-flight core invocations when positive.
	// Default: 0 (unbounded).
	MaxConcurrent int

	// RateLimit is the sustained invocations-per-second budget when
	// positive. Default: 0 (unlimited).
	RateLimit float64

	// RateBurst is the token bucket burst size when rate limiting is on.
	// Default: 1.
	RateBurst int
}

// withDefaults returns config with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.CacheLayer == "" {
		c.CacheLayer = c.Name
	}
	if c.FallbackStrategy == "" {
		c.FallbackStrategy = FallbackCache
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 100 * time.Millisecond
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = 2.0
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = 5 * time.Second
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 30 * time.Second
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	return c
}
