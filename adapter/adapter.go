package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genforge/svcruntime/cache"
	"github.com/genforge/svcruntime/fault"
	"github.com/genforge/svcruntime/observe"
	"github.com/genforge/svcruntime/resilience"
)

// Sentinel errors for adapter operations.
var (
	// ErrNilOperation is returned by New when no operation is supplied.
	ErrNilOperation = errors.New("adapter: operation is nil")

	// ErrMissingName is returned by New when the config has no name.
	ErrMissingName = errors.New("adapter: config name is required")

	// ErrNoFallback is reported when the fallback chain made no attempt.
	ErrNoFallback = errors.New("adapter: no fallback available")
)

// Deps are the shared collaborators an adapter composes. The cache
// manager and error handler are owned by the process composition root
// and shared across adapters.
type Deps struct {
	Cache    *cache.Manager
	Handler  *fault.Handler
	Recorder observe.Recorder
}

// Adapter exposes one backend operation through the shared caching and
// resilience pipeline: validate, cache lookup, breaker-and-retry wrapped
// execution with timeout, transform, best-effort cache store, and the
// configured fallback chain on failure.
//
// Contract:
// - Concurrency: safe for concurrent use; invocations are independent.
// - Errors: callers observe either a result (possibly cached, degraded,
//   or partial) or a single *fault.Error; internal cache and logging
//   faults are absorbed.
type Adapter struct {
	op       Operation
	config   Config
	cache    *cache.Manager
	handler  *fault.Handler
	recorder observe.Recorder
	executor *resilience.Executor
}

// New creates an adapter for op. The breaker registered under the
// config name is shared with every other caller using that name.
func New(op Operation, config Config, deps Deps) (*Adapter, error) {
	if op == nil {
		return nil, ErrNilOperation
	}
	if config.Name == "" {
		return nil, ErrMissingName
	}
	if deps.Cache == nil || deps.Handler == nil {
		return nil, errors.New("adapter: cache manager and error handler are required")
	}
	if deps.Recorder == nil {
		deps.Recorder = observe.NopRecorder()
	}

	config = config.withDefaults()

	a := &Adapter{
		op:       op,
		config:   config,
		cache:    deps.Cache,
		handler:  deps.Handler,
		recorder: deps.Recorder,
	}
	a.executor = a.buildExecutor()
	return a, nil
}

// buildExecutor wires the resilience chain for core invocations:
// rate limiter and bulkhead outermost, then the shared breaker, retry,
// and the per-invocation timeout innermost.
func (a *Adapter) buildExecutor() *resilience.Executor {
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  a.config.MaxRetries + 1,
		InitialDelay: a.config.RetryDelay,
		MaxDelay:     a.config.MaxRetryDelay,
		Multiplier:   a.config.BackoffMultiplier,
		RetryIf: func(err error) bool {
			return fault.Classify(err, a.config.Name, "execute").Retryable()
		},
	})

	opts := []resilience.ExecutorOption{
		resilience.WithCircuitBreaker(a.handler.Registry().Breaker(a.config.Name)),
		resilience.WithRetry(retry),
		resilience.WithTimeout(a.config.OperationTimeout),
	}
	if a.config.MaxConcurrent > 0 {
		opts = append(opts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: a.config.MaxConcurrent,
		})))
	}
	if a.config.RateLimit > 0 {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:  a.config.RateLimit,
			Burst: a.config.RateBurst,
		})))
	}
	return resilience.NewExecutor(opts...)
}

// Name returns the adapter's name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// CacheKey validates raw and returns the cache key the adapter would use.
func (a *Adapter) CacheKey(raw any) (string, error) {
	input, err := a.op.ValidateInput(raw)
	if err != nil {
		return "", a.validationError(err, "")
	}
	return a.op.CacheKey(input)
}

// TTL returns the operation's cache lifetime.
func (a *Adapter) TTL() time.Duration {
	return a.op.TTL()
}

// Execute runs one invocation through the full pipeline.
func (a *Adapter) Execute(ctx context.Context, raw any, inv Invocation) (any, error) {
	// Validation failures bypass cache and circuit logic entirely.
	input, err := a.op.ValidateInput(raw)
	if err != nil {
		return nil, a.validationError(err, inv.RequestID)
	}

	inv = inv.complete()
	call := a.call(inv)

	key, keyErr := a.op.CacheKey(input)

	ctx, exec := a.recorder.LogStart(ctx, call)

	// Cache lookup. A key derivation failure degrades to a miss.
	if keyErr == nil {
		if cached, ok := a.cache.Get(ctx, a.config.CacheLayer, key); ok {
			exec.CacheHit = true
			a.recorder.LogComplete(ctx, call, exec, observe.StatusCached)
			return cached, nil
		}
	} else {
		a.recorder.LogWarning(ctx, call, "cache key derivation failed", keyErr.Error())
	}

	result, primaryErr := a.runPrimary(ctx, input, inv, exec)
	if primaryErr == nil {
		if keyErr == nil {
			a.cache.Set(ctx, a.config.CacheLayer, key, result, a.op.TTL())
		}
		a.recorder.LogComplete(ctx, call, exec, observe.StatusSuccess)
		return result, nil
	}

	if !a.config.EnableFallback || a.config.FallbackStrategy == FallbackFail {
		fe := fault.Classify(primaryErr, a.config.Name, "execute")
		fe.RequestID = inv.RequestID
		a.recorder.LogError(ctx, call, exec, fe)
		return nil, fe
	}

	result, status, fallbackErr := a.runFallback(ctx, input, key, keyErr == nil)
	if fallbackErr == nil {
		a.recorder.LogWarning(ctx, call, "primary operation failed, fallback engaged",
			map[string]any{"strategy": string(status), "error": primaryErr.Error()})
		a.recorder.LogComplete(ctx, call, exec, status)
		return result, nil
	}

	combined := fmt.Errorf("primary operation failed: %w; fallback failed: %v", primaryErr, fallbackErr)
	fe := fault.Classify(primaryErr, a.config.Name, "execute")
	fe.Message = combined.Error()
	fe.RequestID = inv.RequestID
	a.recorder.LogError(ctx, call, exec, fe)
	return nil, fe
}

// runPrimary executes the core operation through the resilience chain
// and transforms its output.
func (a *Adapter) runPrimary(ctx context.Context, input any, inv Invocation, exec *observe.Execution) (any, error) {
	var raw any

	err := a.executor.Execute(ctx, func(ctx context.Context) error {
		out, err := a.op.Execute(ctx, input, inv)
		if err != nil {
			exec.ErrorCount++
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return a.op.TransformOutput(raw)
}

// runFallback tries the configured strategy first, then the remaining
// strategies in fixed order. The returned status is degraded, or partial
// when the partial strategy produced the result.
func (a *Adapter) runFallback(ctx context.Context, input any, key string, haveKey bool) (any, observe.Status, error) {
	tried := map[FallbackStrategy]bool{}
	order := append([]FallbackStrategy{a.config.FallbackStrategy}, fallbackOrder...)

	var lastErr error = ErrNoFallback
	for _, strategy := range order {
		if tried[strategy] || strategy == FallbackFail {
			continue
		}
		tried[strategy] = true

		result, status, err := a.tryStrategy(ctx, strategy, input, key, haveKey)
		if err == nil {
			return result, status, nil
		}
		if !errors.Is(err, errStrategyUnsupported) {
			lastErr = err
		}
	}
	return nil, observe.StatusFailed, lastErr
}

// errStrategyUnsupported marks a strategy the operation does not provide;
// it never replaces a real fallback failure.
var errStrategyUnsupported = errors.New("adapter: strategy unsupported")

func (a *Adapter) tryStrategy(ctx context.Context, strategy FallbackStrategy, input any, key string, haveKey bool) (any, observe.Status, error) {
	switch strategy {
	case FallbackCache:
		if !haveKey {
			return nil, observe.StatusFailed, errStrategyUnsupported
		}
		if stale, ok := a.cache.GetStale(ctx, a.config.CacheLayer, key); ok {
			return stale, observe.StatusDegraded, nil
		}
		return nil, observe.StatusFailed, errStrategyUnsupported

	case FallbackSimplified:
		if simplified, ok := a.op.(SimplifiedOperation); ok {
			result, err := simplified.ExecuteSimplified(ctx, input)
			if err != nil {
				return nil, observe.StatusFailed, err
			}
			return result, observe.StatusDegraded, nil
		}

	case FallbackPartial:
		if partial, ok := a.op.(PartialOperation); ok {
			result, err := partial.ExecutePartial(ctx, input)
			if err != nil {
				return nil, observe.StatusFailed, err
			}
			return result, observe.StatusPartial, nil
		}

	case FallbackDefault:
		if provider, ok := a.op.(DefaultProvider); ok {
			result, err := provider.DefaultResult(input)
			if err != nil {
				return nil, observe.StatusFailed, err
			}
			return result, observe.StatusDegraded, nil
		}
	}
	return nil, observe.StatusFailed, errStrategyUnsupported
}

// call builds the recorder call record for one invocation.
func (a *Adapter) call(inv Invocation) observe.Call {
	return observe.Call{
		Tool: observe.ToolMeta{
			Name:      a.config.Name,
			Operation: "execute",
		},
		RequestID: inv.RequestID,
		SessionID: inv.SessionID,
		TraceID:   inv.TraceID,
	}
}

// validationError wraps a validation failure in the standardized envelope.
func (a *Adapter) validationError(err error, requestID string) error {
	var fe *fault.Error
	if errors.As(err, &fe) {
		return fe
	}
	fe = fault.New(fault.CategoryValidation, err.Error(), a.config.Name, "validate")
	fe.RequestID = requestID
	return fe
}
