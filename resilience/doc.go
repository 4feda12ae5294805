// Package resilience implements the failure-isolation patterns the
// service adapters execute through: circuit breaker, retry with backoff,
// rate limiter, bulkhead, and timeout.
//
// Patterns compose through an Executor, which layers them around an
// operation as rate limiter, bulkhead, circuit breaker, retry, timeout
// (outermost to innermost):
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: time.Minute,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 100 * time.Millisecond,
//	    })),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return callBackend(ctx)
//	})
//
// Breakers shared across adapters live in a Registry keyed by service
// name, so every caller of one backend sees the same breaker state.
// Each pattern also works standalone through its own Execute method.
package resilience
