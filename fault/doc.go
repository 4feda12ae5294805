// Package fault is the centralized error handler: it classifies arbitrary
// failures into a fixed taxonomy, owns one circuit breaker per named
// service, executes retry-with-backoff, and emits a standardized error
// envelope with caller-safe suggestions and a sanitized context.
//
// # Taxonomy
//
// Failures are classified into one of eight categories: validation,
// performance, external, rate_limit, authorization, resource, system,
// and execution (the default). Each category carries a default severity,
// a retryability flag, and a recommended degradation strategy. Validation
// and authorization failures are never retried.
//
// # Classification
//
// Typed matches are checked first (resilience sentinels, context deadline
// errors); a keyword classifier inspects the message text only for errors
// crossing an opaque boundary. Errors already carrying a *fault.Error keep
// their category, severity, tool, and operation unchanged.
//
// # Usage
//
//	handler := fault.NewHandler(fault.Config{
//	    CircuitBreaker: resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    },
//	    Retry: resilience.RetryConfig{
//	        MaxAttempts:  3,
//	        InitialDelay: 100 * time.Millisecond,
//	    },
//	})
//
//	err := handler.ExecuteWithRetry(ctx, callBackend, "analyzer", "analyze", 3)
//	if err != nil {
//	    resp := handler.HandleError(err, "analyzer", "analyze", requestID)
//	    return resp
//	}
package fault
