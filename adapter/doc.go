// Package adapter exposes heterogeneous backend operations as uniform
// service operations behind one shared caching and resilience pipeline.
//
// A concrete operation implements the narrow Operation interface
// (validate, cache key, TTL, execute, transform) and optionally the
// fallback extension points (simplified, partial, default result, health
// check parameters). The adapter composes the multi-layer cache manager,
// the centralized error handler's circuit breakers, retry with backoff,
// and a per-invocation timeout around it.
//
// # Pipeline
//
// Execute runs: validate (failures surface immediately) -> cache lookup
// (hits skip the core entirely) -> breaker and retry wrapped core with
// timeout -> transform -> best-effort cache store -> result. On an
// unrecoverable primary failure with fallback enabled, the configured
// strategy is tried first, then the remaining strategies in order cache,
// simplified, partial, default. A fallback result is reported with
// degraded (or partial) status; a fallback failure raises a combined
// error naming both causes.
//
// # Usage
//
//	mgr := cache.NewManager(cache.Options{})
//	handler := fault.NewHandler(fault.Config{})
//
//	a, err := adapter.New(op, adapter.Config{
//	    Name:             "analyzer",
//	    EnableFallback:   true,
//	    FallbackStrategy: adapter.FallbackCache,
//	    OperationTimeout: 10 * time.Second,
//	}, adapter.Deps{Cache: mgr, Handler: handler})
//	if err != nil {
//	    return err
//	}
//
//	result, err := a.Execute(ctx, params, adapter.Invocation{})
package adapter
