// Package health reports component health for the runtime: the cache
// manager, every service adapter, and process memory each expose a
// Checker; the Aggregator fans the checks out and folds their results
// into one overall status, served over HTTP for probes and operators.
//
// # Checkers
//
// A Checker names itself and returns a Result with a three-valued
// Status (healthy, degraded, unhealthy). Components either implement
// Checker directly or wrap a method with NewCheckerFunc:
//
//	agg := health.NewAggregator()
//	agg.Register("cache", manager.Checker())
//	agg.Register("analyzer", analyzerAdapter.Checker())
//	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP surface
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg) // /healthz, /readyz, /health
package health
