package adapter

import (
	"context"
	"time"

	"github.com/genforge/svcruntime/health"
)

// HealthCheck probes the adapter. When the operation supplies health
// check parameters the full pipeline is executed end-to-end; otherwise
// the adapter reports healthy without executing anything.
func (a *Adapter) HealthCheck(ctx context.Context) health.Result {
	hc, ok := a.op.(HealthCheckable)
	if !ok {
		return health.Healthy("no health check parameters configured")
	}
	raw, ok := hc.HealthCheckParams()
	if !ok {
		return health.Healthy("no health check parameters configured")
	}

	start := time.Now()
	_, err := a.Execute(ctx, raw, Invocation{})
	elapsed := time.Since(start)

	if err != nil {
		return health.Unhealthy("health check execution failed", err).
			WithDuration(elapsed)
	}
	return health.Healthy("health check execution succeeded").
		WithDuration(elapsed)
}

// Checker exposes the adapter as a health checker named after it.
func (a *Adapter) Checker() health.Checker {
	return health.NewCheckerFunc(a.config.Name, a.HealthCheck)
}
