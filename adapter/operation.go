package adapter

import (
	"context"
	"time"

	"github.com/genforge/svcruntime/cache"
)

// Operation is the narrow per-operation interface a concrete backend
// operation implements to run through the shared caching/resilience
// pipeline. Operations own all domain logic and perform no caching or
// retrying of their own.
type Operation interface {
	// ValidateInput checks raw caller input and returns the typed input.
	// A validation failure surfaces to the caller immediately, bypassing
	// cache and circuit logic entirely.
	ValidateInput(raw any) (any, error)

	// CacheKey derives the deterministic cache key for the typed input.
	CacheKey(input any) (string, error)

	// TTL returns the cache lifetime for results. 0 selects the layer
	// default; cache.NoExpiry disables expiry.
	TTL() time.Duration

	// Execute runs the core computation.
	Execute(ctx context.Context, input any, inv Invocation) (any, error)

	// TransformOutput shapes the raw core output into the caller-facing
	// result.
	TransformOutput(raw any) (any, error)
}

var defaultKeyer = cache.NewDefaultKeyer()

// DeriveCacheKey produces a deterministic cache key for a tool input
// using the canonical-JSON keyer. Operations without a bespoke key
// format implement CacheKey with it directly.
func DeriveCacheKey(tool string, input any) (string, error) {
	return defaultKeyer.Key(tool, input)
}

// SimplifiedOperation is implemented by operations that can produce a
// cheaper approximation when the primary path fails.
type SimplifiedOperation interface {
	ExecuteSimplified(ctx context.Context, input any) (any, error)
}

// PartialOperation is implemented by operations that can produce a
// best-effort subset of the full result.
type PartialOperation interface {
	ExecutePartial(ctx context.Context, input any) (any, error)
}

// DefaultProvider is implemented by operations that have a static or
// input-derived default result.
type DefaultProvider interface {
	DefaultResult(input any) (any, error)
}

// HealthCheckable is implemented by operations that supply parameters for
// an end-to-end health check execution.
type HealthCheckable interface {
	HealthCheckParams() (raw any, ok bool)
}
