package resilience

import (
	"sync"
	"time"
)

// ServiceState is a point-in-time snapshot of one service's circuit breaker.
type ServiceState struct {
	ServiceName         string
	State               State
	ConsecutiveFailures int
	LastFailureTime     time.Time
	HalfOpenProbesUsed  int
}

// Registry holds one circuit breaker per named service, created lazily on
// first use. All callers sharing a service name share its open/closed fate.
// The registry is explicitly constructed and injected, never ambient.
type Registry struct {
	config CircuitBreakerConfig

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewRegistry creates a registry whose breakers all use config.
func NewRegistry(config CircuitBreakerConfig) *Registry {
	return &Registry{
		config:   config,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Breaker returns the circuit breaker for serviceName, creating it on
// first use.
func (r *Registry) Breaker(serviceName string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[serviceName]
	if !ok {
		cb = NewCircuitBreaker(r.config)
		r.breakers[serviceName] = cb
	}
	return cb
}

// IsAvailable reports whether calls to serviceName would currently be
// admitted. A service with no breaker yet is available.
func (r *Registry) IsAvailable(serviceName string) bool {
	r.mu.Lock()
	cb, ok := r.breakers[serviceName]
	r.mu.Unlock()

	if !ok {
		return true
	}
	return cb.State() != StateOpen
}

// Reset forces the named service's breaker back to closed. Creating the
// breaker is not needed; resetting an unknown service is a no-op.
func (r *Registry) Reset(serviceName string) {
	r.mu.Lock()
	cb, ok := r.breakers[serviceName]
	r.mu.Unlock()

	if ok {
		cb.Reset()
	}
}

// States snapshots every known breaker, keyed by service name.
func (r *Registry) States() map[string]ServiceState {
	r.mu.Lock()
	breakers := make(map[string]*CircuitBreaker, len(r.breakers))
	for name, cb := range r.breakers {
		breakers[name] = cb
	}
	r.mu.Unlock()

	states := make(map[string]ServiceState, len(breakers))
	for name, cb := range breakers {
		m := cb.Metrics()
		states[name] = ServiceState{
			ServiceName:         name,
			State:               m.State,
			ConsecutiveFailures: m.Failures,
			LastFailureTime:     m.LastFailure,
			HalfOpenProbesUsed:  m.HalfOpenProbes,
		}
	}
	return states
}
