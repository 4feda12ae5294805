package fault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genforge/svcruntime/observe"
	"github.com/genforge/svcruntime/resilience"
)

// Config configures a Handler.
type Config struct {
	// CircuitBreaker is applied to every breaker the handler creates.
	CircuitBreaker resilience.CircuitBreakerConfig

	// Retry is the default retry policy for ExecuteWithRetry.
	Retry resilience.RetryConfig

	// Logger receives retry and breaker events. Default: noop.
	Logger observe.Logger
}

// Handler is the centralized error handler. It owns one circuit breaker
// per named service, executes retry-with-backoff, and turns arbitrary
// failures into the standardized envelope. Handlers are explicitly
// constructed and injected; tests build isolated instances.
type Handler struct {
	registry *resilience.Registry
	retry    resilience.RetryConfig
	logger   observe.Logger
}

// NewHandler creates a handler with the given configuration.
func NewHandler(config Config) *Handler {
	logger := config.Logger
	if logger == nil {
		logger = observe.NopLogger()
	}

	return &Handler{
		registry: resilience.NewRegistry(config.CircuitBreaker),
		retry:    config.Retry,
		logger:   logger,
	}
}

// HandleError classifies err and wraps it in the standardized response.
// The request id is attached to the envelope when non-empty.
func (h *Handler) HandleError(err error, tool, operation, requestID string) Response {
	fe := Classify(err, tool, operation)
	if requestID != "" {
		fe.RequestID = requestID
	}
	fe.Context = sanitizeContext(fe.Context)

	h.logger.Error(context.Background(), "operation failed",
		observe.Field{Key: "tool", Value: tool},
		observe.Field{Key: "operation", Value: operation},
		observe.Field{Key: "category", Value: string(fe.Category)},
		observe.Field{Key: "severity", Value: string(fe.Severity)},
		observe.Field{Key: "request_id", Value: requestID},
	)

	return Response{
		Success: false,
		Error:   fe,
		Metadata: ResponseMetadata{
			DegradationStrategy: fe.Category.Degradation(),
			Retryable:           fe.Category.Retryable(),
		},
	}
}

// ExecuteWithCircuitBreaker runs op through the named service's breaker.
// When the circuit is open the fallback is invoked if supplied, otherwise
// ErrServiceUnavailable is returned. Ordinary failures pass through after
// being counted against the breaker.
func (h *Handler) ExecuteWithCircuitBreaker(ctx context.Context, serviceName string, op func(context.Context) error, fallback func(context.Context) error) error {
	cb := h.registry.Breaker(serviceName)

	err := cb.Execute(ctx, op)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		if fallback != nil {
			h.logger.Warn(ctx, "circuit open, using fallback",
				observe.Field{Key: "service", Value: serviceName})
			return fallback(ctx)
		}
		return fmt.Errorf("%w: %s", ErrServiceUnavailable, serviceName)
	}
	return err
}

// ExecuteWithRetry runs op up to maxAttempts times. Failures whose
// category is not retryable (validation, authorization, system) propagate
// immediately; others retry with the handler's backoff policy.
func (h *Handler) ExecuteWithRetry(ctx context.Context, op func(context.Context) error, tool, operation string, maxAttempts int) error {
	cfg := h.retry
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	cfg.RetryIf = func(err error) bool {
		return Classify(err, tool, operation).Retryable()
	}
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		h.logger.Warn(ctx, "retrying operation",
			observe.Field{Key: "tool", Value: tool},
			observe.Field{Key: "operation", Value: operation},
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}

	return resilience.NewRetry(cfg).Execute(ctx, op)
}

// IsServiceAvailable reports whether the named service's circuit admits
// calls. A service with no breaker yet is available.
func (h *Handler) IsServiceAvailable(serviceName string) bool {
	return h.registry.IsAvailable(serviceName)
}

// ResetCircuitBreaker forces the named service's breaker back to closed.
func (h *Handler) ResetCircuitBreaker(serviceName string) {
	h.registry.Reset(serviceName)
}

// CircuitBreakerStates snapshots every known breaker, keyed by service.
func (h *Handler) CircuitBreakerStates() map[string]resilience.ServiceState {
	return h.registry.States()
}

// Registry exposes the breaker registry for composition with adapters.
func (h *Handler) Registry() *resilience.Registry {
	return h.registry
}

// RetryConfig returns the handler's default retry policy.
func (h *Handler) RetryConfig() resilience.RetryConfig {
	return h.retry
}
