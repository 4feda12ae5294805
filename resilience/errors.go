package resilience

import "errors"

// Sentinel errors surfaced by the resilience patterns. They are the
// typed signals error classification matches on, so their identity is
// part of the package contract.
var (
	// ErrCircuitOpen rejects calls while a breaker is open.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrMaxRetriesExceeded reports an exhausted retry budget when the
	// last attempt produced no error of its own.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

	// ErrRateLimitExceeded rejects calls over the token budget.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull rejects calls when all concurrency slots are taken.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout reports an operation that outlived its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")
)
