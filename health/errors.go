package health

import "errors"

// Sentinel errors for health checks.
var (
	// ErrCheckFailed marks a check that ran and found its component bad.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that exceeded the aggregator deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned for an unregistered checker name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
