package fault

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for fault operations.
var (
	// ErrServiceUnavailable is returned when a circuit is open and no
	// fallback was supplied.
	ErrServiceUnavailable = errors.New("fault: service unavailable")
)

// Error is the standardized error envelope surfaced to callers. It is
// built once per failure at the boundary; context values are sanitized
// before they are attached.
type Error struct {
	Code        string
	Message     string
	Category    Category
	Severity    Severity
	Tool        string
	Operation   string
	Timestamp   time.Time
	RequestID   string
	Suggestions []string
	Context     map[string]any

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("%s: %s (tool=%s, operation=%s)", e.Code, e.Message, e.Tool, e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the error's category may be retried.
func (e *Error) Retryable() bool {
	return e.Category.Retryable()
}

// WithContext attaches a sanitized copy of ctx to the error and returns it.
func (e *Error) WithContext(ctx map[string]any) *Error {
	e.Context = sanitizeContext(ctx)
	return e
}

// clone returns a copy of e whose cause chain still reaches e. Callers
// may edit the copy's Message, RequestID, or Context without touching
// the original envelope.
func (e *Error) clone() *Error {
	cp := *e
	cp.cause = e
	return &cp
}

// New builds an Error for the given category with defaults derived from it.
func New(category Category, message, tool, operation string) *Error {
	return &Error{
		Code:        category.Code(),
		Message:     message,
		Category:    category,
		Severity:    category.Severity(),
		Tool:        tool,
		Operation:   operation,
		Timestamp:   time.Now(),
		Suggestions: suggestionsFor(category),
	}
}

// Response is the standardized failure response produced by the handler.
type Response struct {
	Success  bool
	Error    *Error
	Metadata ResponseMetadata
}

// ResponseMetadata carries the recovery hints alongside the error.
type ResponseMetadata struct {
	DegradationStrategy DegradationStrategy
	Retryable           bool
}
