package fault

import (
	"context"
	"errors"
	"strings"

	"github.com/genforge/svcruntime/resilience"
)

// Classify turns an arbitrary failure into an *Error. An error already
// carrying an *Error keeps its category, severity, tool, and operation
// unchanged; the envelope is returned as a copy so boundary code can
// attach a request id or rewrite the message without editing the
// caller's value in place. Typed matches are checked first; the keyword
// classifier is the fallback for errors crossing an opaque boundary.
func Classify(err error, tool, operation string) *Error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return fe.clone()
	}

	category := classifyTyped(err)
	if category == "" {
		category = classifyKeywords(err.Error())
	}

	out := New(category, err.Error(), tool, operation)
	out.cause = err
	return out
}

// classifyTyped matches well-known error values. Returns "" when no
// typed signal is present.
func classifyTyped(err error) Category {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, resilience.ErrTimeout):
		return CategoryPerformance
	case errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, ErrServiceUnavailable):
		return CategoryExternal
	case errors.Is(err, resilience.ErrRateLimitExceeded),
		errors.Is(err, resilience.ErrBulkheadFull):
		return CategoryRateLimit
	default:
		return ""
	}
}

// keywordRule associates message fragments with a category. Rules are
// evaluated in order; the first match wins.
type keywordRule struct {
	category Category
	keywords []string
}

var keywordRules = []keywordRule{
	{CategoryValidation, []string{"validation", "invalid input", "invalid parameter", "required field", "must be"}},
	{CategoryPerformance, []string{"timeout", "timed out", "deadline exceeded", "too slow"}},
	{CategoryExternal, []string{"connection refused", "connection reset", "no such host", "network", "unreachable", "service unavailable", "bad gateway"}},
	{CategoryRateLimit, []string{"rate limit", "too many requests", "quota exceeded", "throttled"}},
	{CategoryAuthorization, []string{"access denied", "permission denied", "unauthorized", "forbidden"}},
	{CategoryResource, []string{"not found", "no such file", "file does not exist", "directory", "resource exhausted"}},
	{CategorySystem, []string{"out of memory", "cannot allocate", "panic", "system error", "disk full"}},
}

// classifyKeywords inspects the message text in priority order.
func classifyKeywords(msg string) Category {
	msg = strings.ToLower(msg)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(msg, kw) {
				return rule.category
			}
		}
	}
	return CategoryExecution
}
