package fault

// Category classifies a failure into the fixed taxonomy.
type Category string

const (
	// CategoryValidation means the caller's input was rejected.
	CategoryValidation Category = "validation"
	// CategoryPerformance means the operation was too slow or timed out.
	CategoryPerformance Category = "performance"
	// CategoryExternal means a downstream dependency failed.
	CategoryExternal Category = "external"
	// CategoryRateLimit means a request budget was exceeded.
	CategoryRateLimit Category = "rate_limit"
	// CategoryAuthorization means access was denied.
	CategoryAuthorization Category = "authorization"
	// CategoryResource means a required resource was missing or exhausted.
	CategoryResource Category = "resource"
	// CategorySystem means the process itself is unhealthy.
	CategorySystem Category = "system"
	// CategoryExecution is the default for uncategorized failures.
	CategoryExecution Category = "execution"
)

// Severity grades how serious a failure is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// DegradationStrategy names the recommended recovery path for a failure.
type DegradationStrategy string

const (
	DegradeRetry    DegradationStrategy = "retry"
	DegradeCircuit  DegradationStrategy = "circuit"
	DegradeFallback DegradationStrategy = "fallback"
	DegradeFail     DegradationStrategy = "fail"
)

// categoryProfile is the fixed behavior attached to each category.
type categoryProfile struct {
	severity    Severity
	retryable   bool
	degradation DegradationStrategy
}

var categoryProfiles = map[Category]categoryProfile{
	CategoryValidation:    {SeverityMedium, false, DegradeFail},
	CategoryPerformance:   {SeverityHigh, true, DegradeRetry},
	CategoryExternal:      {SeverityHigh, true, DegradeCircuit},
	CategoryRateLimit:     {SeverityMedium, true, DegradeRetry},
	CategoryAuthorization: {SeverityHigh, false, DegradeFail},
	CategoryResource:      {SeverityMedium, true, DegradeFallback},
	CategorySystem:        {SeverityCritical, false, DegradeFail},
	CategoryExecution:     {SeverityMedium, true, DegradeRetry},
}

func (c Category) profile() categoryProfile {
	if p, ok := categoryProfiles[c]; ok {
		return p
	}
	return categoryProfiles[CategoryExecution]
}

// Severity returns the default severity for the category.
func (c Category) Severity() Severity {
	return c.profile().severity
}

// Retryable reports whether failures in this category may be retried.
// Validation and authorization failures are never retried.
func (c Category) Retryable() bool {
	return c.profile().retryable
}

// Degradation returns the recommended degradation strategy.
func (c Category) Degradation() DegradationStrategy {
	return c.profile().degradation
}

// Code returns the machine-readable error code for the category.
func (c Category) Code() string {
	switch c {
	case CategoryValidation:
		return "VALIDATION_ERROR"
	case CategoryPerformance:
		return "TIMEOUT_ERROR"
	case CategoryExternal:
		return "EXTERNAL_SERVICE_ERROR"
	case CategoryRateLimit:
		return "RATE_LIMIT_ERROR"
	case CategoryAuthorization:
		return "AUTHORIZATION_ERROR"
	case CategoryResource:
		return "RESOURCE_ERROR"
	case CategorySystem:
		return "SYSTEM_ERROR"
	default:
		return "EXECUTION_ERROR"
	}
}
