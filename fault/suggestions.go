package fault

// suggestionsFor returns caller-safe remediation hints for a category.
func suggestionsFor(category Category) []string {
	switch category {
	case CategoryValidation:
		return []string{
			"Check the input parameters against the operation's documented schema",
			"Ensure required fields are present and correctly typed",
		}
	case CategoryPerformance:
		return []string{
			"Retry the operation; it may succeed when the system is less loaded",
			"Consider raising the operation timeout for large inputs",
		}
	case CategoryExternal:
		return []string{
			"The downstream service is unavailable; retry after a short delay",
			"Check connectivity to the dependent service",
		}
	case CategoryRateLimit:
		return []string{
			"Reduce the request rate and retry after the limit window resets",
		}
	case CategoryAuthorization:
		return []string{
			"Verify the credentials and permissions for this operation",
		}
	case CategoryResource:
		return []string{
			"Verify the referenced file or resource exists and is readable",
		}
	case CategorySystem:
		return []string{
			"The process is unhealthy; check memory and disk availability",
			"Restart may be required if the condition persists",
		}
	default:
		return []string{
			"Retry the operation; contact support if the failure persists",
		}
	}
}
