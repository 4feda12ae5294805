package fault

import "strings"

const (
	// maxContextValueBytes bounds string values attached to an error context.
	maxContextValueBytes = 512
	// maxContextEntries bounds the number of context entries retained.
	maxContextEntries = 32
)

// redactedContextKeys are key fragments whose values are never surfaced.
var redactedContextKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"credential",
	"authorization",
	"private_key",
}

// sanitizeContext copies ctx with secret-like keys redacted and oversized
// string values truncated. The input map is never mutated.
func sanitizeContext(ctx map[string]any) map[string]any {
	if len(ctx) == 0 {
		return nil
	}

	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		if len(out) >= maxContextEntries {
			break
		}
		if isSecretKey(k) {
			out[k] = "[REDACTED]"
			continue
		}
		if s, ok := v.(string); ok && len(s) > maxContextValueBytes {
			out[k] = s[:maxContextValueBytes] + "...[truncated]"
			continue
		}
		out[k] = v
	}
	return out
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	for _, fragment := range redactedContextKeys {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
