package adapter

import (
	"github.com/google/uuid"
)

// Invocation carries the per-call identifiers and caller-supplied fields.
// Missing identifiers are generated before the invocation is logged.
type Invocation struct {
	RequestID string
	SessionID string
	TraceID   string

	// Fields are arbitrary caller-supplied values passed through to the
	// operation.
	Fields map[string]any
}

// complete fills in any missing identifiers.
func (inv Invocation) complete() Invocation {
	if inv.RequestID == "" {
		inv.RequestID = uuid.NewString()
	}
	if inv.SessionID == "" {
		inv.SessionID = uuid.NewString()
	}
	if inv.TraceID == "" {
		inv.TraceID = uuid.NewString()
	}
	return inv
}
