// Package command defines the canvas command envelope, the executor's
// wire reply and the uniform result every invocation resolves to.
package command

import "github.com/google/uuid"

// Envelope is one canvas command in flight: a correlation id, the
// operation routing pair and the canonical parameters. An envelope is
// treated as immutable once built and is discarded after its reply, or
// the decision that none is coming, has been resolved.
type Envelope struct {
	ID         string         `json:"id"`
	Category   string         `json:"category"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters"`
}

// NewEnvelope wraps canonical parameters in an envelope carrying a
// fresh correlation id. Ids come from a collision resistant random
// source and are never reused within a process, so a stale reply can
// never be attributed to a newer command.
func NewEnvelope(category, operation string, params map[string]any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Category:   category,
		Operation:  operation,
		Parameters: params,
	}
}
