// Package correlation threads a per-orchestration id through context so every
// log line of one call can be tied back together. The id lives only in derived
// contexts: the caller's context is never mutated, so whatever ambient value the
// caller had is intact once the call returns.
package correlation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type ctxKey struct{}

// New mints a correlation id for one orchestration call.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// With returns a child context carrying the correlation id.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the current correlation id, or "" when none is set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
