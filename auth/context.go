package auth

import "context"

type contextKey int

const managerKey contextKey = iota

// NewContext returns ctx carrying m as the active session scope.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey, m)
}

// FromContext returns the Manager of the active session scope. Calling it
// outside one is a programming error: it panics immediately rather than
// handing back a degraded default.
func FromContext(ctx context.Context) *Manager {
	m, ok := ctx.Value(managerKey).(*Manager)
	if !ok {
		panic("auth: FromContext called outside an active session scope")
	}
	return m
}
