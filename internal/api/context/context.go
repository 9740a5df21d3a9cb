package context

import (
	"context"
)

type tabIDKey struct{}

// Manager carries the tab identifier of a request through its context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetTabIDToContext returns a copy of ctx carrying tabID.
func (m *Manager) SetTabIDToContext(ctx context.Context, tabID string) context.Context {
	return context.WithValue(ctx, tabIDKey{}, tabID)
}

// GetTabIDFromContext returns the tab identifier and whether a non-empty one was set.
func (m *Manager) GetTabIDFromContext(ctx context.Context) (string, bool) {
	tabID, ok := ctx.Value(tabIDKey{}).(string)
	if !ok || tabID == "" {
		return "", false
	}
	return tabID, true
}
