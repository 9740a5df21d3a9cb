package model

import "context"

// ContextManager carries the tab identifier through request contexts.
type ContextManager interface {
	SetTabIDToContext(ctx context.Context, tabID string) context.Context
	GetTabIDFromContext(ctx context.Context) (string, bool)
}
