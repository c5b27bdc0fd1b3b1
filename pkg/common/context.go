package common

import "context"

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyOwnerID   ContextKey = "owner_id"
	ContextKeyPlan      ContextKey = "plan"
	ContextKeyRequestID ContextKey = "request_id"
)

// WithOwnerID adds the authenticated owner identity to context
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ContextKeyOwnerID, ownerID)
}

// GetOwnerID extracts the owner identity from context
func GetOwnerID(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(ContextKeyOwnerID).(string)
	return ownerID, ok && ownerID != ""
}

// WithPlan adds the owner's plan identifier to context
func WithPlan(ctx context.Context, plan string) context.Context {
	return context.WithValue(ctx, ContextKeyPlan, plan)
}

// GetPlan extracts the plan identifier from context
func GetPlan(ctx context.Context) (string, bool) {
	plan, ok := ctx.Value(ContextKeyPlan).(string)
	return plan, ok && plan != ""
}
