package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	correlationIDCtxKey contextKey = iota
	ownerIDCtxKey
)

// Attribute keys shared by log records and metric tags.
const (
	CorrelationIDKey = "correlation_id"
	OwnerIDKey       = "owner_id"
)

// WithCorrelationID tags ctx with id, or with a fresh UUID when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationIDCtxKey, id)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDCtxKey).(string)
	return id
}

// WithOwnerID tags ctx with the owner whose routines are being handled.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDCtxKey, ownerID)
}

// OwnerIDFromContext returns the owner ID, or "".
func OwnerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ownerIDCtxKey).(string)
	return id
}
