// Package correlation carries request-scoped identifiers through contexts
// so that logs for one checkout or one gateway callback can be joined.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header for correlation ID.
const HeaderName = "X-Correlation-ID"

// KafkaHeaderName is the Kafka header for correlation ID.
const KafkaHeaderName = "X-Correlation-ID"

type contextKey struct{}

type orderKey struct{}

// FromContext extracts correlation ID from context.
// Returns empty string if not present.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// WithID returns a new context with correlation ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// NewID generates a new correlation ID (UUID v4).
func NewID() string {
	return uuid.New().String()
}

// WithOrderID tags the context with the merchant transaction reference
// being worked on.
func WithOrderID(ctx context.Context, orderID string) context.Context {
	if orderID == "" {
		return ctx
	}
	return context.WithValue(ctx, orderKey{}, orderID)
}

// OrderIDFromContext returns the order tag, or "" if none.
func OrderIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(orderKey{}).(string); ok {
		return id
	}
	return ""
}
