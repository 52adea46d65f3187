package common

import "context"

// correlationIDKey is the context key for the per-request correlation ID.
type correlationIDKey struct{}

// WithCorrelationID returns a new context carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts the correlation ID from ctx, or "" when absent.
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// ForContext returns l tagged with the correlation ID carried by ctx.
// Without one, l is returned unchanged.
func (l *Logger) ForContext(ctx context.Context) *Logger {
	if id := GetCorrelationID(ctx); id != "" {
		return l.WithCorrelationId(id)
	}
	return l
}
