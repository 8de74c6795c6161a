package contextutil

import (
	"context"
)

// contextKey is private so keys cannot collide with other libraries
type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request id in the context
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetRequestID reads the request id back; empty string when absent
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}
