// Package reqcontext carries per-request metadata (currently just the
// request ID) through context.Context, for logging and error responses.
package reqcontext

import "context"

type contextKey string

var requestIDKey = contextKey("X-Request-Id")

// SetRequestID returns a copy of ctx carrying requestID.
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID carried by ctx, or "" if none.
func GetRequestID(ctx context.Context) string {
	value, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return ""
	}
	return value
}
