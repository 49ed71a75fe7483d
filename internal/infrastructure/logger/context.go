package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

// RequestIDKey carries the request id through context.Context so layers
// below the HTTP stack, like the GORM trace hook, can correlate their log
// lines with the request.
const RequestIDKey contextKey = "request_id"

// ContextWithRequestID stores the request id in ctx.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID reads the request id from ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID stores the request id in ctx and returns a logger tagged
// with it.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return ContextWithRequestID(ctx, requestID), log.With(zap.String("request_id", requestID))
}
