package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	tenantIDKey
	userIDKey
)

// WithRequestID stamps the request ID onto the context so lower layers
// (repositories, the SQL logger) can correlate their log lines.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithActor records the authenticated tenant and user on the context.
func WithActor(ctx context.Context, tenantID, userID string) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return context.WithValue(ctx, userIDKey, userID)
}

func GetRequestID(ctx context.Context) string { return ctxString(ctx, requestIDKey) }
func GetTenantID(ctx context.Context) string  { return ctxString(ctx, tenantIDKey) }
func GetUserID(ctx context.Context) string    { return ctxString(ctx, userIDKey) }

func ctxString(ctx context.Context, key ctxKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// Fields collects whatever correlation IDs the context carries as zap
// fields, skipping the ones that are not set.
func Fields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetTenantID(ctx); id != "" {
		fields = append(fields, zap.String("tenant_id", id))
	}
	if id := GetUserID(ctx); id != "" {
		fields = append(fields, zap.String("user_id", id))
	}
	return fields
}
