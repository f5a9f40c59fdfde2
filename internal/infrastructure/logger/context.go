package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

// RequestIDKey carries the request id on a context.Context so that code
// below the HTTP layer, the GORM logger in particular, can correlate its
// output with the request log line.
const RequestIDKey contextKey = "request_id"

// ContextWithRequestID stamps the request id onto ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID returns the request id stamped by ContextWithRequestID, or
// the empty string.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithTraceContext attaches trace_id and span_id fields from the active
// span, when one exists, so log lines join up with traces.
func WithTraceContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
