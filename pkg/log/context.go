package log

import "context"

type ctxKey string

// TraceIDKey carries the inbound request id so every log line of a turn can be correlated.
const TraceIDKey ctxKey = "trace_id"

// WithTraceID returns a copy of ctx tagged with traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}
