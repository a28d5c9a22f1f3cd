// Package tracing wraps the otel tracer used across corpmatch's HTTP,
// dedup, and Kafka-consumer boundaries.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer sets the tracer used by StartSpan. Called once at startup from
// cmd/corpmatchd; if never called, StartSpan is a no-op.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a new span named spanName, or returns ctx unchanged if no
// tracer has been configured.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}

// GetTraceID returns the hex-encoded trace ID of the span carried by ctx,
// or "" if ctx carries no valid span context.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
