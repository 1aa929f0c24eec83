package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with query-parsing span creation
// methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}

// StartParse starts a span for parsing a query string.
func (t *Tracer) StartParse(ctx context.Context, queryLength int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "queryfilter.parse", trace.WithAttributes(
		OperationAttr(OpParse),
		QueryLengthAttr(queryLength),
	))
}

// SetPredicateCount sets the parsed predicate count on the current span.
func (t *Tracer) SetPredicateCount(ctx context.Context, count int) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(PredicateCountAttr(count))
}

// SetCacheHit marks the current span as served from the parse cache.
func (t *Tracer) SetCacheHit(ctx context.Context) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(CacheHitAttr(true))
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
