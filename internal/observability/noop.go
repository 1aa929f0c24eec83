package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer:      tracenoop.NewTracerProvider().Tracer(""),
		serviceName: "",
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// Note: noop meter never returns errors, but we must check them to satisfy the linter.
	m.parseDuration, _ = meter.Float64Histogram("queryfilter.parse.duration")           //nolint:errcheck
	m.parseCount, _ = meter.Int64Counter("queryfilter.parse.count")                     //nolint:errcheck
	m.errorCount, _ = meter.Int64Counter("queryfilter.parse.error.count")               //nolint:errcheck
	m.cacheHitCount, _ = meter.Int64Counter("queryfilter.cache.hit.count")              //nolint:errcheck
	m.predicateCount, _ = meter.Int64Histogram("queryfilter.parse.predicate.count")     //nolint:errcheck

	return m
}
