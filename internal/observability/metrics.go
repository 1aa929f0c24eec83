package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the query-parsing metric instruments.
type Metrics struct {
	parseDuration  metric.Float64Histogram
	parseCount     metric.Int64Counter
	errorCount     metric.Int64Counter
	cacheHitCount  metric.Int64Counter
	predicateCount metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.parseDuration, err = meter.Float64Histogram(
		"queryfilter.parse.duration",
		metric.WithDescription("Duration of query parses in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.parseDuration, _ = meter.Float64Histogram("queryfilter.parse.duration")
	}

	m.parseCount, err = meter.Int64Counter(
		"queryfilter.parse.count",
		metric.WithDescription("Total number of successfully parsed queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		m.parseCount, _ = meter.Int64Counter("queryfilter.parse.count")
	}

	m.errorCount, err = meter.Int64Counter(
		"queryfilter.parse.error.count",
		metric.WithDescription("Total number of rejected queries"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("queryfilter.parse.error.count")
	}

	m.cacheHitCount, err = meter.Int64Counter(
		"queryfilter.cache.hit.count",
		metric.WithDescription("Total number of parses served from the cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		m.cacheHitCount, _ = meter.Int64Counter("queryfilter.cache.hit.count")
	}

	m.predicateCount, err = meter.Int64Histogram(
		"queryfilter.parse.predicate.count",
		metric.WithDescription("Number of predicates in parsed queries"),
		metric.WithUnit("{predicate}"),
	)
	if err != nil {
		m.predicateCount, _ = meter.Int64Histogram("queryfilter.parse.predicate.count")
	}

	return m
}

// RecordParse records metrics for a successfully parsed query. Parses run in
// microseconds, so the duration is recorded as fractional milliseconds to
// keep the histogram from collapsing to zero.
func (m *Metrics) RecordParse(ctx context.Context, duration time.Duration, predicates int) {
	m.parseDuration.Record(ctx, float64(duration)/float64(time.Millisecond))
	m.parseCount.Add(ctx, 1)
	m.predicateCount.Record(ctx, int64(predicates))
}

// RecordParseError records a rejected query by rejection kind.
func (m *Metrics) RecordParseError(ctx context.Context, kind string) {
	m.errorCount.Add(ctx, 1, metric.WithAttributes(ErrorKindAttr(kind)))
}

// RecordCacheHit records a parse served from the cache.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	m.cacheHitCount.Add(ctx, 1)
}
