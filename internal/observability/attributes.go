// Package observability provides OpenTelemetry-based instrumentation for the
// query filter library.
//
// It supports distributed tracing, metrics collection, and enhanced
// structured logging.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used with zero performance overhead.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/sepehr-mohseni/go-queryfilter"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/sepehr-mohseni/go-queryfilter"
)

// Semantic attribute keys following OpenTelemetry conventions.
const (
	// Parse attributes
	AttrOperation      = "queryfilter.operation"
	AttrQueryLength    = "queryfilter.query.length"
	AttrPredicateCount = "queryfilter.predicate.count"
	AttrCacheHit       = "queryfilter.cache.hit"

	// Error attributes
	AttrErrorKind    = "queryfilter.error.kind"
	AttrErrorMessage = "queryfilter.error.message"
)

// Operation types for the queryfilter.operation attribute.
const (
	OpParse = "parse"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldTraceID        = "trace_id"
	LogFieldSpanID         = "span_id"
	LogFieldRequestID      = "request_id"
	LogFieldQuery          = "query"
	LogFieldQueryLength    = "query_length"
	LogFieldPredicateCount = "predicate_count"
	LogFieldErrorKind      = "error_kind"
	LogFieldDuration       = "duration_ms"
	LogFieldError          = "error"
)

// OperationAttr creates an attribute for the operation type.
func OperationAttr(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// QueryLengthAttr creates an attribute for the query string length.
func QueryLengthAttr(length int) attribute.KeyValue {
	return attribute.Int(AttrQueryLength, length)
}

// PredicateCountAttr creates an attribute for the parsed predicate count.
func PredicateCountAttr(count int) attribute.KeyValue {
	return attribute.Int(AttrPredicateCount, count)
}

// CacheHitAttr creates an attribute reporting whether the parse was served
// from the cache.
func CacheHitAttr(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// ErrorKindAttr creates an attribute for the rejection kind.
func ErrorKindAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}
