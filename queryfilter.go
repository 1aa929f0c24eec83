// Package queryfilter parses a compact boolean query language into
// backend-neutral filter expressions.
//
// A query is a sequence of field lookups joined by AND and OR, with
// parentheses for grouping:
//
//	status:active AND (priority>2 OR name~="urgent")
//
// Each lookup pairs a field with a comparison operator and a value. Values
// are coerced to strings, integers, floats, booleans or null before they
// reach the resulting expression, so consumers bind typed parameters instead
// of raw query text. The parsed tree translates to whatever backend the
// caller targets; see the gormfilter and match packages for two translators.
package queryfilter

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/sepehr-mohseni/go-queryfilter/internal/observability"
	"github.com/sepehr-mohseni/go-queryfilter/internal/query"
)

// DefaultMaxDepth is the parenthesis nesting limit parsers apply unless
// configured otherwise.
const DefaultMaxDepth = query.DefaultMaxDepth

// Parser turns query strings into filter expressions. The zero-cost way to
// get one is NewParser; a Parser is immutable after construction and safe
// for concurrent use.
type Parser struct {
	allowedFields query.AllowedFields
	maxDepth      int
	logger        *slog.Logger
	cache         *query.ParseCache
	obs           *observability.Config
	obsOpts       []observability.Option
}

// Option is a functional option for configuring a Parser.
type Option func(*Parser)

// WithAllowedFields restricts queries to the given field names. A lookup on
// any other field is rejected. Passing no names rejects every field;
// omitting the option entirely leaves querying unrestricted.
func WithAllowedFields(fields ...string) Option {
	return func(p *Parser) {
		p.allowedFields = query.NewAllowedFields(fields...)
	}
}

// WithMaxDepth overrides the parenthesis nesting limit. Values of zero or
// less select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithLogger sets the logger for parse diagnostics. Rejected and parsed
// queries are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithCache memoizes parsed expressions, keyed by the query string, holding
// up to capacity entries. A capacity of zero or less selects a default.
// Cached results are deep-copied on the way out, so callers may mutate what
// they get back.
func WithCache(capacity int) Option {
	return func(p *Parser) {
		p.cache = query.NewParseCache(capacity)
	}
}

// WithTracerProvider enables tracing of parse operations.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Parser) {
		p.obsOpts = append(p.obsOpts, observability.WithTracerProvider(tp))
	}
}

// WithMeterProvider enables parse metrics collection.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(p *Parser) {
		p.obsOpts = append(p.obsOpts, observability.WithMeterProvider(mp))
	}
}

// WithServiceName sets the service name reported in traces and metrics.
func WithServiceName(name string) Option {
	return func(p *Parser) {
		p.obsOpts = append(p.obsOpts, observability.WithServiceName(name))
	}
}

// WithServerTiming reports parse duration through the Server-Timing response
// header on requests instrumented with the server-timing middleware.
func WithServerTiming() Option {
	return func(p *Parser) {
		p.obsOpts = append(p.obsOpts, observability.WithServerTiming())
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.obs = observability.NewConfig(p.obsOpts...)
	if err := p.obs.Initialize(); err != nil {
		p.logger.Warn("observability initialization failed",
			slog.String(observability.LogFieldError, err.Error()))
	}

	return p
}

// Parse parses queryStr into a filter expression. An empty string yields
// MatchAll, the neutral expression matching every record. Any malformed or
// disallowed query comes back as an *InvalidQueryError.
func (p *Parser) Parse(queryStr string) (FilterExpression, error) {
	return p.ParseContext(context.Background(), queryStr)
}

// ParseContext is like Parse but joins the trace and Server-Timing context
// of an enclosing request.
func (p *Parser) ParseContext(ctx context.Context, queryStr string) (FilterExpression, error) {
	if queryStr == "" {
		return &MatchAll{}, nil
	}

	start := time.Now()

	ctx, span := p.obs.Tracer().StartParse(ctx, len(queryStr))
	defer span.End()

	if p.obs.ServerTimingEnabled() {
		timing := observability.StartServerTiming(ctx, "queryfilter.parse")
		defer timing.Stop()
	}

	logger := observability.LoggerWithTrace(ctx, p.logger)

	if p.cache != nil {
		if expr, ok := p.cache.Get(queryStr); ok {
			p.obs.Tracer().SetCacheHit(ctx)
			p.obs.Metrics().RecordCacheHit(ctx)
			p.obs.Metrics().RecordParse(ctx, time.Since(start), query.PredicateCount(expr))
			logger.Debug("query parse cache hit",
				slog.String(observability.LogFieldQuery, queryStr))
			return expr, nil
		}
	}

	expr, err := query.ParseQuery(queryStr, p.allowedFields, p.maxDepth)
	if err != nil {
		invalid := newInvalidQueryError(err)
		p.obs.Tracer().RecordError(span, invalid)
		p.obs.Metrics().RecordParseError(ctx, string(invalid.Kind))
		logger.Debug("query rejected",
			slog.String(observability.LogFieldQuery, queryStr),
			slog.String(observability.LogFieldErrorKind, string(invalid.Kind)),
			slog.String(observability.LogFieldError, invalid.Error()))
		return nil, invalid
	}

	if p.cache != nil {
		p.cache.Put(queryStr, expr)
	}

	predicates := query.PredicateCount(expr)
	p.obs.Tracer().SetPredicateCount(ctx, predicates)
	p.obs.Metrics().RecordParse(ctx, time.Since(start), predicates)
	logger.Debug("query parsed",
		slog.String(observability.LogFieldQuery, queryStr),
		slog.Int(observability.LogFieldPredicateCount, predicates))

	return expr, nil
}

// defaultParser backs the package-level Parse functions: unrestricted
// fields, no cache, default depth limit.
var defaultParser = NewParser()

// Parse parses queryStr with the default parser.
func Parse(queryStr string) (FilterExpression, error) {
	return defaultParser.Parse(queryStr)
}

// ParseContext parses queryStr with the default parser, propagating ctx.
func ParseContext(ctx context.Context, queryStr string) (FilterExpression, error) {
	return defaultParser.ParseContext(ctx, queryStr)
}
