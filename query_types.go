package queryfilter

import "github.com/sepehr-mohseni/go-queryfilter/internal/query"

// FilterExpression represents a parsed query: a tree of predicates joined
// by logical combinators, ready to translate into SQL, an in-memory match,
// or any other target.
//
// The concrete node types are Predicate, AndExpression, OrExpression,
// NotExpression and MatchAll. Consumers walk the tree with a type switch:
//
//	switch e := expr.(type) {
//	case *queryfilter.Predicate:
//	    // e.Field, e.Kind, e.Value
//	case *queryfilter.AndExpression:
//	    // e.Children
//	...
//	}
type FilterExpression = query.FilterExpression

// Predicate re-exports the single field comparison node.
type Predicate = query.Predicate

// AndExpression re-exports the conjunction node.
type AndExpression = query.AndExpression

// OrExpression re-exports the disjunction node.
type OrExpression = query.OrExpression

// NotExpression re-exports the negation node.
type NotExpression = query.NotExpression

// MatchAll re-exports the neutral match-everything node.
type MatchAll = query.MatchAll

// PredicateKind re-exports the comparison kind enumeration.
type PredicateKind = query.PredicateKind

// Value re-exports the coerced query value type.
type Value = query.Value

// ValueKind re-exports the value type enumeration.
type ValueKind = query.ValueKind

// AllowedFields re-exports the field whitelist type.
type AllowedFields = query.AllowedFields

// Predicate kind constants
const (
	PredicateExact     PredicateKind = query.PredicateExact
	PredicateIContains PredicateKind = query.PredicateIContains
	PredicateGt        PredicateKind = query.PredicateGt
	PredicateLt        PredicateKind = query.PredicateLt
	PredicateGte       PredicateKind = query.PredicateGte
	PredicateLte       PredicateKind = query.PredicateLte
)

// Value kind constants
const (
	ValueString  ValueKind = query.ValueString
	ValueInteger ValueKind = query.ValueInteger
	ValueFloat   ValueKind = query.ValueFloat
	ValueBoolean ValueKind = query.ValueBoolean
	ValueNull    ValueKind = query.ValueNull
)

// StringValue returns a string Value.
func StringValue(s string) Value { return query.StringValue(s) }

// IntegerValue returns an integer Value.
func IntegerValue(i int64) Value { return query.IntegerValue(i) }

// FloatValue returns a float Value.
func FloatValue(f float64) Value { return query.FloatValue(f) }

// BooleanValue returns a boolean Value.
func BooleanValue(b bool) Value { return query.BooleanValue(b) }

// NullValue returns the null Value.
func NullValue() Value { return query.NullValue() }

// NewAllowedFields builds a field whitelist from names. The result is
// always non-nil, so zero names reject every field.
func NewAllowedFields(fields ...string) AllowedFields {
	return query.NewAllowedFields(fields...)
}

// Equal reports whether two filter expressions are structurally identical.
func Equal(a, b FilterExpression) bool { return query.Equal(a, b) }

// Clone returns a deep copy of expr.
func Clone(expr FilterExpression) FilterExpression { return query.Clone(expr) }

// PredicateCount returns the number of predicates in expr.
func PredicateCount(expr FilterExpression) int { return query.PredicateCount(expr) }

// IsMatchAll reports whether expr matches every record.
func IsMatchAll(expr FilterExpression) bool { return query.IsMatchAll(expr) }
