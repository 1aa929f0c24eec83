package query

import "strings"

// PredicateKind names the comparison a Predicate performs
type PredicateKind string

const (
	// PredicateExact matches when the field equals the value
	PredicateExact PredicateKind = "exact"
	// PredicateIContains matches when the field contains the value,
	// ignoring case
	PredicateIContains PredicateKind = "icontains"
	// PredicateGt matches when the field is greater than the value
	PredicateGt PredicateKind = "gt"
	// PredicateLt matches when the field is less than the value
	PredicateLt PredicateKind = "lt"
	// PredicateGte matches when the field is greater than or equal to
	// the value
	PredicateGte PredicateKind = "gte"
	// PredicateLte matches when the field is less than or equal to the
	// value
	PredicateLte PredicateKind = "lte"
)

// FilterExpression is the backend-neutral result of parsing a query. A tree
// of predicates joined by logical combinators, ready to translate into SQL,
// an in-memory match, or any other target.
type FilterExpression interface {
	filterExpression()
	// String renders the expression in query syntax. For trees built by
	// the parser the output parses back to an equal expression; MatchAll
	// renders empty.
	String() string
}

// Predicate is a single field comparison
type Predicate struct {
	Field string
	Kind  PredicateKind
	Value Value
}

// AndExpression matches when every child matches
type AndExpression struct {
	Children []FilterExpression
}

// OrExpression matches when at least one child matches
type OrExpression struct {
	Children []FilterExpression
}

// NotExpression inverts its child
type NotExpression struct {
	Child FilterExpression
}

// MatchAll is the neutral expression: it matches every record. Parsing an
// empty query produces it.
type MatchAll struct{}

func (e *Predicate) filterExpression()     {}
func (e *AndExpression) filterExpression() {}
func (e *OrExpression) filterExpression()  {}
func (e *NotExpression) filterExpression() {}
func (e *MatchAll) filterExpression()      {}

var predicateSymbols = map[PredicateKind]string{
	PredicateExact:     ":",
	PredicateIContains: "~=",
	PredicateGt:        ">",
	PredicateLt:        "<",
	PredicateGte:       ">=",
	PredicateLte:       "<=",
}

func (e *Predicate) String() string {
	return e.Field + predicateSymbols[e.Kind] + e.Value.Literal()
}

func (e *AndExpression) String() string {
	return joinChildren(e.Children, " AND ")
}

func (e *OrExpression) String() string {
	return joinChildren(e.Children, " OR ")
}

func (e *NotExpression) String() string {
	if p, ok := e.Child.(*Predicate); ok && p.Kind == PredicateExact {
		return p.Field + "!=" + p.Value.Literal()
	}
	return "NOT (" + e.Child.String() + ")"
}

func (e *MatchAll) String() string {
	return ""
}

func joinChildren(children []FilterExpression, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = groupString(child)
	}
	return strings.Join(parts, sep)
}

// groupString parenthesizes composite children so the rendered form keeps
// the tree's precedence
func groupString(expr FilterExpression) string {
	switch expr.(type) {
	case *AndExpression, *OrExpression:
		return "(" + expr.String() + ")"
	}
	return expr.String()
}

// IsMatchAll reports whether expr is the neutral match-all expression.
func IsMatchAll(expr FilterExpression) bool {
	_, ok := expr.(*MatchAll)
	return ok
}

// Equal reports whether two filter expressions are structurally identical:
// same shape, same predicates, same child order.
func Equal(a, b FilterExpression) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *MatchAll:
		_, ok := b.(*MatchAll)
		return ok
	case *Predicate:
		y, ok := b.(*Predicate)
		return ok && *x == *y
	case *NotExpression:
		y, ok := b.(*NotExpression)
		return ok && Equal(x.Child, y.Child)
	case *AndExpression:
		y, ok := b.(*AndExpression)
		return ok && equalChildren(x.Children, y.Children)
	case *OrExpression:
		y, ok := b.(*OrExpression)
		return ok && equalChildren(x.Children, y.Children)
	}
	return false
}

func equalChildren(a, b []FilterExpression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of expr. Callers that hand expressions out of a
// shared cache clone them so mutation by one consumer cannot leak into
// another.
func Clone(expr FilterExpression) FilterExpression {
	switch x := expr.(type) {
	case *MatchAll:
		return &MatchAll{}
	case *Predicate:
		p := *x
		return &p
	case *NotExpression:
		return &NotExpression{Child: Clone(x.Child)}
	case *AndExpression:
		return &AndExpression{Children: cloneChildren(x.Children)}
	case *OrExpression:
		return &OrExpression{Children: cloneChildren(x.Children)}
	}
	return nil
}

func cloneChildren(children []FilterExpression) []FilterExpression {
	out := make([]FilterExpression, len(children))
	for i, child := range children {
		out[i] = Clone(child)
	}
	return out
}

// PredicateCount returns the number of predicates in expr.
func PredicateCount(expr FilterExpression) int {
	switch x := expr.(type) {
	case *Predicate:
		return 1
	case *NotExpression:
		return PredicateCount(x.Child)
	case *AndExpression:
		return sumPredicates(x.Children)
	case *OrExpression:
		return sumPredicates(x.Children)
	}
	return 0
}

func sumPredicates(children []FilterExpression) int {
	n := 0
	for _, child := range children {
		n += PredicateCount(child)
	}
	return n
}
