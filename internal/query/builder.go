package query

// AllowedFields is the whitelist of queryable field names. A nil map allows
// every field; an empty, non-nil map allows none. The distinction lets a
// caller express both "unrestricted" and "locked down".
type AllowedFields map[string]bool

// NewAllowedFields builds a whitelist from field names. The result is
// always non-nil, so NewAllowedFields() with no names rejects every field.
func NewAllowedFields(fields ...string) AllowedFields {
	allowed := make(AllowedFields, len(fields))
	for _, field := range fields {
		allowed[field] = true
	}
	return allowed
}

// Allows reports whether field may be queried
func (a AllowedFields) Allows(field string) bool {
	if a == nil {
		return true
	}
	return a[field]
}

// lookupKinds maps query operators to predicate kinds. != is absent because
// it builds a negated exact predicate rather than a kind of its own.
var lookupKinds = map[string]PredicateKind{
	":":  PredicateExact,
	":=": PredicateExact,
	"~=": PredicateIContains,
	">":  PredicateGt,
	"<":  PredicateLt,
	">=": PredicateGte,
	"<=": PredicateLte,
}

// BuildFilter translates a parse tree into a filter expression, enforcing
// the field whitelist and coercing raw value lexemes. A nil node yields the
// neutral MatchAll.
func BuildFilter(node ParseNode, allowed AllowedFields) (FilterExpression, error) {
	switch n := node.(type) {
	case nil:
		return &MatchAll{}, nil
	case *LookupNode:
		return buildLookup(n, allowed)
	case *AndNode:
		children, err := buildChildren(n.Children, allowed)
		if err != nil {
			return nil, err
		}
		return reduceAnd(children), nil
	case *OrNode:
		children, err := buildChildren(n.Children, allowed)
		if err != nil {
			return nil, err
		}
		return reduceOr(children), nil
	}
	return nil, errUnsupportedParseNode
}

func buildLookup(n *LookupNode, allowed AllowedFields) (FilterExpression, error) {
	if !allowed.Allows(n.Field) {
		return nil, &FieldNotAllowedError{Field: n.Field}
	}

	value := CoerceValue(n.RawValue)

	if n.Operator == "!=" {
		return &NotExpression{Child: &Predicate{
			Field: n.Field,
			Kind:  PredicateExact,
			Value: value,
		}}, nil
	}

	kind, ok := lookupKinds[n.Operator]
	if !ok {
		return nil, &UnsupportedOperatorError{Operator: n.Operator}
	}

	return &Predicate{Field: n.Field, Kind: kind, Value: value}, nil
}

func buildChildren(nodes []ParseNode, allowed AllowedFields) ([]FilterExpression, error) {
	children := make([]FilterExpression, 0, len(nodes))
	for _, node := range nodes {
		child, err := BuildFilter(node, allowed)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func reduceAnd(children []FilterExpression) FilterExpression {
	switch len(children) {
	case 0:
		return &MatchAll{}
	case 1:
		return children[0]
	}
	return &AndExpression{Children: children}
}

func reduceOr(children []FilterExpression) FilterExpression {
	switch len(children) {
	case 0:
		return &MatchAll{}
	case 1:
		return children[0]
	}
	return &OrExpression{Children: children}
}
