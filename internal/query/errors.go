package query

import (
	"errors"
	"fmt"
)

// errUnsupportedParseNode guards the builder's type switch. Trees produced
// by this package's parser can never trigger it.
var errUnsupportedParseNode = errors.New("unsupported parse node type")

// LexError reports an unrecognized character or an unterminated string
// literal. Pos is the byte offset into the query string.
type LexError struct {
	Pos     int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at position %d: %s", e.Pos, e.Message)
}

// SyntaxError reports a grammar violation: a trailing logical keyword, an
// unmatched parenthesis, a malformed lookup. Token holds the offending
// token's text when one was available.
type SyntaxError struct {
	Pos     int
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Message)
}

// FieldNotAllowedError reports a lookup on a field outside the configured
// whitelist. It is a policy rejection of a well-formed query, not a bug.
type FieldNotAllowedError struct {
	Field string
}

func (e *FieldNotAllowedError) Error() string {
	return fmt.Sprintf("querying on field %q is not allowed", e.Field)
}

// UnsupportedOperatorError reports a comparison operator with no predicate
// mapping. The grammar cannot produce one; this guards the operator table.
type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q in query", e.Operator)
}
