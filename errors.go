package queryfilter

import (
	"errors"
	"fmt"

	"github.com/sepehr-mohseni/go-queryfilter/internal/query"
)

// Stage-level error types, re-exported for callers that need more detail
// than the uniform InvalidQueryError. They are reachable through
// errors.As on any error returned by Parse.
type (
	// LexError reports an unrecognized character or an unterminated
	// string literal.
	LexError = query.LexError

	// SyntaxError reports a grammar violation.
	SyntaxError = query.SyntaxError

	// FieldNotAllowedError reports a lookup on a field outside the
	// configured whitelist.
	FieldNotAllowedError = query.FieldNotAllowedError

	// UnsupportedOperatorError reports a comparison operator with no
	// predicate mapping.
	UnsupportedOperatorError = query.UnsupportedOperatorError
)

// ErrorKind classifies why a query was rejected.
type ErrorKind string

const (
	// ErrorKindLex marks rejections by the tokenizer.
	ErrorKindLex ErrorKind = "lex"
	// ErrorKindSyntax marks rejections by the grammar.
	ErrorKindSyntax ErrorKind = "syntax"
	// ErrorKindFieldNotAllowed marks whitelist rejections.
	ErrorKindFieldNotAllowed ErrorKind = "field_not_allowed"
	// ErrorKindUnsupportedOperator marks operator-mapping rejections.
	ErrorKindUnsupportedOperator ErrorKind = "unsupported_operator"
	// ErrorKindInternal marks rejections with no specific classification.
	// Parsing a well-formed tree never produces it.
	ErrorKindInternal ErrorKind = "internal"
)

// InvalidQueryError is the uniform error for every rejected query. Kind
// names the stage that rejected it; the wrapped error carries positions and
// stage-specific fields for callers that want them.
type InvalidQueryError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query string: %s", e.Message)
}

// Unwrap returns the underlying stage error.
func (e *InvalidQueryError) Unwrap() error {
	return e.Err
}

// newInvalidQueryError wraps a stage error with its kind classification.
func newInvalidQueryError(err error) *InvalidQueryError {
	var (
		lexErr   *query.LexError
		synErr   *query.SyntaxError
		fieldErr *query.FieldNotAllowedError
		opErr    *query.UnsupportedOperatorError
	)

	kind := ErrorKindInternal
	switch {
	case errors.As(err, &lexErr):
		kind = ErrorKindLex
	case errors.As(err, &synErr):
		kind = ErrorKindSyntax
	case errors.As(err, &fieldErr):
		kind = ErrorKindFieldNotAllowed
	case errors.As(err, &opErr):
		kind = ErrorKindUnsupportedOperator
	}

	return &InvalidQueryError{
		Kind:    kind,
		Message: err.Error(),
		Err:     err,
	}
}

// IsInvalidQuery reports whether err is a query rejection. It is true for
// every non-nil error returned by Parse.
func IsInvalidQuery(err error) bool {
	var target *InvalidQueryError
	return errors.As(err, &target)
}

// IsLexError reports whether err stems from an unrecognized character or an
// unterminated string literal.
func IsLexError(err error) bool {
	var target *LexError
	return errors.As(err, &target)
}

// IsSyntaxError reports whether err stems from a grammar violation.
func IsSyntaxError(err error) bool {
	var target *SyntaxError
	return errors.As(err, &target)
}

// IsFieldNotAllowed reports whether err stems from the field whitelist.
func IsFieldNotAllowed(err error) bool {
	var target *FieldNotAllowedError
	return errors.As(err, &target)
}

// IsUnsupportedOperator reports whether err stems from an operator with no
// predicate mapping.
func IsUnsupportedOperator(err error) bool {
	var target *UnsupportedOperatorError
	return errors.As(err, &target)
}
