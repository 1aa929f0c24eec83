package queryfilter

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindClassification(t *testing.T) {
	parser := NewParser(WithAllowedFields("status", "priority"))

	tests := []struct {
		name  string
		query string
		kind  ErrorKind
	}{
		{"Stray character", "status;1", ErrorKindLex},
		{"Unterminated string", `status:"open`, ErrorKindLex},
		{"Half tilde operator", "status~open", ErrorKindLex},
		{"Trailing keyword", "status:1 AND", ErrorKindSyntax},
		{"Unclosed group", "(status:1", ErrorKindSyntax},
		{"Stray closing paren", "status:1)", ErrorKindSyntax},
		{"Adjacent lookups", "status:1 priority:2", ErrorKindSyntax},
		{"Missing operator", "status", ErrorKindSyntax},
		{"Missing value", "status:", ErrorKindSyntax},
		{"Field not whitelisted", "secret:1", ErrorKindFieldNotAllowed},
		{"Whitelisted then not", "status:1 AND secret:1", ErrorKindFieldNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.query)
			if err == nil {
				t.Fatalf("Parse(%q) returned no error", tt.query)
			}
			var invalid *InvalidQueryError
			if !errors.As(err, &invalid) {
				t.Fatalf("Parse(%q) returned %T, want *InvalidQueryError", tt.query, err)
			}
			if invalid.Kind != tt.kind {
				t.Errorf("Parse(%q) kind = %q, want %q", tt.query, invalid.Kind, tt.kind)
			}
		})
	}
}

func TestInvalidQueryErrorMessage(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		query    string
		contains string
	}{
		{"Lex position", "status;1", "position 6"},
		{"Syntax token", "status:1 AND AND x:2", "got AND"},
		{"Syntax at end of input", "status:1 AND", "end of input"},
		{"Missing paren", "(status:1", "closing parenthesis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.query)
			if err == nil {
				t.Fatalf("Parse(%q) returned no error", tt.query)
			}
			if !strings.HasPrefix(err.Error(), "invalid query string: ") {
				t.Errorf("error %q does not carry the invalid query prefix", err.Error())
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestInvalidQueryErrorUnwrap(t *testing.T) {
	parser := NewParser(WithAllowedFields("status"))

	t.Run("Lex stage", func(t *testing.T) {
		_, err := parser.Parse("status;1")
		var lexErr *LexError
		if !errors.As(err, &lexErr) {
			t.Fatalf("expected a wrapped LexError, got %v", err)
		}
		if lexErr.Pos != 6 {
			t.Errorf("LexError.Pos = %d, want 6", lexErr.Pos)
		}
	})

	t.Run("Syntax stage", func(t *testing.T) {
		_, err := parser.Parse("status:1 AND")
		var synErr *SyntaxError
		if !errors.As(err, &synErr) {
			t.Fatalf("expected a wrapped SyntaxError, got %v", err)
		}
	})

	t.Run("Whitelist stage", func(t *testing.T) {
		_, err := parser.Parse("secret:1")
		var fieldErr *FieldNotAllowedError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected a wrapped FieldNotAllowedError, got %v", err)
		}
		if fieldErr.Field != "secret" {
			t.Errorf("FieldNotAllowedError.Field = %q, want %q", fieldErr.Field, "secret")
		}
	})

	t.Run("Unwrap chain", func(t *testing.T) {
		_, err := parser.Parse("status:1 AND")
		var invalid *InvalidQueryError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected *InvalidQueryError, got %T", err)
		}
		if errors.Unwrap(invalid) == nil {
			t.Error("InvalidQueryError.Unwrap() = nil, want the stage error")
		}
	})
}

func TestErrorPredicates(t *testing.T) {
	parser := NewParser(WithAllowedFields("status"))

	tests := []struct {
		name      string
		query     string
		predicate func(error) bool
	}{
		{"IsLexError", "status;1", IsLexError},
		{"IsSyntaxError", "status:1 AND", IsSyntaxError},
		{"IsFieldNotAllowed", "secret:1", IsFieldNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.query)
			if err == nil {
				t.Fatalf("Parse(%q) returned no error", tt.query)
			}
			if !tt.predicate(err) {
				t.Errorf("%s(%v) = false, want true", tt.name, err)
			}
			if !IsInvalidQuery(err) {
				t.Errorf("IsInvalidQuery(%v) = false, want true", err)
			}
		})
	}

	t.Run("Plain errors do not match", func(t *testing.T) {
		plain := fmt.Errorf("boom")
		if IsInvalidQuery(plain) {
			t.Error("IsInvalidQuery(plain) = true, want false")
		}
		if IsLexError(plain) || IsSyntaxError(plain) || IsFieldNotAllowed(plain) || IsUnsupportedOperator(plain) {
			t.Error("stage predicates matched a plain error")
		}
	})

	t.Run("Nil error does not match", func(t *testing.T) {
		if IsInvalidQuery(nil) {
			t.Error("IsInvalidQuery(nil) = true, want false")
		}
	})
}

func TestErrorKindStrings(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{ErrorKindLex, "lex"},
		{ErrorKindSyntax, "syntax"},
		{ErrorKindFieldNotAllowed, "field_not_allowed"},
		{ErrorKindUnsupportedOperator, "unsupported_operator"},
		{ErrorKindInternal, "internal"},
	}

	for _, tt := range tests {
		if string(tt.kind) != tt.expected {
			t.Errorf("ErrorKind %q, want %q", tt.kind, tt.expected)
		}
	}
}
