package query

import (
	"testing"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Value
	}{
		{
			name:     "Integer",
			raw:      "42",
			expected: IntegerValue(42),
		},
		{
			name:     "Negative integer",
			raw:      "-17",
			expected: IntegerValue(-17),
		},
		{
			name:     "Float",
			raw:      "3.14",
			expected: FloatValue(3.14),
		},
		{
			name:     "Negative float",
			raw:      "-0.5",
			expected: FloatValue(-0.5),
		},
		{
			name:     "Trailing decimal point",
			raw:      "99.",
			expected: FloatValue(99),
		},
		{
			name:     "Exponent",
			raw:      "1e3",
			expected: FloatValue(1000),
		},
		{
			name:     "Integer overflow falls back to float",
			raw:      "9223372036854775808",
			expected: FloatValue(9223372036854775808),
		},
		{
			name:     "Boolean true",
			raw:      "true",
			expected: BooleanValue(true),
		},
		{
			name:     "Boolean true mixed case",
			raw:      "True",
			expected: BooleanValue(true),
		},
		{
			name:     "Boolean false",
			raw:      "FALSE",
			expected: BooleanValue(false),
		},
		{
			name:     "Null",
			raw:      "null",
			expected: NullValue(),
		},
		{
			name:     "Null upper case",
			raw:      "NULL",
			expected: NullValue(),
		},
		{
			name:     "Bare word",
			raw:      "active",
			expected: StringValue("active"),
		},
		{
			name:     "Word starting with digits",
			raw:      "12abc",
			expected: StringValue("12abc"),
		},
		{
			name:     "Quoted string",
			raw:      `"hello world"`,
			expected: StringValue("hello world"),
		},
		{
			name:     "Quoted number stays a string",
			raw:      `"42"`,
			expected: StringValue("42"),
		},
		{
			name:     "Quoted boolean stays a string",
			raw:      `"true"`,
			expected: StringValue("true"),
		},
		{
			name:     "Quoted null stays a string",
			raw:      `"null"`,
			expected: StringValue("null"),
		},
		{
			name:     "Quoted empty string",
			raw:      `""`,
			expected: StringValue(""),
		},
		{
			name:     "Newline escape in quoted string",
			raw:      `"line1\nline2"`,
			expected: StringValue("line1\nline2"),
		},
		{
			name:     "Tab escape in quoted string",
			raw:      `"col1\tcol2"`,
			expected: StringValue("col1\tcol2"),
		},
		{
			name:     "Escaped quote passes through untouched",
			raw:      `"say \"hi\""`,
			expected: StringValue(`say \"hi\"`),
		},
		{
			name:     "Escape in bare word",
			raw:      `a\nb`,
			expected: StringValue("a\nb"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceValue(tt.raw)
			if got != tt.expected {
				t.Errorf("CoerceValue(%q): expected %#v, got %#v", tt.raw, tt.expected, got)
			}
		})
	}
}

func TestValueInterface(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected interface{}
	}{
		{name: "String", value: StringValue("x"), expected: "x"},
		{name: "Integer", value: IntegerValue(42), expected: int64(42)},
		{name: "Float", value: FloatValue(3.14), expected: 3.14},
		{name: "Boolean", value: BooleanValue(true), expected: true},
		{name: "Null", value: NullValue(), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Interface(); got != tt.expected {
				t.Errorf("Expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestValueLiteral(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "String", value: StringValue("a b"), expected: `"a b"`},
		{name: "String with newline", value: StringValue("a\nb"), expected: `"a\nb"`},
		{name: "Integer", value: IntegerValue(42), expected: "42"},
		{name: "Float", value: FloatValue(99.99), expected: "99.99"},
		{name: "Float without fraction", value: FloatValue(100), expected: "100"},
		{name: "Boolean", value: BooleanValue(false), expected: "false"},
		{name: "Null", value: NullValue(), expected: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Literal(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestValueEquality(t *testing.T) {
	if IntegerValue(1) != IntegerValue(1) {
		t.Error("Expected equal integer values to compare equal")
	}
	if IntegerValue(1) == FloatValue(1) {
		t.Error("Expected integer and float values to compare unequal")
	}
	if StringValue("1") == IntegerValue(1) {
		t.Error("Expected string and integer values to compare unequal")
	}
}

func TestValueKindString(t *testing.T) {
	kinds := map[ValueKind]string{
		ValueString:  "string",
		ValueInteger: "integer",
		ValueFloat:   "float",
		ValueBoolean: "boolean",
		ValueNull:    "null",
	}
	for kind, expected := range kinds {
		if kind.String() != expected {
			t.Errorf("Expected %q, got %q", expected, kind.String())
		}
	}
}
