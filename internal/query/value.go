package query

import (
	"strconv"
	"strings"
)

// ValueKind identifies the coerced Go type of a query value
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
	ValueFloat
	ValueBoolean
	ValueNull
)

var valueKindNames = [...]string{
	ValueString:  "string",
	ValueInteger: "integer",
	ValueFloat:   "float",
	ValueBoolean: "boolean",
	ValueNull:    "null",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a coerced query value. Exactly one of the payload fields is
// meaningful, selected by Kind; null carries no payload. Values are
// comparable, two are equal when kind and payload match.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// StringValue returns a string Value
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// IntegerValue returns an integer Value
func IntegerValue(i int64) Value {
	return Value{Kind: ValueInteger, Int: i}
}

// FloatValue returns a float Value
func FloatValue(f float64) Value {
	return Value{Kind: ValueFloat, Float: f}
}

// BooleanValue returns a boolean Value
func BooleanValue(b bool) Value {
	return Value{Kind: ValueBoolean, Bool: b}
}

// NullValue returns the null Value
func NullValue() Value {
	return Value{Kind: ValueNull}
}

// Interface returns the value as the native Go type a query consumer would
// bind: string, int64, float64, bool, or nil.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case ValueInteger:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueBoolean:
		return v.Bool
	case ValueNull:
		return nil
	}
	return v.Str
}

// Literal renders the value the way it would be written in a query: strings
// quoted, numbers and booleans bare, null as the keyword.
func (v Value) Literal() string {
	switch v.Kind {
	case ValueInteger:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueBoolean:
		return strconv.FormatBool(v.Bool)
	case ValueNull:
		return "null"
	}
	return strconv.Quote(v.Str)
}

// valueUnescaper rewrites the two escape sequences the language recognizes.
// Any other backslash sequence passes through untouched.
var valueUnescaper = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

func unescapeValue(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	return valueUnescaper.Replace(s)
}

// CoerceValue converts a raw value lexeme into a typed Value. The checks
// run in a fixed order so every lexeme has exactly one interpretation:
//
//  1. quoted string: surrounding quotes stripped, always a string even if
//     the content looks numeric
//  2. true/false, case-insensitively
//  3. null, case-insensitively
//  4. integer
//  5. float
//  6. anything else: the lexeme itself as a string
//
// Both string paths unescape \n and \t. An integer too large for int64
// falls through to the float check, trading precision for range the way
// strconv callers usually do.
func CoerceValue(raw string) Value {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return StringValue(unescapeValue(raw[1 : len(raw)-1]))
	}

	switch strings.ToLower(raw) {
	case "true":
		return BooleanValue(true)
	case "false":
		return BooleanValue(false)
	case "null":
		return NullValue()
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntegerValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatValue(f)
	}

	return StringValue(unescapeValue(raw))
}
