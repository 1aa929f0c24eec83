// Package match evaluates filter expressions against in-memory records.
//
// It mirrors the database translation in gormfilter for code paths that hold
// their data in maps: webhook routing, change-feed filtering, tests. Numeric
// comparisons bridge int, uint, float and decimal.Decimal record values
// through exact decimal arithmetic, so a query like price>=10 matches a
// float64(10.0) record value.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	queryfilter "github.com/sepehr-mohseni/go-queryfilter"
)

// Record is one row of in-memory data, keyed by field name.
type Record = map[string]interface{}

var errNilExpression = errors.New("match: nil filter expression")

// Error reports a record value the expression cannot be evaluated against.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("match: field %q: %s", e.Field, e.Reason)
}

// Matches reports whether the record satisfies the expression. Fields absent
// from the record match nothing; ordering comparisons against values of an
// incompatible type return an *Error.
func Matches(expr queryfilter.FilterExpression, record Record) (bool, error) {
	switch e := expr.(type) {
	case *queryfilter.MatchAll:
		return true, nil
	case *queryfilter.Predicate:
		return matchPredicate(e, record)
	case *queryfilter.AndExpression:
		for _, child := range e.Children {
			ok, err := Matches(child, record)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *queryfilter.OrExpression:
		for _, child := range e.Children {
			ok, err := Matches(child, record)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case *queryfilter.NotExpression:
		ok, err := Matches(e.Child, record)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case nil:
		return false, errNilExpression
	default:
		return false, fmt.Errorf("match: unsupported filter expression type %T", expr)
	}
}

func matchPredicate(pred *queryfilter.Predicate, record Record) (bool, error) {
	fieldValue, ok := record[pred.Field]
	if !ok {
		return false, nil
	}

	switch pred.Kind {
	case queryfilter.PredicateExact:
		return equalValues(pred.Value, fieldValue), nil
	case queryfilter.PredicateIContains:
		return containsFold(pred.Value, fieldValue), nil
	case queryfilter.PredicateGt, queryfilter.PredicateLt, queryfilter.PredicateGte, queryfilter.PredicateLte:
		cmp, err := compareValues(pred.Value, fieldValue)
		if err != nil {
			return false, &Error{Field: pred.Field, Reason: err.Error()}
		}
		switch pred.Kind {
		case queryfilter.PredicateGt:
			return cmp > 0, nil
		case queryfilter.PredicateLt:
			return cmp < 0, nil
		case queryfilter.PredicateGte:
			return cmp >= 0, nil
		default:
			return cmp <= 0, nil
		}
	default:
		return false, &Error{Field: pred.Field, Reason: fmt.Sprintf("unsupported predicate kind %q", pred.Kind)}
	}
}

// equalValues tests exact equality. Type mismatches simply do not match;
// numbers are compared through decimals so integer and float forms of the
// same quantity are equal.
func equalValues(query queryfilter.Value, field interface{}) bool {
	if query.Kind == queryfilter.ValueNull {
		return field == nil
	}
	if field == nil {
		return false
	}

	switch query.Kind {
	case queryfilter.ValueBoolean:
		b, ok := field.(bool)
		return ok && b == query.Bool
	case queryfilter.ValueInteger, queryfilter.ValueFloat:
		fieldDec, ok := recordDecimal(field)
		if !ok {
			return false
		}
		queryDec, _ := queryDecimal(query)
		return fieldDec.Equal(queryDec)
	case queryfilter.ValueString:
		switch v := field.(type) {
		case string:
			return v == query.Str
		case uuid.UUID:
			parsed, err := uuid.Parse(query.Str)
			return err == nil && parsed == v
		default:
			return false
		}
	}
	return false
}

// containsFold tests case-insensitive substring containment against the
// record value's textual form.
func containsFold(query queryfilter.Value, field interface{}) bool {
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(fieldText(field)), strings.ToLower(valueText(query)))
}

// compareValues orders the record value against the query value. Numbers
// order numerically, strings lexicographically; anything else has no order.
func compareValues(query queryfilter.Value, field interface{}) (int, error) {
	if queryDec, ok := queryDecimal(query); ok {
		fieldDec, ok := recordDecimal(field)
		if !ok {
			return 0, fmt.Errorf("cannot order %T against a %s value", field, query.Kind)
		}
		return fieldDec.Cmp(queryDec), nil
	}

	if query.Kind == queryfilter.ValueString {
		s, ok := field.(string)
		if !ok {
			return 0, fmt.Errorf("cannot order %T against a %s value", field, query.Kind)
		}
		return strings.Compare(s, query.Str), nil
	}

	return 0, fmt.Errorf("%s values have no ordering", query.Kind)
}

func queryDecimal(value queryfilter.Value) (decimal.Decimal, bool) {
	switch value.Kind {
	case queryfilter.ValueInteger:
		return decimal.NewFromInt(value.Int), true
	case queryfilter.ValueFloat:
		return decimal.NewFromFloat(value.Float), true
	}
	return decimal.Decimal{}, false
}

func recordDecimal(field interface{}) (decimal.Decimal, bool) {
	switch n := field.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int8:
		return decimal.NewFromInt(int64(n)), true
	case int16:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromUint64(uint64(n)), true
	case uint8:
		return decimal.NewFromUint64(uint64(n)), true
	case uint16:
		return decimal.NewFromUint64(uint64(n)), true
	case uint32:
		return decimal.NewFromUint64(uint64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	}
	return decimal.Decimal{}, false
}

func fieldText(field interface{}) string {
	switch v := field.(type) {
	case string:
		return v
	case uuid.UUID:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func valueText(value queryfilter.Value) string {
	if value.Kind == queryfilter.ValueString {
		return value.Str
	}
	if value.Kind == queryfilter.ValueNull {
		return "null"
	}
	return fmt.Sprint(value.Interface())
}
