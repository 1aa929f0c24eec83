// Package gormfilter translates parsed filter expressions into GORM where
// clauses.
//
// The translation is dialect-neutral: conditions use placeholders and rely on
// GORM to bind values, so the same expression works against SQLite, Postgres
// and MySQL. Field names coming out of the parser consist of word characters
// only; if database columns differ from query fields, supply a ColumnMapper.
//
//	expr, err := queryfilter.Parse(`status:active AND priority>=2`)
//	if err != nil { ... }
//	tx, err := gormfilter.Apply(db.Model(&Task{}), expr)
//	if err != nil { ... }
//	tx.Find(&tasks)
package gormfilter

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	queryfilter "github.com/sepehr-mohseni/go-queryfilter"
)

const likeEscapeClause = "ESCAPE '\\'"

var errNilExpression = errors.New("gormfilter: nil filter expression")

// ColumnMapper maps a query field name to a database column name. The
// returned column may be qualified ("tasks.status").
type ColumnMapper func(field string) string

// Option configures the translation.
type Option func(*translator)

// WithColumnMapper sets the field-to-column mapping. The default uses the
// field name as the column name.
func WithColumnMapper(mapper ColumnMapper) Option {
	return func(t *translator) {
		t.mapColumn = mapper
	}
}

type translator struct {
	mapColumn ColumnMapper
}

func newTranslator(opts ...Option) *translator {
	t := &translator{
		mapColumn: func(field string) string { return field },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Apply adds the expression to db as a WHERE condition. The neutral
// expression leaves db unchanged.
func Apply(db *gorm.DB, expr queryfilter.FilterExpression, opts ...Option) (*gorm.DB, error) {
	sql, args, err := Condition(expr, opts...)
	if err != nil {
		return nil, err
	}
	if sql == "" {
		return db, nil
	}
	return db.Where(sql, args...), nil
}

// Condition renders the expression as a SQL condition with placeholder
// arguments. The neutral expression renders as an empty condition.
func Condition(expr queryfilter.FilterExpression, opts ...Option) (string, []interface{}, error) {
	if expr == nil {
		return "", nil, errNilExpression
	}
	if queryfilter.IsMatchAll(expr) {
		return "", nil, nil
	}
	return newTranslator(opts...).condition(expr)
}

func (t *translator) condition(expr queryfilter.FilterExpression) (string, []interface{}, error) {
	switch e := expr.(type) {
	case *queryfilter.Predicate:
		return t.predicate(e)
	case *queryfilter.AndExpression:
		return t.composite(e.Children, " AND ")
	case *queryfilter.OrExpression:
		return t.composite(e.Children, " OR ")
	case *queryfilter.NotExpression:
		sql, args, err := t.condition(e.Child)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("NOT (%s)", sql), args, nil
	case *queryfilter.MatchAll:
		// Nested neutral expressions keep composite SQL well formed.
		return "1 = 1", nil, nil
	case nil:
		return "", nil, errNilExpression
	default:
		return "", nil, fmt.Errorf("gormfilter: unsupported filter expression type %T", expr)
	}
}

func (t *translator) composite(children []queryfilter.FilterExpression, joiner string) (string, []interface{}, error) {
	parts := make([]string, 0, len(children))
	var args []interface{}
	for _, child := range children {
		sql, childArgs, err := t.condition(child)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, childArgs...)
	}
	return strings.Join(parts, joiner), args, nil
}

func (t *translator) predicate(pred *queryfilter.Predicate) (string, []interface{}, error) {
	column, err := t.column(pred.Field)
	if err != nil {
		return "", nil, err
	}

	switch pred.Kind {
	case queryfilter.PredicateExact:
		if pred.Value.Kind == queryfilter.ValueNull {
			return fmt.Sprintf("%s IS NULL", column), nil, nil
		}
		return fmt.Sprintf("%s = ?", column), []interface{}{pred.Value.Interface()}, nil
	case queryfilter.PredicateIContains:
		pattern := "%" + escapeLikePattern(strings.ToLower(valueText(pred.Value))) + "%"
		return fmt.Sprintf("LOWER(%s) LIKE ? %s", column, likeEscapeClause), []interface{}{pattern}, nil
	case queryfilter.PredicateGt:
		return fmt.Sprintf("%s > ?", column), []interface{}{pred.Value.Interface()}, nil
	case queryfilter.PredicateLt:
		return fmt.Sprintf("%s < ?", column), []interface{}{pred.Value.Interface()}, nil
	case queryfilter.PredicateGte:
		return fmt.Sprintf("%s >= ?", column), []interface{}{pred.Value.Interface()}, nil
	case queryfilter.PredicateLte:
		return fmt.Sprintf("%s <= ?", column), []interface{}{pred.Value.Interface()}, nil
	default:
		return "", nil, fmt.Errorf("gormfilter: unsupported predicate kind %q", pred.Kind)
	}
}

// column maps a field name and validates that the result is safe to
// interpolate. Parser fields are word characters only; a custom mapper may
// additionally qualify columns with a table name.
func (t *translator) column(field string) (string, error) {
	column := t.mapColumn(field)
	if column == "" {
		return "", fmt.Errorf("gormfilter: column mapping for field %q is empty", field)
	}
	for _, r := range column {
		if !isColumnChar(r) {
			return "", fmt.Errorf("gormfilter: column %q for field %q contains invalid character %q", column, field, r)
		}
	}
	return column, nil
}

func isColumnChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '.':
		return true
	}
	return false
}

// escapeLikePattern escapes LIKE wildcards so user input matches literally.
func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"%", "\\%",
		"_", "\\_",
	)
	return replacer.Replace(value)
}

// valueText renders the value the way it participates in a LIKE pattern.
// Strings contribute their raw content; other kinds use their literal form.
func valueText(value queryfilter.Value) string {
	if value.Kind == queryfilter.ValueString {
		return value.Str
	}
	if value.Kind == queryfilter.ValueNull {
		return "null"
	}
	return fmt.Sprint(value.Interface())
}
