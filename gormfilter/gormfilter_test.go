package gormfilter

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	queryfilter "github.com/sepehr-mohseni/go-queryfilter"
)

// task is the table the end-to-end tests filter against.
type task struct {
	ID        uint `gorm:"primarykey"`
	Name      string
	Status    string
	Priority  int
	Price     float64
	IsActive  bool
	DeletedAt *time.Time
}

func parse(t *testing.T, query string) queryfilter.FilterExpression {
	t.Helper()
	expr, err := queryfilter.Parse(query)
	require.NoError(t, err, "Failed to parse query: %s", query)
	return expr
}

func TestCondition(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "Exact string",
			query:    "status:active",
			wantSQL:  "status = ?",
			wantArgs: []interface{}{"active"},
		},
		{
			name:     "Exact boolean",
			query:    "is_active:true",
			wantSQL:  "is_active = ?",
			wantArgs: []interface{}{true},
		},
		{
			name:    "Exact null",
			query:   "deleted_at:null",
			wantSQL: "deleted_at IS NULL",
		},
		{
			name:     "Greater than",
			query:    "priority>2",
			wantSQL:  "priority > ?",
			wantArgs: []interface{}{int64(2)},
		},
		{
			name:     "Less than",
			query:    "priority<2",
			wantSQL:  "priority < ?",
			wantArgs: []interface{}{int64(2)},
		},
		{
			name:     "Greater or equal float",
			query:    "price>=10.5",
			wantSQL:  "price >= ?",
			wantArgs: []interface{}{10.5},
		},
		{
			name:     "Less or equal",
			query:    "price<=99.99",
			wantSQL:  "price <= ?",
			wantArgs: []interface{}{99.99},
		},
		{
			name:     "Contains lowercases the pattern",
			query:    `name~="Phone"`,
			wantSQL:  `LOWER(name) LIKE ? ESCAPE '\'`,
			wantArgs: []interface{}{"%phone%"},
		},
		{
			name:     "Contains escapes wildcards",
			query:    `note~="100%_done"`,
			wantSQL:  `LOWER(note) LIKE ? ESCAPE '\'`,
			wantArgs: []interface{}{`%100\%\_done%`},
		},
		{
			name:     "Contains with numeric value",
			query:    "name~=42",
			wantSQL:  `LOWER(name) LIKE ? ESCAPE '\'`,
			wantArgs: []interface{}{"%42%"},
		},
		{
			name:     "Negated exact",
			query:    "status!=done",
			wantSQL:  "NOT (status = ?)",
			wantArgs: []interface{}{"done"},
		},
		{
			name:    "Negated null",
			query:   "deleted_at!=null",
			wantSQL: "NOT (deleted_at IS NULL)",
		},
		{
			name:     "Conjunction",
			query:    "a:1 AND b:2",
			wantSQL:  "(a = ?) AND (b = ?)",
			wantArgs: []interface{}{int64(1), int64(2)},
		},
		{
			name:     "Precedence grouping",
			query:    "a:1 OR b:2 AND c:3",
			wantSQL:  "(a = ?) OR ((b = ?) AND (c = ?))",
			wantArgs: []interface{}{int64(1), int64(2), int64(3)},
		},
		{
			name:     "Explicit grouping",
			query:    "(a:1 OR b:2) AND c:3",
			wantSQL:  "((a = ?) OR (b = ?)) AND (c = ?)",
			wantArgs: []interface{}{int64(1), int64(2), int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := Condition(parse(t, tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestConditionMatchAll(t *testing.T) {
	sql, args, err := Condition(parse(t, ""))
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestConditionNilExpression(t *testing.T) {
	_, _, err := Condition(nil)
	assert.ErrorIs(t, err, errNilExpression)
}

func TestConditionColumnMapper(t *testing.T) {
	mapper := func(field string) string { return "tasks." + field }

	sql, args, err := Condition(parse(t, "status:active"), WithColumnMapper(mapper))
	require.NoError(t, err)
	assert.Equal(t, "tasks.status = ?", sql)
	assert.Equal(t, []interface{}{"active"}, args)
}

func TestConditionRejectsUnsafeColumns(t *testing.T) {
	tests := []struct {
		name   string
		mapper ColumnMapper
	}{
		{"Empty column", func(string) string { return "" }},
		{"Injected quote", func(string) string { return `status" OR 1=1 --` }},
		{"Whitespace", func(string) string { return "status name" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Condition(parse(t, "status:active"), WithColumnMapper(tt.mapper))
			assert.Error(t, err)
		})
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")
	require.NoError(t, db.AutoMigrate(&task{}))

	yesterday := time.Now().Add(-24 * time.Hour)
	seed := []task{
		{Name: "Fix login bug", Status: "active", Priority: 3, Price: 10, IsActive: true},
		{Name: "Write docs", Status: "done", Priority: 1, Price: 5, IsActive: false},
		{Name: "Phone support rota", Status: "active", Priority: 2, Price: 99.99, IsActive: false, DeletedAt: &yesterday},
		{Name: "Plan 100% coverage", Status: "blocked", Priority: 5, Price: 42.5, IsActive: true},
	}
	require.NoError(t, db.Create(&seed).Error)
	return db
}

func queryNames(t *testing.T, db *gorm.DB, query string) []string {
	t.Helper()
	tx, err := Apply(db.Model(&task{}), parse(t, query))
	require.NoError(t, err, "Failed to apply query: %s", query)

	var tasks []task
	require.NoError(t, tx.Find(&tasks).Error, "Query failed: %s", query)

	names := make([]string, 0, len(tasks))
	for _, item := range tasks {
		names = append(names, item.Name)
	}
	sort.Strings(names)
	return names
}

func TestApplySQLite(t *testing.T) {
	db := openTestDB(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "Exact match",
			query: "status:active",
			want:  []string{"Fix login bug", "Phone support rota"},
		},
		{
			name:  "Conjunction",
			query: "status:active AND priority>2",
			want:  []string{"Fix login bug"},
		},
		{
			name:  "Case-insensitive contains",
			query: `name~="PHONE"`,
			want:  []string{"Phone support rota"},
		},
		{
			name:  "Contains treats wildcards literally",
			query: `name~="100%"`,
			want:  []string{"Plan 100% coverage"},
		},
		{
			name:  "Null check",
			query: "deleted_at:null",
			want:  []string{"Fix login bug", "Plan 100% coverage", "Write docs"},
		},
		{
			name:  "Negated null check",
			query: "deleted_at!=null",
			want:  []string{"Phone support rota"},
		},
		{
			name:  "Negation",
			query: "status!=active",
			want:  []string{"Plan 100% coverage", "Write docs"},
		},
		{
			name:  "Boolean match",
			query: "is_active:true",
			want:  []string{"Fix login bug", "Plan 100% coverage"},
		},
		{
			name:  "Float comparison",
			query: "price<=42.5",
			want:  []string{"Fix login bug", "Plan 100% coverage", "Write docs"},
		},
		{
			name:  "Disjunction with grouping",
			query: "(priority>=3 AND is_active:true) OR status:done",
			want:  []string{"Fix login bug", "Plan 100% coverage", "Write docs"},
		},
		{
			name:  "Empty query matches everything",
			query: "",
			want:  []string{"Fix login bug", "Phone support rota", "Plan 100% coverage", "Write docs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryNames(t, db, tt.query))
		})
	}
}

func TestApplyMatchAllLeavesDBUntouched(t *testing.T) {
	db := openTestDB(t)

	tx, err := Apply(db, parse(t, ""))
	require.NoError(t, err)
	assert.Same(t, db, tx)
}
