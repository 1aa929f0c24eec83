package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	queryfilter "github.com/sepehr-mohseni/go-queryfilter"
	"github.com/sepehr-mohseni/go-queryfilter/gormfilter"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dsn := flag.String("dsn", "", "PostgreSQL DSN; uses an in-memory SQLite database when empty")
	fields := flag.String("fields", "status,priority,name,price,is_active,deleted_at",
		"comma-separated whitelist of queryable fields; empty allows any field")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := openDatabase(*dsn)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&Task{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	sampleTasks := SampleTasks()
	if err := db.Create(&sampleTasks).Error; err != nil {
		log.Fatal("Failed to seed database:", err)
	}
	fmt.Printf("Database initialized with %d tasks\n\n", len(sampleTasks))

	opts := []queryfilter.Option{
		queryfilter.WithLogger(logger),
		queryfilter.WithCache(256),
		queryfilter.WithServerTiming(),
		queryfilter.WithServiceName("filterdemo"),
	}
	if *fields != "" {
		opts = append(opts, queryfilter.WithAllowedFields(splitFields(*fields)...))
	}
	parser := queryfilter.NewParser(opts...)

	showcase(parser)

	mux := http.NewServeMux()
	mux.Handle("/tasks", &taskHandler{db: db, parser: parser, logger: logger})
	handler := requestIDMiddleware(servertiming.Middleware(mux, nil))

	fmt.Println("Filter playground listening on", *addr)
	fmt.Println("Try:")
	fmt.Println("  curl 'http://localhost:8080/tasks'")
	fmt.Println("  curl 'http://localhost:8080/tasks?q=status:active'")
	fmt.Println("  curl 'http://localhost:8080/tasks?q=status:active%20AND%20priority>=2'")
	fmt.Println(`  curl 'http://localhost:8080/tasks?q=name~="login"%20OR%20price<20'`)
	fmt.Println("  curl 'http://localhost:8080/tasks?q=deleted_at:null'")
	fmt.Println()

	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func openDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
	if dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(":memory:"), cfg)
}

func splitFields(list string) []string {
	parts := strings.Split(list, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// showcase prints a short tour of the query language so the demo is useful
// without a single HTTP request.
func showcase(parser *queryfilter.Parser) {
	queries := []string{
		``,
		`status:active`,
		`status:active AND priority>2`,
		`(priority>=2 AND is_active:true) OR name~="login"`,
		`deleted_at:null`,
		`price<=99.99 OR price>500`,
		`name~="phone" AND status!=done`,
		`secret_field:1`,
		`status:active AND`,
	}

	fmt.Println("Query language tour:")
	for _, query := range queries {
		expr, err := parser.Parse(query)
		switch {
		case err != nil:
			fmt.Printf("  %-55q -> rejected: %v\n", query, err)
		case queryfilter.IsMatchAll(expr):
			fmt.Printf("  %-55q -> matches everything\n", query)
		default:
			fmt.Printf("  %-55q -> %s\n", query, expr.String())
		}
	}
	fmt.Println()
}

type taskHandler struct {
	db     *gorm.DB
	parser *queryfilter.Parser
	logger *slog.Logger
}

func (h *taskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	query := r.URL.Query().Get("q")
	start := time.Now()

	expr, err := h.parser.ParseContext(ctx, query)
	if err != nil {
		h.writeError(w, r, query, err)
		return
	}

	tx, err := gormfilter.Apply(h.db.WithContext(ctx).Model(&Task{}), expr)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
		return
	}

	var dbMetric *servertiming.Metric
	if timing := servertiming.FromContext(ctx); timing != nil {
		dbMetric = timing.NewMetric("db").WithDesc("database query").Start()
	}
	var tasks []Task
	findErr := tx.Find(&tasks).Error
	if dbMetric != nil {
		dbMetric.Stop()
	}
	if findErr != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": findErr.Error()})
		return
	}

	h.logger.InfoContext(ctx, "query executed",
		"request_id", requestIDFrom(ctx),
		"query", query,
		"count", len(tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":  query,
		"filter": expr.String(),
		"count":  len(tasks),
		"tasks":  tasks,
	})
}

func (h *taskHandler) writeError(w http.ResponseWriter, r *http.Request, query string, err error) {
	h.logger.WarnContext(r.Context(), "query rejected",
		"request_id", requestIDFrom(r.Context()),
		"query", query,
		"error", err,
	)

	body := map[string]interface{}{"error": err.Error()}
	var invalid *queryfilter.InvalidQueryError
	if errors.As(err, &invalid) {
		body["kind"] = string(invalid.Kind)
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
