package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsum/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

// maxBodyBytes bounds a pipeline request body.
const maxBodyBytes = 1 << 20

var rowKeywords = []string{"SELECT", "WITH", "PRAGMA", "EXPLAIN", "VALUES"}

// PipelineHandler serves the Hrana-over-HTTP pipeline endpoint from a local SQLite database.
//
// Streams are not kept between requests: every pipeline runs on its own and the baton is always null.
type PipelineHandler struct {
	db     *sql.DB
	logger *log.Logger
}

var _ Handler = (*PipelineHandler)(nil)

// NewPipelineHandler creates a new PipelineHandler over db.
func NewPipelineHandler(db *sql.DB, logger *log.Logger) *PipelineHandler {
	return &PipelineHandler{db: db, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PipelineHandler) Routes() []string {
	return []string{services.PipelinePath}
}

// ServeHTTP decodes a pipeline, runs each request in order and writes the results.
//
// Statement failures are reported per request with an "error" result and a 200 status.
func (h *PipelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req services.PipelineRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid pipeline request: %v", err))
		return
	}

	PipelineRequestsTotal.Inc()
	timer := prometheus.NewTimer(PipelineDuration)
	defer timer.ObserveDuration()

	resp := services.PipelineResponse{Results: make([]services.StreamResult, 0, len(req.Requests))}
	for _, sr := range req.Requests {
		result := h.run(r.Context(), sr)
		PipelineStatementsTotal.WithLabelValues(result.Type).Inc()
		resp.Results = append(resp.Results, result)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *PipelineHandler) run(ctx context.Context, sr services.StreamRequest) services.StreamResult {
	switch sr.Type {
	case "execute":
		if sr.Stmt == nil {
			return errorResult("execute request without stmt", "MISSING_STMT")
		}
		result, err := h.execute(ctx, *sr.Stmt)
		if err != nil {
			h.logger.Warn("statement failed", "sql", sr.Stmt.SQL, "error", err)
			return errorResult(err.Error(), "SQLITE_ERROR")
		}
		return services.StreamResult{
			Type:     "ok",
			Response: &services.StreamResponse{Type: "execute", Result: result},
		}
	case "close":
		return services.StreamResult{Type: "ok", Response: &services.StreamResponse{Type: "close"}}
	default:
		return errorResult(fmt.Sprintf("unsupported request type %q", sr.Type), "UNSUPPORTED")
	}
}

func (h *PipelineHandler) execute(ctx context.Context, stmt services.Stmt) (*services.StmtResult, error) {
	args := make([]any, len(stmt.Args))
	for i, a := range stmt.Args {
		v, err := a.Decode()
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = v
	}

	if returnsRows(stmt.SQL) {
		return h.query(ctx, stmt.SQL, args)
	}

	res, err := h.db.ExecContext(ctx, stmt.SQL, args...)
	if err != nil {
		return nil, err
	}

	result := &services.StmtResult{Cols: []services.Col{}, Rows: [][]services.Cell{}}
	if n, err := res.RowsAffected(); err == nil {
		result.AffectedRowCount = n
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		s := strconv.FormatInt(id, 10)
		result.LastInsertRowID = &s
	}
	return result, nil
}

func (h *PipelineHandler) query(ctx context.Context, query string, args []any) (*services.StmtResult, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	result := &services.StmtResult{Cols: make([]services.Col, len(types)), Rows: [][]services.Cell{}}
	for i, ct := range types {
		name, decl := ct.Name(), ct.DatabaseTypeName()
		result.Cols[i] = services.Col{Name: &name, Decltype: &decl}
	}

	for rows.Next() {
		values := make([]any, len(types))
		ptrs := make([]any, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]services.Cell, len(values))
		for i, v := range values {
			row[i] = services.NewCell(v, strings.EqualFold(types[i].DatabaseTypeName(), "BLOB"))
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

// returnsRows reports whether a statement produces a result set.
func returnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, kw := range rowKeywords {
		if strings.HasPrefix(q, kw) {
			return true
		}
	}
	return strings.Contains(q, " RETURNING ")
}

func errorResult(msg, code string) services.StreamResult {
	return services.StreamResult{Type: "error", Error: &services.StreamError{Message: msg, Code: code}}
}

// HealthHandler reports whether the database answers a ping.
func HealthHandler(db *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
