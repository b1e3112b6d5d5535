// package testing contains shared testing utilities
package testing

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	sq "github.com/Masterminds/squirrel"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// StubResponse is one canned reply of a [StubPipeline].
type StubResponse struct {
	Status int
	Body   string
}

// RecordedRequest is a pipeline statement captured by a [StubPipeline].
type RecordedRequest struct {
	SQL    string
	Args   []map[string]any
	Header http.Header
}

// StubPipeline replays canned pipeline responses in order and records every statement it receives.
//
// Once the responses run out the last one is repeated.
type StubPipeline struct {
	mu        sync.Mutex
	responses []StubResponse
	requests  []RecordedRequest
}

func (s *StubPipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Requests []struct {
			Type string `json:"type"`
			Stmt struct {
				SQL  string           `json:"sql"`
				Args []map[string]any `json:"args"`
			} `json:"stmt"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	for _, req := range body.Requests {
		s.requests = append(s.requests, RecordedRequest{SQL: req.Stmt.SQL, Args: req.Stmt.Args, Header: r.Header.Clone()})
	}
	resp := StubResponse{Status: http.StatusInternalServerError, Body: "no stub response"}
	if len(s.responses) > 0 {
		resp = s.responses[0]
		if len(s.responses) > 1 {
			s.responses = s.responses[1:]
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	w.Write([]byte(resp.Body))
}

// Requests returns a copy of the statements received so far.
func (s *StubPipeline) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// NewStubServer starts an [httptest.Server] backed by a [StubPipeline] and closes it when the test ends.
func NewStubServer(t *testing.T, responses ...StubResponse) (*httptest.Server, *StubPipeline) {
	t.Helper()
	stub := &StubPipeline{responses: responses}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return srv, stub
}

// OK wraps a pipeline body in a 200 [StubResponse].
func OK(body string) StubResponse {
	return StubResponse{Status: http.StatusOK, Body: body}
}

// RowsBody builds a successful pipeline response body whose rows hold the given Go values.
func RowsBody(rows ...[]any) string {
	encoded := make([][]map[string]any, len(rows))
	for i, row := range rows {
		encoded[i] = make([]map[string]any, len(row))
		for j, v := range row {
			encoded[i][j] = Cell(v)
		}
	}
	return mustJSON(map[string]any{
		"baton":    nil,
		"base_url": nil,
		"results": []any{map[string]any{
			"type": "ok",
			"response": map[string]any{
				"type": "execute",
				"result": map[string]any{
					"cols":               []any{},
					"rows":               encoded,
					"affected_row_count": 0,
					"last_insert_rowid":  nil,
				},
			},
		}},
	})
}

// AffectedBody builds a successful pipeline response for a statement without rows.
func AffectedBody(n int) string {
	return mustJSON(map[string]any{
		"results": []any{map[string]any{
			"type": "ok",
			"response": map[string]any{
				"type":   "execute",
				"result": map[string]any{"cols": []any{}, "rows": []any{}, "affected_row_count": n},
			},
		}},
	})
}

// ErrorBody builds a pipeline response whose statement failed.
func ErrorBody(message string) string {
	return mustJSON(map[string]any{
		"results": []any{map[string]any{
			"type":  "error",
			"error": map[string]any{"message": message, "code": "SQLITE_ERROR"},
		}},
	})
}

// Cell encodes a Go value the way the hosted store does.
func Cell(v any) map[string]any {
	switch x := v.(type) {
	case nil:
		return map[string]any{"type": "null"}
	case int:
		return map[string]any{"type": "integer", "value": strconv.Itoa(x)}
	case int64:
		return map[string]any{"type": "integer", "value": strconv.FormatInt(x, 10)}
	case float64:
		return map[string]any{"type": "float", "value": x}
	case string:
		return map[string]any{"type": "text", "value": x}
	default:
		return map[string]any{"type": "text", "value": fmt.Sprint(x)}
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// SummaryRow is a row inserted by [SeedSummaries]; nil pointers become NULL.
type SummaryRow struct {
	Title, Author, Status, Transcript  *string
	Summary1, Summary2, Summary3, Link *string
}

// Str returns a pointer to s for [SummaryRow] literals.
func Str(s string) *string { return &s }

// SeedSummaries inserts rows into the Youtube_Summaries table of db.
func SeedSummaries(t *testing.T, db *sql.DB, rows ...SummaryRow) {
	t.Helper()
	for _, r := range rows {
		query, args, err := sq.Insert("Youtube_Summaries").
			Columns("Title", "Author", "Status", "Transcript", "Summary1", "Summary2", "Summary3", "Link").
			Values(r.Title, r.Author, r.Status, r.Transcript, r.Summary1, r.Summary2, r.Summary3, r.Link).
			ToSql()
		if err != nil {
			t.Fatalf("failed to build insert: %v", err)
		}
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("failed to seed summary: %v", err)
		}
	}
}
