package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytsum/internal/shared"
	tu "github.com/desertthunder/ytsum/internal/testing"
)

func TestPipelineClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			c := NewPipelineClient(PipelineOpts{BaseURL: "http://example.com/"})

			if c.BaseURL() != "http://example.com" {
				t.Errorf("expected trailing slash to be stripped, got %s", c.BaseURL())
			}
			if c.httpClient.Timeout != 10*time.Second {
				t.Errorf("expected 10s timeout, got %v", c.httpClient.Timeout)
			}
			if c.limiter != nil {
				t.Error("expected no limiter without requests_per_second")
			}
		})

		t.Run("With Limiter", func(t *testing.T) {
			c := NewPipelineClient(PipelineOpts{BaseURL: "http://example.com", RequestsPerSecond: 2})
			if c.limiter == nil {
				t.Error("expected limiter to be configured")
			}
		})
	})

	t.Run("NormalizeBaseURL", func(t *testing.T) {
		tc := map[string]string{
			"libsql://db-org.turso.io":   "https://db-org.turso.io",
			"https://db-org.turso.io/":   "https://db-org.turso.io",
			" http://127.0.0.1:8080 ":    "http://127.0.0.1:8080",
			"https://db-org.turso.io///": "https://db-org.turso.io",
		}
		for in, want := range tc {
			if got := NormalizeBaseURL(in); got != want {
				t.Errorf("NormalizeBaseURL(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("Execute", func(t *testing.T) {
		t.Run("Sends Pipeline Request", func(t *testing.T) {
			var captured PipelineRequest
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.URL.Path != "/v2/pipeline" {
					t.Errorf("expected path /v2/pipeline, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("expected bearer header, got %q", got)
				}
				if got := r.Header.Get("Content-Type"); got != "application/json" {
					t.Errorf("expected JSON content type, got %q", got)
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Error("expected request ID header")
				}
				if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				w.Write([]byte(tu.RowsBody([]any{1, "T"})))
			}))
			defer server.Close()

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL, AuthToken: "secret"})
			result, err := c.Execute(context.Background(), "DELETE FROM Youtube_Summaries WHERE ID = ?", int64(7))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(captured.Requests) != 1 || captured.Requests[0].Type != "execute" {
				t.Fatalf("expected one execute request, got %+v", captured.Requests)
			}
			stmt := captured.Requests[0].Stmt
			if stmt.SQL != "DELETE FROM Youtube_Summaries WHERE ID = ?" {
				t.Errorf("unexpected sql %q", stmt.SQL)
			}
			if len(stmt.Args) != 1 || stmt.Args[0].Type != TypeInteger || stmt.Args[0].Value != "7" {
				t.Errorf("expected integer arg \"7\", got %+v", stmt.Args)
			}

			if len(result.Rows) != 1 || len(result.Rows[0]) != 2 {
				t.Fatalf("expected a single 2-cell row, got %+v", result.Rows)
			}
			if id, _ := result.Rows[0][0].Int64(); id != 1 {
				t.Errorf("expected id 1, got %d", id)
			}
		})

		t.Run("Without Token Sends No Authorization", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "" {
					t.Errorf("expected no authorization header, got %q", got)
				}
				w.Write([]byte(tu.AffectedBody(0)))
			}))
			defer server.Close()

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})
			if _, err := c.Execute(context.Background(), "SELECT 1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Non-Success Status", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.StubResponse{Status: http.StatusUnauthorized, Body: "unauthorized"})

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if !strings.Contains(err.Error(), "status 401") {
				t.Errorf("expected status in error, got %v", err)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.OK("not json"))

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})

		t.Run("Empty Results", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.OK(`{"results":[]}`))

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})

		t.Run("Missing Statement Result", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.OK(`{"results":[{"type":"ok","response":{"type":"close"}}]}`))

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode, got %v", err)
			}
		})

		t.Run("Statement Error", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.OK(tu.ErrorBody("no such column: Summary1")))

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})
			_, err := c.Execute(context.Background(), "SELECT Summary1 FROM Youtube_Summaries")

			if !errors.Is(err, shared.ErrStatement) {
				t.Fatalf("expected ErrStatement, got %v", err)
			}
			if !strings.Contains(err.Error(), "no such column") {
				t.Errorf("expected store message in error, got %v", err)
			}
		})

		t.Run("Timeout", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer server.Close()

			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			c := NewPipelineClient(PipelineOpts{
				BaseURL:   "http://example.com",
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Canceled Context Keeps Cause", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.OK(tu.AffectedBody(0)))
			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := c.Execute(ctx, "SELECT 1")

			if !errors.Is(err, shared.ErrAPIRequest) || !errors.Is(err, context.Canceled) {
				t.Errorf("expected ErrAPIRequest wrapping context.Canceled, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			c := NewPipelineClient(PipelineOpts{
				BaseURL: "http://example.com",
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			})
			_, err := c.Execute(context.Background(), "SELECT 1")

			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read failure, got %v", err)
			}
		})

		t.Run("Unsupported Argument", func(t *testing.T) {
			c := NewPipelineClient(PipelineOpts{BaseURL: "http://example.com"})
			_, err := c.Execute(context.Background(), "SELECT ?", struct{}{})

			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("Canceled Context While Waiting On Limiter", func(t *testing.T) {
			server, _ := tu.NewStubServer(t, tu.OK(tu.AffectedBody(0)))
			c := NewPipelineClient(PipelineOpts{BaseURL: server.URL, RequestsPerSecond: 0.001})

			if _, err := c.Execute(context.Background(), "SELECT 1"); err != nil {
				t.Fatalf("first call should pass the limiter, got %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := c.Execute(ctx, "SELECT 1")
			if !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout from limiter, got %v", err)
			}
		})
	})
}
