package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/server"
	"github.com/desertthunder/ytsum/internal/services"
	"github.com/desertthunder/ytsum/internal/shared"
	tu "github.com/desertthunder/ytsum/internal/testing"
)

type testEnv struct {
	runner *Runner
	output *bytes.Buffer
	db     *sql.DB
	opened []string
}

// newTestEnv wires a runner to a pipeline server over an in-memory store seeded with three records.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Chdir(t.TempDir())

	db, err := shared.OpenSummaryStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tu.SeedSummaries(t, db,
		tu.SummaryRow{Title: tu.Str("Intro to Go"), Author: tu.Str("gopher"), Status: tu.Str("done"), Summary1: tu.Str("Go is simple."), Summary2: tu.Str("Go compiles fast."), Link: tu.Str("https://youtu.be/go")},
		tu.SummaryRow{Author: tu.Str("anon")},
		tu.SummaryRow{Title: tu.Str("Latest"), Author: tu.Str("someone"), Status: tu.Str("pending")},
	)

	srv := httptest.NewServer(server.New(db, server.Opts{AuthToken: "tok"}))
	t.Cleanup(srv.Close)

	env := &testEnv{output: &bytes.Buffer{}, db: db}
	env.runner = NewRunner(RunnerOpts{
		Client: services.NewPipelineClient(services.PipelineOpts{BaseURL: srv.URL, AuthToken: "tok"}),
		Logger: shared.NewLogger(io.Discard),
		Output: env.output,
		Opener: func(url string) error {
			env.opened = append(env.opened, url)
			return nil
		},
	})
	return env
}

func (e *testEnv) run(args ...string) error {
	return newApp(e.runner).Run(context.Background(), append([]string{"ytsum"}, args...))
}

func TestListCommand(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "Video Summaries (3)") {
			t.Errorf("missing header, got %s", out)
		}
		latest, intro := strings.Index(out, "Latest"), strings.Index(out, "Intro to Go")
		if latest < 0 || intro < 0 || latest > intro {
			t.Errorf("expected newest first, got %s", out)
		}
		if !strings.Contains(out, "anon - No Title [Unknown]") {
			t.Errorf("expected placeholders for null fields, got %s", out)
		}
	})

	t.Run("JSON With Limit", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("list", "--json", "--limit", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var records []models.Record
		if err := json.Unmarshal(env.output.Bytes(), &records); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(records) != 2 || records[0].ID != 3 || records[1].ID != 2 {
			t.Errorf("unexpected records %+v", records)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		env := newTestEnv(t)
		if _, err := env.db.Exec("DELETE FROM Youtube_Summaries"); err != nil {
			t.Fatalf("failed to clear table: %v", err)
		}
		if err := env.run("list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(env.output.String()) != "No videos found" {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("Selected Summary", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("show", "--summary", "2", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Intro to Go", "By: gopher", "Summary 2:", "Go compiles fast."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %s", want, out)
			}
		}
		if strings.Contains(out, "Go is simple.") {
			t.Error("expected only summary 2")
		}
	})

	t.Run("All Summaries And Open", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("show", "--all", "--open", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(env.output.String(), "Summary 3:\n"+models.NoSummary) {
			t.Errorf("expected placeholder for empty summary, got %s", env.output.String())
		}
		if len(env.opened) != 1 || env.opened[0] != "https://youtu.be/go" {
			t.Errorf("expected link to be opened, got %v", env.opened)
		}
	})

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"Missing ID", []string{"show"}, shared.ErrMissingArgument},
		{"Bad ID", []string{"show", "abc"}, shared.ErrInvalidArgument},
		{"Summary Out Of Range", []string{"show", "--summary", "4", "1"}, shared.ErrInvalidFlag},
		{"Unknown Record", []string{"show", "99"}, shared.ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDeleteCommand(t *testing.T) {
	t.Run("Deletes Record", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("delete", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(env.output.String(), `Deleted "No Title"`) {
			t.Errorf("unexpected output %s", env.output.String())
		}

		var n int
		if err := env.db.QueryRow("SELECT COUNT(*) FROM Youtube_Summaries").Scan(&n); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 rows left, got %d", n)
		}
	})

	t.Run("Unknown Record", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("delete", "42"); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("To File", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("export", "--format", "csv"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile("summaries.csv")
		if err != nil {
			t.Fatalf("export file missing: %v", err)
		}
		if lines := strings.Count(string(data), "\n"); lines != 4 {
			t.Errorf("expected header + 3 rows, got %d lines", lines)
		}
		if !strings.Contains(env.output.String(), "Exported 3 records to summaries.csv") {
			t.Errorf("unexpected output %s", env.output.String())
		}
	})

	t.Run("To Stdout", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("export", "--format", "txt", "--output", "-"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(env.output.String(), "Videos: 3\n") {
			t.Errorf("unexpected output %s", env.output.String())
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("export", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestQueryCommand(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("query", "SELECT ID, Title FROM Youtube_Summaries WHERE ID = 1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var out queryOutput
		if err := json.Unmarshal(env.output.Bytes(), &out); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if strings.Join(out.Columns, ",") != "ID,Title" {
			t.Errorf("unexpected columns %v", out.Columns)
		}
		if len(out.Rows) != 1 || out.Rows[0][1] != "Intro to Go" {
			t.Errorf("unexpected rows %v", out.Rows)
		}
	})

	t.Run("Statement Error", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("query", "SELECT * FROM nowhere"); !errors.Is(err, shared.ErrStatement) {
			t.Errorf("expected ErrStatement, got %v", err)
		}
	})

	t.Run("Missing SQL", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("query"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("Config Created And Updated", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("setup", "config", "--url", "libsql://db.example.io", "--token", "abc"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := shared.LoadConfig("config.toml")
		if err != nil {
			t.Fatalf("failed to load written config: %v", err)
		}
		if config.Database.URL != "libsql://db.example.io" || config.Database.AuthToken != "abc" {
			t.Errorf("unexpected database config %+v", config.Database)
		}

		info, err := os.Stat("config.toml")
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
		}
	})

	t.Run("Database", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "local.db")
		env.runner.config.Server.Path = path

		if err := env.runner.SetupDatabase(context.Background(), nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected database file: %v", err)
		}
	})

	t.Run("Explicit Missing Config", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("--config", "missing.toml", "list"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestServeCommand(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "serve.db")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newApp(env.runner).Run(ctx, []string{"ytsum", "serve", "--host", "127.0.0.1", "--port", "0", "--path", path})
	if err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file: %v", err)
	}
	if !strings.Contains(env.output.String(), services.PipelinePath) {
		t.Errorf("unexpected output %s", env.output.String())
	}
}

func TestCommandsInterrupted(t *testing.T) {
	for _, args := range [][]string{{"list"}, {"show", "1"}, {"delete", "1"}, {"export", "--output", "-"}} {
		t.Run(args[0], func(t *testing.T) {
			env := newTestEnv(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := newApp(env.runner).Run(ctx, append([]string{"ytsum"}, args...))
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled in chain, got %v", err)
			}
		})
	}
}
