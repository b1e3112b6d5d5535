package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/shared"
)

func sampleRecords() []models.Record {
	return []models.Record{
		{
			ID:       2,
			Title:    "Go Concurrency Patterns",
			Author:   "Rob Pike",
			Status:   "done",
			Summary1: "Channels orchestrate; mutexes serialize.",
			Summary3: "Don't communicate by sharing memory.",
			Link:     "https://youtu.be/f6kdp27TYZs",
		},
		{
			ID:         1,
			Title:      models.NoTitle,
			Author:     models.NoAuthor,
			Status:     models.NoStatus,
			Transcript: "line one, with a comma",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"md", FormatMarkdown},
		{"Markdown", FormatMarkdown},
		{"csv", FormatCSV},
		{"text", FormatText},
		{" txt ", FormatText},
		{"JSON", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	records := sampleRecords()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(records)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("CSV output does not parse: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(rows))
		}
		if strings.Join(rows[0], ",") != "ID,Title,Author,Status,Link,Summary1,Summary2,Summary3,Transcript" {
			t.Errorf("unexpected headers %v", rows[0])
		}
		if rows[1][0] != "2" || rows[1][1] != "Go Concurrency Patterns" {
			t.Errorf("unexpected first row %v", rows[1])
		}
		if rows[2][8] != "line one, with a comma" {
			t.Errorf("transcript not preserved: %q", rows[2][8])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(records)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Video Summaries",
			"**Videos**: 2",
			"## Go Concurrency Patterns",
			"**Author**: Rob Pike",
			"**Link**: <https://youtu.be/f6kdp27TYZs>",
			"### Summary 1\n\nChannels orchestrate; mutexes serialize.",
			"### Summary 3",
			"## No Title",
			"_No summary available_",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}

		if strings.Contains(output, "### Summary 2") {
			t.Error("Markdown should skip empty summaries")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(records)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "Videos: 2\n\n") {
			t.Errorf("Text missing count header, got: %s", output)
		}
		if !strings.Contains(output, "1. Rob Pike - Go Concurrency Patterns [done]\n   https://youtu.be/f6kdp27TYZs\n") {
			t.Errorf("Text missing first entry, got: %s", output)
		}
		if !strings.Contains(output, "2. No Author - No Title [Unknown]\n") {
			t.Errorf("Text missing second entry, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(records)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []models.Record
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON output does not parse: %v", err)
		}
		if len(decoded) != 2 || decoded[0] != records[0] {
			t.Errorf("unexpected JSON records %+v", decoded)
		}
	})

	t.Run("ExportToJSON Empty", func(t *testing.T) {
		data, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.md")

		got, err := WriteExport(FormatMarkdown, sampleRecords(), path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "# Video Summaries") {
			t.Error("export file missing content")
		}
	})

	t.Run("WithDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		got, err := WriteExport(FormatCSV, sampleRecords(), "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != "summaries.csv" {
			t.Errorf("expected summaries.csv, got %s", got)
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("export file not created: %v", err)
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := WriteExport(Format("yaml"), sampleRecords(), filepath.Join(t.TempDir(), "x"))
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}
