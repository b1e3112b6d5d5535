// package formatter renders summary records as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatMarkdown, FormatCSV, FormatText, FormatJSON}

// ParseFormat resolves a format name, accepting a few common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want one of md, csv, txt, json)", shared.ErrInvalidFlag, s)
	}
}

// Export renders records in the given format.
func Export(format Format, records []models.Record) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return ExportToMarkdown(records)
	case FormatCSV:
		return ExportToCSV(records)
	case FormatText:
		return ExportToText(records)
	case FormatJSON:
		return ExportToJSON(records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts records to CSV with columns: ID, Title, Author, Status, Link, Summary1, Summary2, Summary3, Transcript
func ExportToCSV(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Status", "Link", "Summary1", "Summary2", "Summary3", "Transcript"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.Author,
			r.Status,
			r.Link,
			r.Summary1,
			r.Summary2,
			r.Summary3,
			r.Transcript,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts records to a Markdown document with one section per video
func ExportToMarkdown(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Video Summaries\n\n")
	buf.WriteString(fmt.Sprintf("**Videos**: %d\n", len(records)))

	for _, r := range records {
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", r.Title))
		buf.WriteString(fmt.Sprintf("**Author**: %s\n", r.Author))
		buf.WriteString(fmt.Sprintf("**Status**: %s\n", r.Status))
		if r.Link != "" {
			buf.WriteString(fmt.Sprintf("**Link**: <%s>\n", r.Link))
		}

		if !r.HasSummaries() {
			buf.WriteString(fmt.Sprintf("\n_%s_\n", models.NoSummary))
			continue
		}

		for n := models.SummaryMin; n <= models.SummaryMax; n++ {
			s := r.Summary(n)
			if s == models.NoSummary {
				continue
			}
			buf.WriteString(fmt.Sprintf("\n### Summary %d\n\n%s\n", n, s))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts records to a numbered plain text listing
func ExportToText(records []models.Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(records)))

	for i, r := range records {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, r.Author, r.Title, r.Status))
		if r.Link != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", r.Link))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts records to an indented JSON array
func ExportToJSON(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	return shared.MarshalJSON(records, true)
}

// DefaultFilename returns summaries.{ext} for the format.
func DefaultFilename(format Format) string {
	return "summaries." + string(format)
}

// WriteExport renders records and writes them to path.
//
// Defaults to [DefaultFilename] when path is empty.
func WriteExport(format Format, records []models.Record, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(format)
	}

	data, err := Export(format, records)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
