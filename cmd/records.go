package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/ytsum/internal/formatter"
	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/urfave/cli/v3"
)

// List prints every record, newest first.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	out := r.library.Load(ctx)
	if !out.Success {
		return fmt.Errorf("failed to load summaries: %w", out.Err)
	}

	records := out.Records
	if limit := cmd.Int("limit"); limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	if cmd.Bool("json") {
		if records == nil {
			records = []models.Record{}
		}
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("%s\n", out.Message)
	}

	r.writePlainHeader(fmt.Sprintf("Video Summaries (%d)", len(out.Records)))
	for _, rec := range records {
		r.writePlain("%5d  %s - %s [%s]\n", rec.ID, rec.Author, shared.Truncate(rec.Title, 60), rec.Status)
	}
	if out.Schema == models.SchemaNarrow {
		r.writePlainln("Note: summary columns are unavailable in this database")
	}
	return nil
}

// Show prints a single record with the selected summary.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	n := cmd.Int("summary")
	if n < models.SummaryMin || n > models.SummaryMax {
		return fmt.Errorf("%w: --summary must be between %d and %d", shared.ErrInvalidFlag, models.SummaryMin, models.SummaryMax)
	}

	if err := r.connect(); err != nil {
		return err
	}

	record, err := r.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := r.opener(record.Link); err != nil {
			return fmt.Errorf("failed to open link: %w", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, true)
	}

	r.writePlainHeader(record.Title)
	r.writePlain("By: %s\n", record.Author)
	r.writePlain("Status: %s\n", record.Status)
	if record.Link != "" {
		r.writePlain("Link: %s\n", record.Link)
	}

	summaries := []int{n}
	if cmd.Bool("all") {
		summaries = []int{1, 2, 3}
	}
	for _, i := range summaries {
		r.writePlainln("Summary %d:", i)
		r.writePlain("%s\n", record.Summary(i))
	}

	if cmd.Bool("transcript") && record.Transcript != "" {
		r.writePlainln("Transcript:")
		r.writePlain("%s\n", record.Transcript)
	}
	return nil
}

// Delete removes a record by ID.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := r.connect(); err != nil {
		return err
	}

	record, err := r.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	out := r.library.Delete(ctx, record)
	if !out.Success {
		return fmt.Errorf("delete failed: %w", out.Err)
	}

	return r.writePlain("✓ %s\n", out.Message)
}

// Export renders all records with the selected formatter.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.connect(); err != nil {
		return err
	}

	out := r.library.Load(ctx)
	if !out.Success {
		return fmt.Errorf("failed to load summaries: %w", out.Err)
	}

	path := cmd.String("output")
	if path == "-" {
		data, err := formatter.Export(format, out.Records)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	written, err := formatter.WriteExport(format, out.Records, path)
	if err != nil {
		return err
	}

	r.logger.Info("export complete", "format", format, "records", len(out.Records), "path", written)
	return r.writePlain("✓ Exported %d records to %s\n", len(out.Records), written)
}

// queryOutput is the JSON shape printed by [Runner.Query].
type queryOutput struct {
	Columns          []string `json:"columns"`
	Rows             [][]any  `json:"rows"`
	AffectedRowCount int64    `json:"affected_row_count"`
	LastInsertRowID  *string  `json:"last_insert_rowid,omitempty"`
}

// Query executes a raw statement and prints the decoded result.
func (r *Runner) Query(ctx context.Context, cmd *cli.Command) error {
	sql := strings.TrimSpace(cmd.StringArg("sql"))
	if sql == "" {
		return fmt.Errorf("%w: sql", shared.ErrMissingArgument)
	}

	if err := r.connect(); err != nil {
		return err
	}

	res, err := r.client.Execute(ctx, sql)
	if err != nil {
		return err
	}

	out := queryOutput{
		Columns:          res.ColumnNames(),
		Rows:             make([][]any, len(res.Rows)),
		AffectedRowCount: res.AffectedRowCount,
		LastInsertRowID:  res.LastInsertRowID,
	}
	for i, row := range res.Rows {
		out.Rows[i] = make([]any, len(row))
		for j, cell := range row {
			out.Rows[i][j] = cell.Any()
		}
	}

	return r.writeJSON(out, cmd.Bool("pretty"))
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a record ID", shared.ErrInvalidArgument, s)
	}
	return id, nil
}
