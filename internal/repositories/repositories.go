// package repositories maps rows of the remote summary table onto [models.Record].
package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"

	sq "github.com/Masterminds/squirrel"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/services"
	"github.com/desertthunder/ytsum/internal/shared"
)

// SummaryTable is the remote table holding summary records.
const SummaryTable = "Youtube_Summaries"

var (
	wideColumns   = []string{"ID", "Title", "Author", "Status", "Transcript", "Summary1", "Summary2", "Summary3", "Link"}
	narrowColumns = []string{"ID", "Title", "Author", "Status", "Transcript", "Link"}
)

// Columns returns the projection selected for schema.
func Columns(schema models.Schema) []string {
	if schema == models.SchemaNarrow {
		return append([]string(nil), narrowColumns...)
	}
	return append([]string(nil), wideColumns...)
}

// QueryResult is a set of records tagged with the projection that produced them.
type QueryResult struct {
	Schema  models.Schema
	Records []models.Record
	Skipped int
}

// SummaryRepository reads and deletes summary records through a [services.Executor].
type SummaryRepository struct {
	exec   services.Executor
	logger *log.Logger
}

// NewSummaryRepository creates a new SummaryRepository over exec.
func NewSummaryRepository(exec services.Executor, logger *log.Logger) *SummaryRepository {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &SummaryRepository{exec: exec, logger: logger}
}

// List returns every record, newest first.
//
// The wide projection is tried first; when it fails exactly one narrow query is issued.
func (r *SummaryRepository) List(ctx context.Context) (*QueryResult, error) {
	return r.queryWithFallback(ctx, nil)
}

// Get returns the record with the given ID.
func (r *SummaryRepository) Get(ctx context.Context, id int64) (models.Record, error) {
	res, err := r.queryWithFallback(ctx, sq.Eq{"ID": id})
	if err != nil {
		return models.Record{}, err
	}
	if len(res.Records) == 0 {
		return models.Record{}, fmt.Errorf("%w: %d", shared.ErrRecordNotFound, id)
	}
	return res.Records[0], nil
}

// Delete removes the record with the given ID from the remote store.
//
// The store does not distinguish a missing row from a deleted one; a zero affected count is only logged.
func (r *SummaryRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(SummaryTable).Where(sq.Eq{"ID": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.exec.Execute(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete summary %d: %w", id, err)
	}

	if result.AffectedRowCount == 0 {
		r.logger.Warn("delete affected no rows", "id", id)
	}
	return nil
}

func (r *SummaryRepository) queryWithFallback(ctx context.Context, where sq.Sqlizer) (*QueryResult, error) {
	res, wideErr := r.query(ctx, models.SchemaWide, where)
	if wideErr == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", wideErr)
	}

	r.logger.Warn("wide query failed, falling back to narrow projection", "error", wideErr)

	res, narrowErr := r.query(ctx, models.SchemaNarrow, where)
	if narrowErr != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", errors.Join(wideErr, narrowErr))
	}
	return res, nil
}

func (r *SummaryRepository) query(ctx context.Context, schema models.Schema, where sq.Sqlizer) (*QueryResult, error) {
	builder := sq.Select(Columns(schema)...).From(SummaryTable).OrderBy("ID DESC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s select: %w", schema, err)
	}

	result, err := r.exec.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := &QueryResult{Schema: schema, Records: make([]models.Record, 0, len(result.Rows))}
	for i, row := range result.Rows {
		record, err := MapRow(schema, row)
		if err != nil {
			r.logger.Warn("skipping row", "index", i, "schema", schema, "error", err)
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, record)
	}
	return out, nil
}
