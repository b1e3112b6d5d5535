// package tasks holds the in-memory record list shared by the CLI and the TUI.
package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsum/internal/models"
	"github.com/desertthunder/ytsum/internal/repositories"
	"github.com/desertthunder/ytsum/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Store is the remote data access used by [Library].
type Store interface {
	List(ctx context.Context) (*repositories.QueryResult, error)
	Delete(ctx context.Context, id int64) error
}

// Outcome is the result of a library operation: a success flag, a human-readable message
// and a snapshot of the records after the operation.
type Outcome struct {
	Success bool
	Message string
	Records []models.Record
	Schema  models.Schema
	Err     error // cause of a failed operation
}

// Library owns the authoritative in-memory list of records.
//
// Operations are safe for concurrent use. When loads and deletes overlap, the last one to
// update the list wins.
type Library struct {
	mu      sync.RWMutex
	store   Store
	records []models.Record
	schema  models.Schema
	logger  *log.Logger
	loads   singleflight.Group
}

// NewLibrary creates an empty Library backed by store.
func NewLibrary(store Store, logger *log.Logger) *Library {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Library{store: store, logger: logger}
}

// Load fetches every record and replaces the in-memory list.
//
// On failure the current list is left untouched. Loads that overlap share a single
// remote query.
func (l *Library) Load(ctx context.Context) Outcome {
	// Joined callers share the first caller's ctx; a cancel there fails them all.
	v, err, joined := l.loads.Do("list", func() (any, error) {
		return l.store.List(ctx)
	})
	if joined {
		l.logger.Debug("joined in-flight load")
	}
	if err != nil {
		l.logger.Error("failed to load summaries", "error", err)
		return Outcome{Message: fmt.Sprintf("Error: %v", err), Records: l.Records(), Schema: l.Schema(), Err: err}
	}
	res := v.(*repositories.QueryResult)

	l.mu.Lock()
	l.records = slices.Clone(res.Records)
	l.schema = res.Schema
	l.mu.Unlock()

	l.logger.Info("loaded summaries", "count", len(res.Records), "schema", res.Schema, "skipped", res.Skipped)

	msg := fmt.Sprintf("Loaded %d videos", len(res.Records))
	switch {
	case len(res.Records) == 0:
		msg = "No videos found"
	case res.Schema == models.SchemaNarrow:
		msg += " (summaries unavailable)"
	}

	return Outcome{Success: true, Message: msg, Records: slices.Clone(res.Records), Schema: res.Schema}
}

// Delete removes record from the remote store and, on success, the entry with the same ID from the list.
func (l *Library) Delete(ctx context.Context, record models.Record) Outcome {
	if err := l.store.Delete(ctx, record.ID); err != nil {
		l.logger.Error("failed to delete summary", "id", record.ID, "error", err)
		return Outcome{Message: fmt.Sprintf("Delete failed: %v", err), Records: l.Records(), Schema: l.Schema(), Err: err}
	}

	l.mu.Lock()
	if i := slices.IndexFunc(l.records, func(r models.Record) bool { return r.ID == record.ID }); i >= 0 {
		l.records = slices.Delete(l.records, i, i+1)
	}
	snapshot := slices.Clone(l.records)
	schema := l.schema
	l.mu.Unlock()

	l.logger.Info("deleted summary", "id", record.ID)

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Deleted %q", record.Title),
		Records: snapshot,
		Schema:  schema,
	}
}

// Records returns a copy of the current list.
func (l *Library) Records() []models.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.records)
}

// Schema returns the projection of the last successful load.
func (l *Library) Schema() models.Schema {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.schema
}

// Find returns the record with the given ID.
func (l *Library) Find(id int64) (models.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}
