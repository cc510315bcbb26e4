// =============================================================================
// Survey Ingestor - Run Records
// =============================================================================
//
// Typed outcomes for the two public entry points. Every ingestion run,
// successful or not, produces exactly one RunRecord; a directory batch
// produces one BatchSummary aggregating its per-file records. These replace
// the loose status dictionaries of the pipeline's predecessor so callers get
// field access instead of string-keyed lookups.
//
// A RunRecord is immutable once logged.
//
// =============================================================================

package ingest

import (
	"go.uber.org/zap"

	"github.com/resiliencescan/ingestor/internal/audit"
)

// Status is the terminal state of an ingestion run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// RunRecord is the structured outcome of one ingestion invocation.
type RunRecord struct {
	// RunID uniquely identifies this run in the audit log.
	RunID string

	// Source is the base name of the ingested file.
	Source string

	// Format is the detected input format ("xlsx", "csv", ...).
	Format string

	// Encoding is the encoding that decoded the file, "binary" for
	// spreadsheets.
	Encoding string

	// RowsLoaded is the number of data rows loaded from the source.
	RowsLoaded int

	// RowsAdded, RowsUpdated and RowsUnchanged are the upsert merge
	// counters against the working dataset.
	RowsAdded     int
	RowsUpdated   int
	RowsUnchanged int

	// ColumnsAdded lists columns this run introduced, sorted.
	ColumnsAdded []string

	// TotalRows and TotalColumns describe the working dataset after merge.
	TotalRows    int
	TotalColumns int

	// Status is the terminal status of the run.
	Status Status

	// Err is the human-readable failure description, empty on success.
	Err string
}

// Succeeded reports whether the run completed.
func (r *RunRecord) Succeeded() bool {
	return r.Status == StatusSuccess
}

// logTo writes the structured audit trail for this run: one line with every
// numeric field, one extra line when columns were added, and the error text
// at error severity when the run failed.
func (r *RunRecord) logTo(log *audit.Logger) {
	log.Info("INGESTION",
		zap.String("run_id", r.RunID),
		zap.String("source", r.Source),
		zap.String("format", r.Format),
		zap.String("encoding", r.Encoding),
		zap.Int("rows_loaded", r.RowsLoaded),
		zap.Int("rows_added", r.RowsAdded),
		zap.Int("rows_updated", r.RowsUpdated),
		zap.Int("rows_unchanged", r.RowsUnchanged),
		zap.Int("columns_added", len(r.ColumnsAdded)),
		zap.Int("total_rows", r.TotalRows),
		zap.Int("total_columns", r.TotalColumns),
		zap.String("status", string(r.Status)))

	if len(r.ColumnsAdded) > 0 {
		log.Info("new columns added",
			zap.String("run_id", r.RunID),
			zap.Strings("columns", r.ColumnsAdded))
	}
	if r.Err != "" {
		log.Error("ingestion error",
			zap.String("run_id", r.RunID),
			zap.String("source", r.Source),
			zap.String("error", r.Err))
	}
}

// BatchSummary aggregates the per-file records of one directory ingestion.
type BatchSummary struct {
	// TotalFiles is the number of supported files discovered.
	TotalFiles int

	// Succeeded and Failed count terminal statuses.
	Succeeded int
	Failed    int

	// RowsAdded and RowsUpdated are summed across successful runs.
	RowsAdded   int
	RowsUpdated int

	// ColumnsAdded is the deduplicated, sorted union of columns added
	// across the batch.
	ColumnsAdded []string

	// Errors holds one "<file>: <error>" entry per failed file.
	Errors []string

	// Records holds every per-file run record in processing order.
	Records []RunRecord
}
