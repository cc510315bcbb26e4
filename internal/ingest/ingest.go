// =============================================================================
// Survey Ingestor - File Orchestrator
// =============================================================================
//
// Sequences the full pipeline for one input file:
//
//   validate existence -> detect format -> load (+ encoding cascade) ->
//   normalize columns -> load master archive -> evolve schema -> backup
//   working dataset -> upsert merge into working dataset -> merge into
//   master archive -> persist both CSVs -> audit log
//
// Any stage failure short-circuits the remaining stages, fills the run
// record's error field, still writes the audit entry, and returns the
// partial record. No error escapes IngestFile: callers always get a typed
// RunRecord, never a panic or a raw error, so the directory orchestrator can
// loop over many files safely.
//
// The pipeline is single-threaded and fully synchronous; callers must
// serialize concurrent invocations against the same output files externally.
//
// =============================================================================

package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/resiliencescan/ingestor/internal/audit"
	"github.com/resiliencescan/ingestor/internal/backup"
	"github.com/resiliencescan/ingestor/internal/config"
	"github.com/resiliencescan/ingestor/internal/dataset"
	"github.com/resiliencescan/ingestor/internal/format"
	"github.com/resiliencescan/ingestor/internal/ingesterr"
	"github.com/resiliencescan/ingestor/internal/loader"
	"github.com/resiliencescan/ingestor/internal/merge"
	"github.com/resiliencescan/ingestor/internal/normalize"
)

// Pipeline wires the components for one or more ingestion runs. Construct
// with New; the logger is injected, never global.
type Pipeline struct {
	cfg     *config.Config
	log     *audit.Logger
	backups *backup.Manager
}

// New builds a Pipeline from configuration and an injected logging facade.
func New(cfg *config.Config, log *audit.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		log:     log,
		backups: backup.NewManager(cfg.BackupDir, log),
	}
}

// IngestFile runs the full pipeline for a single input file and returns its
// run record. It never returns an error and never panics.
func (p *Pipeline) IngestFile(path string) RunRecord {
	rec := RunRecord{
		RunID:  uuid.New().String(),
		Source: filepath.Base(path),
		Status: StatusFailed,
	}

	p.log.Info("starting ingestion",
		zap.String("run_id", rec.RunID),
		zap.String("path", path))

	// Stage 1: the file must exist.
	if _, err := os.Stat(path); err != nil {
		return p.fail(rec, fmt.Errorf("%w: %s", ingesterr.ErrFileNotFound, path))
	}

	// Stage 2: classify the format.
	fmtDetected := format.Detect(path)
	if fmtDetected == format.FormatUnknown {
		return p.fail(rec, fmt.Errorf("%w: %s", ingesterr.ErrUnsupportedFormat, filepath.Ext(path)))
	}
	rec.Format = string(fmtDetected)
	p.log.Info("detected format",
		zap.String("format", rec.Format),
		zap.String("source", rec.Source))

	// Stage 3: load into a header-less table.
	incoming, meta, err := p.load(path, fmtDetected)
	if err != nil {
		return p.fail(rec, err)
	}
	rec.Encoding = meta.Encoding
	rec.RowsLoaded = incoming.NumRows()
	if meta.DroppedEmptyRows > 0 {
		p.log.Info("dropped empty rows", zap.Int("count", meta.DroppedEmptyRows))
	}

	// Stage 4: normalize column names.
	incoming = normalize.Dataset(incoming)
	p.log.Info("column names normalized", zap.Int("columns", incoming.NumColumns()))

	// Stage 5: load the master archive if present.
	master := p.loadExisting(p.cfg.MasterArchivePath)

	// Stage 6: evolve the master schema additively.
	if !master.IsEmpty() {
		var added []string
		master, added = merge.EvolveSchema(master, incoming)
		rec.ColumnsAdded = added
		if len(added) > 0 {
			p.log.Info("schema evolved",
				zap.Int("new_columns", len(added)),
				zap.Strings("columns", added))
		}
	} else {
		// No archive yet: every column this run carries is new.
		_, rec.ColumnsAdded = merge.EvolveSchema(nil, incoming)
	}

	// Stage 7: snapshot the working dataset before mutating it. A failed
	// backup is a warning, not a run failure; the merge must still happen.
	if _, err := p.backups.Snapshot(p.cfg.WorkingDatasetPath); err != nil {
		p.log.Warn("backup failed", zap.Error(err))
	}

	// Stage 8: upsert merge into the working dataset.
	existing := p.loadExisting(p.cfg.WorkingDatasetPath)
	merged, stats := merge.Upsert(existing, incoming, p.cfg.PrimaryKey)
	rec.RowsAdded = stats.Added
	rec.RowsUpdated = stats.Updated
	rec.RowsUnchanged = stats.Unchanged
	rec.TotalRows = merged.NumRows()
	rec.TotalColumns = merged.NumColumns()
	p.log.Info("upsert merge complete",
		zap.Int("rows_added", stats.Added),
		zap.Int("rows_updated", stats.Updated),
		zap.Int("rows_unchanged", stats.Unchanged))

	// Stage 9: persist the master archive. Its column set must stay a
	// superset of the working dataset's.
	if err := p.persistMaster(master, incoming, merged); err != nil {
		return p.fail(rec, err)
	}

	// Stage 10: persist the working dataset.
	if err := merged.WriteCSV(p.cfg.WorkingDatasetPath); err != nil {
		return p.fail(rec, err)
	}
	p.log.Info("saved working dataset",
		zap.String("path", p.cfg.WorkingDatasetPath),
		zap.Int("rows", merged.NumRows()),
		zap.Int("columns", merged.NumColumns()))

	rec.Status = StatusSuccess
	rec.logTo(p.log)
	return rec
}

// load dispatches to the loader matching the detected format.
func (p *Pipeline) load(path string, f format.Format) (*dataset.Dataset, loader.Meta, error) {
	opts := p.cfg.LoaderOptions()
	if f.IsSpreadsheet() {
		return loader.LoadSpreadsheet(path, opts, p.log)
	}
	return loader.LoadDelimited(path, f, opts, p.log)
}

// loadExisting reads a previously persisted dataset. Unreadable or missing
// files degrade to nil with a warning: a corrupt output must not block new
// ingestions, it just means this run starts that dataset fresh.
func (p *Pipeline) loadExisting(path string) *dataset.Dataset {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	ds, err := dataset.ReadCSV(path)
	if err != nil {
		p.log.Warn("could not load existing dataset",
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	p.log.Info("loaded existing dataset",
		zap.String("path", path),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()))
	return ds
}

// persistMaster merges the incoming data into the evolved master archive
// and writes it, guaranteeing the archive's column set is a superset of the
// working dataset's.
func (p *Pipeline) persistMaster(master, incoming, workingMerged *dataset.Dataset) error {
	var out *dataset.Dataset
	if !master.IsEmpty() {
		out, _ = merge.Upsert(master, incoming, p.cfg.PrimaryKey)
	} else {
		out = workingMerged.Clone()
	}
	for _, col := range workingMerged.Columns {
		out.AddColumn(col)
	}
	if err := out.WriteCSV(p.cfg.MasterArchivePath); err != nil {
		return err
	}
	p.log.Info("saved master archive",
		zap.String("path", p.cfg.MasterArchivePath),
		zap.Int("rows", out.NumRows()),
		zap.Int("columns", out.NumColumns()))
	return nil
}

// fail finalizes a run record with an error, audits it, and returns it.
func (p *Pipeline) fail(rec RunRecord, err error) RunRecord {
	rec.Status = StatusFailed
	rec.Err = err.Error()
	p.log.Error("ingestion failed",
		zap.String("run_id", rec.RunID),
		zap.String("source", rec.Source),
		zap.Error(err))
	rec.logTo(p.log)
	return rec
}
