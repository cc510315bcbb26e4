// =============================================================================
// Survey Ingestor - Directory Orchestrator
// =============================================================================
//
// Batch-ingests every supported file in a directory:
//
//   - glob match (default "*"), supported extensions only
//   - the two generated output files are excluded, so the pipeline never
//     re-ingests its own prior output as new input
//   - remaining files are sorted by modification time, most recent first,
//     for a deterministic and intuitive processing order
//   - one file per IngestFile call, sequentially; a single file's failure
//     is recorded and the batch continues
//
// =============================================================================

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/resiliencescan/ingestor/internal/format"
)

// IngestDirectory batch-ingests all supported files in dir matching
// pattern (default "*"). It never returns an error; problems are recorded
// in the summary.
func (p *Pipeline) IngestDirectory(dir, pattern string) BatchSummary {
	if pattern == "" {
		pattern = "*"
	}
	summary := BatchSummary{}

	p.log.Info("scanning directory",
		zap.String("dir", dir),
		zap.String("pattern", pattern))

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		msg := fmt.Sprintf("directory not found: %s", dir)
		p.log.Error(msg)
		summary.Errors = append(summary.Errors, msg)
		return summary
	}

	files, err := p.discover(dir, pattern)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary
	}
	if len(files) == 0 {
		p.log.Warn("no supported files found",
			zap.String("dir", dir),
			zap.String("pattern", pattern))
		return summary
	}

	summary.TotalFiles = len(files)
	p.log.Info("found supported files", zap.Int("count", len(files)))

	columnsAdded := make(map[string]struct{})
	for i, file := range files {
		p.log.Info("processing file",
			zap.Int("index", i+1),
			zap.Int("total", len(files)),
			zap.String("file", filepath.Base(file)))

		rec := p.ingestIsolated(file)
		summary.Records = append(summary.Records, rec)

		if rec.Succeeded() {
			summary.Succeeded++
			summary.RowsAdded += rec.RowsAdded
			summary.RowsUpdated += rec.RowsUpdated
			for _, col := range rec.ColumnsAdded {
				columnsAdded[col] = struct{}{}
			}
		} else {
			summary.Failed++
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("%s: %s", filepath.Base(file), rec.Err))
		}
	}

	for col := range columnsAdded {
		summary.ColumnsAdded = append(summary.ColumnsAdded, col)
	}
	sort.Strings(summary.ColumnsAdded)

	p.log.Info("directory ingestion complete",
		zap.Int("total", summary.TotalFiles),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("rows_added", summary.RowsAdded),
		zap.Int("new_columns", len(summary.ColumnsAdded)))
	return summary
}

// ingestIsolated shields the batch from anything unexpected inside one
// file's processing: IngestFile already converts failures to records, but a
// panic in a parser must become a failed record too, not abort the batch.
func (p *Pipeline) ingestIsolated(file string) (rec RunRecord) {
	defer func() {
		if r := recover(); r != nil {
			rec = RunRecord{
				Source: filepath.Base(file),
				Status: StatusFailed,
				Err:    fmt.Sprintf("unexpected panic: %v", r),
			}
			p.log.Error("unexpected panic during ingestion",
				zap.String("file", file),
				zap.Any("panic", r))
			rec.logTo(p.log)
		}
	}()
	return p.IngestFile(file)
}

// discover lists supported input files in processing order.
func (p *Pipeline) discover(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	// The pipeline's own outputs live in the data directory; skip them.
	excluded := map[string]struct{}{
		filepath.Base(p.cfg.WorkingDatasetPath): {},
		filepath.Base(p.cfg.MasterArchivePath):  {},
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var files []candidate
	for _, m := range matches {
		if !format.IsSupported(m) {
			continue
		}
		if _, skip := excluded[filepath.Base(m)]; skip {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, candidate{path: m, modTime: info.ModTime().UnixNano()})
	}

	// Most recent first; path as tiebreaker keeps the order deterministic
	// for files sharing a timestamp.
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime != files[j].modTime {
			return files[i].modTime > files[j].modTime
		}
		return files[i].path < files[j].path
	})

	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out, nil
}
