// =============================================================================
// Survey Ingestor - Delimited-Text Loader
// =============================================================================
//
// Loads a CSV/TSV file into a header-less table:
//
//   1. Decode the full file text via the encoding cascade.
//   2. Reject empty or whitespace-only files.
//   3. Sniff the delimiter from the first ~8 KiB; fall back to the
//      extension-implied delimiter when sniffing fails.
//   4. Parse with header-less semantics. Values stay raw strings with no
//      type coercion so cell-emptiness checks downstream are exact.
//   5. Validate minimum structure (>=2 rows, >=3 columns), drop all-empty
//      rows, and pick the header row.
//
// The loader never panics; it returns typed errors the orchestrator converts
// into a failed run record, so one bad file cannot abort a batch.
//
// =============================================================================

package loader

import (
	"encoding/csv"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/resiliencescan/ingestor/internal/audit"
	"github.com/resiliencescan/ingestor/internal/dataset"
	xenc "github.com/resiliencescan/ingestor/internal/encoding"
	"github.com/resiliencescan/ingestor/internal/format"
	"github.com/resiliencescan/ingestor/internal/ingesterr"
)

// Options tunes the loaders. The zero value uses package defaults.
type Options struct {
	// HeaderKeywords override DefaultHeaderKeywords for header detection.
	HeaderKeywords []string

	// MaxHeaderScanRows overrides DefaultMaxHeaderScanRows.
	MaxHeaderScanRows int

	// SniffSampleBytes overrides format.SniffSampleBytes.
	SniffSampleBytes int
}

// Meta records how a file was loaded, for the run record and audit trail.
type Meta struct {
	// Encoding is the cascade encoding that decoded the file, or "binary"
	// for spreadsheets.
	Encoding string

	// Delimiter is the field separator used, zero for spreadsheets.
	Delimiter rune

	// HeaderRow is the detected header row index in the raw table.
	HeaderRow int

	// DroppedEmptyRows counts all-empty rows removed after the header.
	DroppedEmptyRows int
}

// Minimum structure for a usable table: a header plus at least one data row,
// and enough columns to be a survey export rather than a stray text file.
const (
	minRows    = 2
	minColumns = 3
)

// LoadDelimited loads a CSV or TSV file. f must be FormatCSV or FormatTSV.
func LoadDelimited(path string, f format.Format, opts Options, log *audit.Logger) (*dataset.Dataset, Meta, error) {
	meta := Meta{}
	log.Info("loading delimited file", zap.String("path", path), zap.String("format", string(f)))

	text, encodingName, err := xenc.Resolve(path)
	if err != nil {
		return nil, meta, err
	}
	meta.Encoding = encodingName
	log.Debug("decoded file", zap.String("encoding", encodingName))

	if strings.TrimSpace(text) == "" {
		return nil, meta, fmt.Errorf("%w: file is empty", ingesterr.ErrStructurallyInvalid)
	}

	meta.Delimiter = sniffOrFallback(text, f, opts, log)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = meta.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false // leading whitespace is data until proven otherwise

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ingesterr.ErrParseFailure, err)
	}

	ds, dropped, headerIdx, err := assemble(rows, opts)
	if err != nil {
		return nil, meta, err
	}
	meta.HeaderRow = headerIdx
	meta.DroppedEmptyRows = dropped

	log.Info("loaded delimited file",
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()),
		zap.String("encoding", encodingName),
		zap.String("delimiter", fmt.Sprintf("%q", meta.Delimiter)))
	return ds, meta, nil
}

// sniffOrFallback sniffs the delimiter from the sample window, falling back
// to the extension-implied delimiter when sniffing is inconclusive.
func sniffOrFallback(text string, f format.Format, opts Options, log *audit.Logger) rune {
	sampleSize := opts.SniffSampleBytes
	if sampleSize <= 0 {
		sampleSize = format.SniffSampleBytes
	}
	sample := text
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	if delim, ok := format.SniffDelimiter(sample); ok {
		return delim
	}
	log.Warn("delimiter sniffing failed, using extension default",
		zap.String("format", string(f)))
	return f.Delimiter()
}

// assemble validates raw rows, detects the header, and builds the dataset.
// Shared by both loaders.
func assemble(rows [][]string, opts Options) (*dataset.Dataset, int, int, error) {
	if len(rows) < minRows {
		return nil, 0, 0, fmt.Errorf("%w: need at least %d rows (header + data), got %d",
			ingesterr.ErrStructurallyInvalid, minRows, len(rows))
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < minColumns {
		return nil, 0, 0, fmt.Errorf("%w: need at least %d columns, got %d",
			ingesterr.ErrStructurallyInvalid, minColumns, width)
	}

	headerIdx := DetectHeaderRow(rows, opts.HeaderKeywords, opts.MaxHeaderScanRows)
	ds, dropped := splitHeader(rows, headerIdx)

	if ds.NumRows() == 0 {
		return nil, 0, 0, fmt.Errorf("%w: no data rows below header", ingesterr.ErrStructurallyInvalid)
	}
	return ds, dropped, headerIdx, nil
}
