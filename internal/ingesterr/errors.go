// =============================================================================
// Survey Ingestor - Error Taxonomy
// =============================================================================
//
// This package defines the sentinel errors used across the ingestion pipeline.
// Every stage wraps one of these with fmt.Errorf("...: %w", ...) so callers
// can classify failures with errors.Is without string matching.
//
// Keeping them in a leaf package avoids import cycles between the loaders,
// the merge engine, and the orchestrator.
//
// =============================================================================

package ingesterr

import "errors"

var (
	// ErrFileNotFound indicates the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat indicates the file extension is not one of
	// .xlsx, .xls, .csv, .tsv.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileLocked indicates a permission error, typically the source file
	// being held open by a spreadsheet program.
	ErrFileLocked = errors.New("file is locked by another process")

	// ErrDecodeFailure indicates the entire encoding cascade was exhausted
	// without producing valid text.
	ErrDecodeFailure = errors.New("all encoding attempts failed")

	// ErrStructurallyInvalid indicates the loaded table was empty or below
	// the minimum row/column thresholds.
	ErrStructurallyInvalid = errors.New("structurally invalid table")

	// ErrParseFailure indicates the underlying spreadsheet or text parser
	// rejected the file contents.
	ErrParseFailure = errors.New("parse failure")

	// ErrPersistFailure indicates a dataset could not be written to disk.
	ErrPersistFailure = errors.New("persist failure")
)
