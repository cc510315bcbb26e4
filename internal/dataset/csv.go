// =============================================================================
// Survey Ingestor - Dataset CSV Persistence
// =============================================================================
//
// Reads and writes the two persisted outputs (working dataset and master
// archive). Both are UTF-8, comma-delimited, header row present, no
// positional index column.
//
// The reader is configured the same way the delimited-text loader configures
// its parser (variable field counts, lazy quotes) so that a dataset written
// by one run is always readable by the next.
//
// =============================================================================

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/resiliencescan/ingestor/internal/ingesterr"
)

// ReadCSV loads a persisted dataset. The first record is the header row.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ingesterr.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ingesterr.ErrParseFailure, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ingesterr.ErrStructurallyInvalid, path)
	}

	// Strip a UTF-8 BOM the first header cell may carry from an external edit.
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	ds := New(header)
	for _, record := range records[1:] {
		ds.AppendRow(record)
	}
	return ds, nil
}

// WriteCSV persists the dataset, creating parent directories as needed.
func (d *Dataset) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: creating directory for %s: %v", ingesterr.ErrPersistFailure, path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ingesterr.ErrPersistFailure, path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(d.Columns); err != nil {
		return fmt.Errorf("%w: writing header to %s: %v", ingesterr.ErrPersistFailure, path, err)
	}
	for _, row := range d.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: writing row to %s: %v", ingesterr.ErrPersistFailure, path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flushing %s: %v", ingesterr.ErrPersistFailure, path, err)
	}
	return f.Sync()
}
