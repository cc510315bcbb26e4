// =============================================================================
// Survey Ingestor - Spreadsheet Loader
// =============================================================================
//
// Loads an Excel workbook into a header-less table via excelize. Before
// parsing, the file is probed with a one-byte read: a spreadsheet open in
// Excel holds an OS-level lock that surfaces as a permission error, and
// reporting that as "file locked" is far more actionable than a parser
// stack trace.
//
// Legacy binary .xls workbooks are opened best-effort: many ".xls" survey
// exports are really OOXML files carrying an old name, which excelize reads
// fine. A genuine BIFF file fails to open and surfaces as a parse failure.
//
// =============================================================================

package loader

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/resiliencescan/ingestor/internal/audit"
	"github.com/resiliencescan/ingestor/internal/dataset"
	"github.com/resiliencescan/ingestor/internal/ingesterr"
)

// LoadSpreadsheet loads an .xlsx/.xls file into a dataset with raw header
// values and data rows below the detected header.
func LoadSpreadsheet(path string, opts Options, log *audit.Logger) (*dataset.Dataset, Meta, error) {
	meta := Meta{Encoding: "binary"}
	log.Info("loading spreadsheet", zap.String("path", path))

	if err := probeReadable(path); err != nil {
		return nil, meta, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ingesterr.ErrParseFailure, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, meta, fmt.Errorf("%w: workbook has no sheets", ingesterr.ErrStructurallyInvalid)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ingesterr.ErrParseFailure, err)
	}

	ds, dropped, headerIdx, err := assemble(rows, opts)
	if err != nil {
		return nil, meta, err
	}
	meta.HeaderRow = headerIdx
	meta.DroppedEmptyRows = dropped

	log.Info("loaded spreadsheet",
		zap.String("sheet", sheet),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()),
		zap.Int("header_row", headerIdx))
	return ds, meta, nil
}

// probeReadable verifies the file exists and is not locked by another
// process before handing it to the parser.
func probeReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ingesterr.ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s (close it in Excel or other programs)", ingesterr.ErrFileLocked, path)
		}
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 1)
	if _, err := f.Read(buf); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ingesterr.ErrFileLocked, path)
		}
		return fmt.Errorf("%w: cannot read %s: %v", ingesterr.ErrParseFailure, path, err)
	}
	return nil
}
