// =============================================================================
// Survey Ingestor - Header Row Detector
// =============================================================================
//
// Source spreadsheets frequently have title rows, blank rows, or merged-cell
// banners above the real header. Given a header-less table, this detector
// decides which of the first rows is the actual column-header row using two
// deterministic heuristics, in order:
//
//   1. Keyword rule: a row where at least 3 cells contain a domain keyword
//      (substring, case-insensitive) is the header.
//   2. Density rule: a row where more than 70% of cells are non-numeric text
//      and more than 50% are non-empty is a likely header.
//
// If neither rule fires within the scanned range, row 0 is the last-resort
// default. No per-source configuration is required.
//
// =============================================================================

package loader

import (
	"strings"

	"github.com/resiliencescan/ingestor/internal/dataset"
)

// DefaultHeaderKeywords are the survey-domain column fragments the keyword
// rule anchors on. "up -", "in -" and "do -" match the scan dimension
// prefixes used across the survey exports.
var DefaultHeaderKeywords = []string{"company", "name", "email", "submitdate", "up -", "in -", "do -"}

// DefaultMaxHeaderScanRows is how many leading rows are inspected.
const DefaultMaxHeaderScanRows = 10

// DetectHeaderRow returns the index of the header row in a header-less
// table. keywords and maxScan fall back to the package defaults when zero.
func DetectHeaderRow(rows [][]string, keywords []string, maxScan int) int {
	if len(keywords) == 0 {
		keywords = DefaultHeaderKeywords
	}
	if maxScan <= 0 {
		maxScan = DefaultMaxHeaderScanRows
	}
	if maxScan > len(rows) {
		maxScan = len(rows)
	}

	for idx := 0; idx < maxScan; idx++ {
		row := rows[idx]
		if len(row) == 0 {
			continue
		}

		keywordCells := 0
		textCells := 0
		nonEmpty := 0

		for _, cell := range row {
			value := strings.ToLower(strings.TrimSpace(cell))
			if value != "" {
				nonEmpty++
				if !isNumericText(value) {
					textCells++
				}
			}
			for _, kw := range keywords {
				if strings.Contains(value, kw) {
					keywordCells++
					break
				}
			}
		}

		if keywordCells >= 3 {
			return idx
		}
		if float64(textCells) > float64(len(row))*0.7 &&
			float64(nonEmpty) > float64(len(row))*0.5 {
			return idx
		}
	}

	return 0
}

// isNumericText reports whether a cell reads as a plain number once dots and
// minus signs are ignored, mirroring how numeric banner rows look after a
// spreadsheet export.
func isNumericText(value string) bool {
	stripped := strings.ReplaceAll(strings.ReplaceAll(value, ".", ""), "-", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// splitHeader separates a raw table into header values and data rows, given
// the detected header index. All rows are padded to the widest row so the
// resulting dataset is rectangular.
func splitHeader(rows [][]string, headerIdx int) (*dataset.Dataset, int) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	copy(header, rows[headerIdx])

	ds := dataset.New(header)
	for _, row := range rows[headerIdx+1:] {
		ds.AppendRow(row)
	}
	dropped := ds.DropEmptyRows()
	return ds, dropped
}
