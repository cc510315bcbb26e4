// =============================================================================
// Survey Ingestor - Dataset Module
// =============================================================================
//
// This package defines the canonical record set that flows through the
// pipeline: an ordered sequence of column names and an ordered sequence of
// rows, each row a slice of string cells aligned to the columns.
//
// EMPTINESS SEMANTICS:
//   A cell is "empty" when it is the empty string or whitespace-only. The
//   upsert merge engine's never-overwrite guarantee depends on this exact
//   definition, so the loaders preserve raw string values and never coerce
//   types.
//
// Row order is insertion order from the source file; it carries no meaning
// for correctness.
//
// =============================================================================

package dataset

import "strings"

// Dataset is a positional table with named columns. Column names are unique
// after normalization; before normalization they are whatever the source
// header row contained.
type Dataset struct {
	// Columns holds the column names in insertion order.
	Columns []string

	// Rows holds the data rows. Every row has exactly len(Columns) cells.
	Rows [][]string
}

// New creates a Dataset with the given columns and no rows.
func New(columns []string) *Dataset {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Dataset{Columns: cols, Rows: [][]string{}}
}

// IsEmptyCell reports whether a cell value counts as empty for merge
// purposes: empty string or whitespace-only.
func IsEmptyCell(v string) bool {
	return strings.TrimSpace(v) == ""
}

// IsEmpty reports whether the dataset has no data rows. A dataset with
// columns but zero rows is still considered empty, matching the behavior
// downstream consumers expect from a freshly created output file.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Rows) == 0
}

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int {
	if d == nil {
		return 0
	}
	return len(d.Columns)
}

// ColumnIndex returns the position of a column by name, or -1 if absent.
func (d *Dataset) ColumnIndex(name string) int {
	if d == nil {
		return -1
	}
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// AddColumn appends a new column with an empty value backfilled into every
// existing row. Adding a column that already exists is a no-op.
func (d *Dataset) AddColumn(name string) {
	if d.HasColumn(name) {
		return
	}
	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], "")
	}
}

// AppendRow appends a row, padding or truncating it to the column count.
func (d *Dataset) AppendRow(row []string) {
	aligned := make([]string, len(d.Columns))
	copy(aligned, row)
	d.Rows = append(d.Rows, aligned)
}

// Clone returns a deep copy. Cloning nil returns nil so callers can pass
// optional datasets through without nil checks at every site.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := New(d.Columns)
	out.Rows = make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		cp := make([]string, len(row))
		copy(cp, row)
		out.Rows[i] = cp
	}
	return out
}

// IsRowEmpty reports whether every cell in a row is empty.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if !IsEmptyCell(cell) {
			return false
		}
	}
	return true
}

// DropEmptyRows returns the dataset with all-empty rows removed and the
// number of rows dropped.
func (d *Dataset) DropEmptyRows() int {
	if d == nil {
		return 0
	}
	kept := d.Rows[:0]
	dropped := 0
	for _, row := range d.Rows {
		if IsRowEmpty(row) {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	d.Rows = kept
	return dropped
}
