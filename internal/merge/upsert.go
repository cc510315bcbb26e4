// =============================================================================
// Survey Ingestor - Upsert Merge Engine
// =============================================================================
//
// The heart of the pipeline. Merges incoming rows into an existing dataset
// keyed on a primary-key column, under two hard guarantees:
//
//   - A cell that already holds a non-empty value is NEVER overwritten.
//   - No row is ever deleted.
//
// CONTRACT:
//   1. Primary key absent from either side -> append-only fallback.
//   2. Incoming row with an empty key      -> always appended (an empty key
//      can never "match").
//   3. Incoming row whose key exists       -> for every non-key column
//      present in the existing dataset where the incoming value is
//      non-empty, fill the cell in EVERY existing row sharing that key,
//      but only where the existing cell is empty. One or more fills counts
//      the row as updated, otherwise unchanged.
//   4. Incoming row with an unseen key     -> staged and appended at the
//      end; the result's column set becomes the union of both sides with
//      empty backfill, so appended rows keep their novel columns.
//
// NOTE: the key is a single company identifier, yet the domain has many
// rows per company (one per respondent). Matching on company alone can fill
// one respondent's empty cells from another respondent's data. The broader
// system's cleaning stage keys on company + person + contact; this engine
// deliberately does not, because downstream consumers depend on the current
// behavior. The key is configurable for operators who need otherwise.
//
// Any value coercible to a string is usable as a key; source data quality
// varies and malformed keys are not an error.
//
// =============================================================================

package merge

import (
	"strings"

	"github.com/resiliencescan/ingestor/internal/dataset"
)

// DefaultPrimaryKey is the canonical company identifier field.
const DefaultPrimaryKey = "company_name"

// Stats reports what an upsert did, used verbatim in the run record.
type Stats struct {
	// Added is the number of rows appended (new or empty-key rows).
	Added int

	// Updated is the number of matched incoming rows that filled at least
	// one empty cell somewhere.
	Updated int

	// Unchanged is the number of matched incoming rows that filled nothing.
	Unchanged int
}

// Upsert merges incoming into existing. The inputs are never mutated; the
// result is a new dataset. Empty/nil edge cases return the other side
// unchanged (as a copy).
func Upsert(existing, incoming *dataset.Dataset, primaryKey string) (*dataset.Dataset, Stats) {
	if primaryKey == "" {
		primaryKey = DefaultPrimaryKey
	}
	stats := Stats{}

	if incoming.IsEmpty() {
		if existing == nil {
			return dataset.New(nil), stats
		}
		return existing.Clone(), stats
	}

	incoming = incoming.Clone()
	incoming.DropEmptyRows()

	if existing.IsEmpty() {
		stats.Added = incoming.NumRows()
		if existing.NumColumns() == 0 {
			return incoming, stats
		}
		// Existing carries a schema but no rows: keep its column order and
		// reconcile the incoming rows against it.
		result := existing.Clone()
		appendReconciled(result, incoming, incoming.Rows)
		return result, stats
	}

	existingKey := existing.ColumnIndex(primaryKey)
	incomingKey := incoming.ColumnIndex(primaryKey)
	if existingKey < 0 || incomingKey < 0 {
		// Append-only fallback: without a shared key there is nothing to
		// match on, so every incoming row is new by definition.
		result := existing.Clone()
		appendReconciled(result, incoming, incoming.Rows)
		stats.Added = incoming.NumRows()
		return result, stats
	}

	result := existing.Clone()

	// Key value -> indices of existing rows carrying it.
	keyRows := make(map[string][]int, result.NumRows())
	for i, row := range result.Rows {
		key := strings.TrimSpace(row[existingKey])
		if key == "" {
			continue
		}
		keyRows[key] = append(keyRows[key], i)
	}

	// Incoming column index -> existing column index, for the fill pass.
	// Columns the existing dataset lacks are skipped here; they only enter
	// the result through appended rows.
	colMap := make([]int, incoming.NumColumns())
	for i, col := range incoming.Columns {
		colMap[i] = result.ColumnIndex(col)
	}

	var staged [][]string
	for _, inRow := range incoming.Rows {
		key := strings.TrimSpace(inRow[incomingKey])
		if key == "" {
			staged = append(staged, inRow)
			continue
		}

		targets, matched := keyRows[key]
		if !matched {
			staged = append(staged, inRow)
			continue
		}

		filled := false
		for inCol, value := range inRow {
			exCol := colMap[inCol]
			if exCol < 0 || exCol == existingKey || dataset.IsEmptyCell(value) {
				continue
			}
			for _, rowIdx := range targets {
				if dataset.IsEmptyCell(result.Rows[rowIdx][exCol]) {
					result.Rows[rowIdx][exCol] = value
					filled = true
				}
			}
		}
		if filled {
			stats.Updated++
		} else {
			stats.Unchanged++
		}
	}

	if len(staged) > 0 {
		appendReconciled(result, incoming, staged)
		stats.Added = len(staged)
	}
	return result, stats
}

// appendReconciled appends rows (cells aligned to src's columns) onto dst,
// first growing dst's column set to the union of both sides. Missing cells
// on either side become empty, not an error.
func appendReconciled(dst, src *dataset.Dataset, rows [][]string) {
	for _, col := range src.Columns {
		dst.AddColumn(col)
	}

	srcToDst := make([]int, src.NumColumns())
	for i, col := range src.Columns {
		srcToDst[i] = dst.ColumnIndex(col)
	}

	for _, row := range rows {
		aligned := make([]string, dst.NumColumns())
		for i, value := range row {
			if i < len(srcToDst) && srcToDst[i] >= 0 {
				aligned[srcToDst[i]] = value
			}
		}
		dst.Rows = append(dst.Rows, aligned)
	}
}
