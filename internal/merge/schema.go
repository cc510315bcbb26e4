// =============================================================================
// Survey Ingestor - Schema Evolution Engine
// =============================================================================
//
// Grows the master archive's column set additively as new fields are
// observed. Columns are never removed or renamed here; historical rows are
// backfilled with empty values for every new column. The added-column list
// is sorted so run records and audit lines are deterministic regardless of
// source column order.
//
// =============================================================================

package merge

import (
	"sort"

	"github.com/resiliencescan/ingestor/internal/dataset"
)

// EvolveSchema adds incoming columns missing from master, returning the
// updated master and the sorted list of added column names. The inputs are
// never mutated.
func EvolveSchema(master, incoming *dataset.Dataset) (*dataset.Dataset, []string) {
	if incoming.IsEmpty() {
		return master.Clone(), nil
	}
	if master.IsEmpty() {
		// No master yet: every incoming column counts as new. The caller
		// adopts the merged working dataset as the initial archive.
		added := append([]string(nil), incoming.Columns...)
		sort.Strings(added)
		return master.Clone(), added
	}

	var added []string
	for _, col := range incoming.Columns {
		if !master.HasColumn(col) {
			added = append(added, col)
		}
	}
	if len(added) == 0 {
		return master.Clone(), nil
	}
	sort.Strings(added)

	result := master.Clone()
	for _, col := range added {
		result.AddColumn(col)
	}
	return result, added
}
