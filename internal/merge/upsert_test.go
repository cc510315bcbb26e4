// =============================================================================
// Survey Ingestor - Upsert Merge Engine Tests
// =============================================================================

package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resiliencescan/ingestor/internal/dataset"
)

// table builds a dataset from a header and rows, for terse test setup.
func table(columns []string, rows ...[]string) *dataset.Dataset {
	ds := dataset.New(columns)
	for _, row := range rows {
		ds.AppendRow(row)
	}
	return ds
}

func TestUpsert_FillsOnlyEmptyCells(t *testing.T) {
	existing := table(
		[]string{"company_name", "score", "note"},
		[]string{"Acme", "", "hello"},
	)
	incoming := table(
		[]string{"company_name", "score", "note"},
		[]string{"Acme", "50", "bye"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	require.Equal(t, 1, merged.NumRows())
	assert.Equal(t, []string{"Acme", "50", "hello"}, merged.Rows[0],
		"empty score is filled, populated note is untouched")
	assert.Equal(t, Stats{Updated: 1}, stats)
}

func TestUpsert_NewAndExistingKeys(t *testing.T) {
	existing := table(
		[]string{"company_name", "score"},
		[]string{"Acme", "1"},
		[]string{"Beta", ""},
	)
	incoming := table(
		[]string{"company_name", "score"},
		[]string{"Beta", "7"},
		[]string{"Gamma", "3"},
		[]string{"Delta", "4"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	require.Equal(t, 4, merged.NumRows())
	assert.Equal(t, []string{"Beta", "7"}, merged.Rows[1])
	assert.Equal(t, []string{"Gamma", "3"}, merged.Rows[2], "new keys append in incoming order")
	assert.Equal(t, []string{"Delta", "4"}, merged.Rows[3])
	assert.Equal(t, Stats{Added: 2, Updated: 1}, stats)
}

func TestUpsert_NeverOverwrites(t *testing.T) {
	existing := table(
		[]string{"company_name", "email", "phone"},
		[]string{"Acme", "old@acme.test", "123"},
	)
	incoming := table(
		[]string{"company_name", "email", "phone"},
		[]string{"Acme", "new@acme.test", "999"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	assert.Equal(t, []string{"Acme", "old@acme.test", "123"}, merged.Rows[0])
	assert.Equal(t, Stats{Unchanged: 1}, stats)
}

func TestUpsert_EmptyKeyAlwaysAppends(t *testing.T) {
	existing := table(
		[]string{"company_name", "score"},
		[]string{"", "1"},
	)
	incoming := table(
		[]string{"company_name", "score"},
		[]string{"", "2"},
		[]string{"   ", "3"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	assert.Equal(t, 3, merged.NumRows(), "empty keys never match, even against an empty existing key")
	assert.Equal(t, Stats{Added: 2}, stats)
}

func TestUpsert_AppendOnlyFallbackWithoutKey(t *testing.T) {
	t.Run("key missing from incoming", func(t *testing.T) {
		existing := table(
			[]string{"company_name", "score"},
			[]string{"Acme", "1"},
		)
		incoming := table(
			[]string{"email", "phone", "extra"},
			[]string{"a@x.test", "1", "y"},
			[]string{"b@x.test", "2", "z"},
		)

		merged, stats := Upsert(existing, incoming, "company_name")

		assert.Equal(t, 3, merged.NumRows())
		assert.Equal(t, Stats{Added: 2}, stats)
		assert.Equal(t, []string{"company_name", "score", "email", "phone", "extra"}, merged.Columns)
		assert.Equal(t, []string{"", "", "a@x.test", "1", "y"}, merged.Rows[1],
			"appended rows are backfilled with empty cells for existing-only columns")
	})

	t.Run("key missing from existing", func(t *testing.T) {
		existing := table(
			[]string{"email", "score"},
			[]string{"a@x.test", "1"},
		)
		incoming := table(
			[]string{"company_name", "score"},
			[]string{"Acme", "2"},
		)

		merged, stats := Upsert(existing, incoming, "company_name")

		assert.Equal(t, 2, merged.NumRows())
		assert.Equal(t, Stats{Added: 1}, stats)
	})
}

func TestUpsert_FillsEveryRowSharingKey(t *testing.T) {
	// Many rows per company is the norm (one per respondent); one incoming
	// row fills the empty cells in all of them.
	existing := table(
		[]string{"company_name", "sector"},
		[]string{"Acme", ""},
		[]string{"Acme", ""},
		[]string{"Beta", ""},
	)
	incoming := table(
		[]string{"company_name", "sector"},
		[]string{"Acme", "retail"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	assert.Equal(t, "retail", merged.Rows[0][1])
	assert.Equal(t, "retail", merged.Rows[1][1])
	assert.Equal(t, "", merged.Rows[2][1], "other keys stay untouched")
	assert.Equal(t, Stats{Updated: 1}, stats)
}

func TestUpsert_NovelColumnsEnterOnlyViaAppendedRows(t *testing.T) {
	t.Run("matched rows skip unknown columns", func(t *testing.T) {
		existing := table(
			[]string{"company_name", "score"},
			[]string{"Acme", ""},
		)
		incoming := table(
			[]string{"company_name", "region"},
			[]string{"Acme", "EU"},
		)

		merged, stats := Upsert(existing, incoming, "company_name")

		assert.Equal(t, []string{"company_name", "score"}, merged.Columns,
			"a fill-only merge does not widen the schema")
		assert.Equal(t, Stats{Unchanged: 1}, stats)
	})

	t.Run("appended rows widen the schema", func(t *testing.T) {
		existing := table(
			[]string{"company_name", "score"},
			[]string{"Acme", "1"},
		)
		incoming := table(
			[]string{"company_name", "region"},
			[]string{"Gamma", "EU"},
		)

		merged, stats := Upsert(existing, incoming, "company_name")

		assert.Equal(t, []string{"company_name", "score", "region"}, merged.Columns)
		assert.Equal(t, []string{"Acme", "1", ""}, merged.Rows[0])
		assert.Equal(t, []string{"Gamma", "", "EU"}, merged.Rows[1])
		assert.Equal(t, Stats{Added: 1}, stats)
	})
}

func TestUpsert_KeyMatchingTrimsWhitespace(t *testing.T) {
	existing := table(
		[]string{"company_name", "score"},
		[]string{"Acme ", ""},
	)
	incoming := table(
		[]string{"company_name", "score"},
		[]string{" Acme", "5"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	assert.Equal(t, 1, merged.NumRows())
	assert.Equal(t, "5", merged.Rows[0][1])
	assert.Equal(t, Stats{Updated: 1}, stats)
}

func TestUpsert_DropsAllEmptyIncomingRows(t *testing.T) {
	existing := table(
		[]string{"company_name", "score"},
		[]string{"Acme", "1"},
	)
	incoming := table(
		[]string{"company_name", "score"},
		[]string{"", ""},
		[]string{" ", "  "},
		[]string{"Beta", "2"},
	)

	merged, stats := Upsert(existing, incoming, "company_name")

	assert.Equal(t, 2, merged.NumRows(), "all-empty rows never reach the merge")
	assert.Equal(t, Stats{Added: 1}, stats)
}

func TestUpsert_EmptyEdgeCases(t *testing.T) {
	t.Run("empty incoming returns existing copy", func(t *testing.T) {
		existing := table(
			[]string{"company_name"},
			[]string{"Acme"},
		)
		merged, stats := Upsert(existing, nil, "company_name")
		assert.Equal(t, existing.Rows, merged.Rows)
		assert.Equal(t, Stats{}, stats)
	})

	t.Run("empty existing returns incoming", func(t *testing.T) {
		incoming := table(
			[]string{"company_name"},
			[]string{"Acme"},
			[]string{"Beta"},
		)
		merged, stats := Upsert(nil, incoming, "company_name")
		assert.Equal(t, 2, merged.NumRows())
		assert.Equal(t, Stats{Added: 2}, stats)
	})

	t.Run("both empty", func(t *testing.T) {
		merged, stats := Upsert(nil, nil, "company_name")
		assert.True(t, merged.IsEmpty())
		assert.Equal(t, Stats{}, stats)
	})

	t.Run("existing has schema but no rows", func(t *testing.T) {
		existing := dataset.New([]string{"company_name", "score", "extra"})
		incoming := table(
			[]string{"score", "company_name"},
			[]string{"9", "Acme"},
		)

		merged, stats := Upsert(existing, incoming, "company_name")

		assert.Equal(t, []string{"company_name", "score", "extra"}, merged.Columns,
			"the persisted column order wins")
		assert.Equal(t, []string{"Acme", "9", ""}, merged.Rows[0])
		assert.Equal(t, Stats{Added: 1}, stats)
	})
}

func TestUpsert_DoesNotMutateInputs(t *testing.T) {
	existing := table(
		[]string{"company_name", "score"},
		[]string{"Acme", ""},
	)
	incoming := table(
		[]string{"company_name", "score"},
		[]string{"Acme", "5"},
		[]string{"Beta", "6"},
	)

	Upsert(existing, incoming, "company_name")

	assert.Equal(t, "", existing.Rows[0][1])
	assert.Equal(t, 1, existing.NumRows())
	assert.Equal(t, 2, incoming.NumRows())
}

func TestUpsert_DefaultsPrimaryKey(t *testing.T) {
	existing := table(
		[]string{"company_name", "score"},
		[]string{"Acme", ""},
	)
	incoming := table(
		[]string{"company_name", "score"},
		[]string{"Acme", "5"},
	)

	_, stats := Upsert(existing, incoming, "")
	assert.Equal(t, Stats{Updated: 1}, stats, "empty key falls back to company_name")
}
