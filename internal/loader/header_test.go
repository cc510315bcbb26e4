// =============================================================================
// Survey Ingestor - Header Row Detector Tests
// =============================================================================

package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHeaderRow_KeywordRule(t *testing.T) {
	rows := [][]string{
		{"Resilience Scan Results", "", "", ""},
		{"", "", "", ""},
		{"Company Name", "Email", "SubmitDate", "Up - Strategy"},
		{"Acme", "a@x.test", "2024-01-01", "3"},
	}
	assert.Equal(t, 2, DetectHeaderRow(rows, nil, 0),
		"banner and blank rows are skipped, keyword row wins")
}

func TestDetectHeaderRow_KeywordNeedsThreeCells(t *testing.T) {
	rows := [][]string{
		{"1", "2", "Company Name", "9"},
		{"1", "2", "3", "4"},
	}
	// Only one keyword cell and the row is mostly numeric, so neither rule
	// fires; row 0 is the fallback.
	assert.Equal(t, 0, DetectHeaderRow(rows, nil, 0))
}

func TestDetectHeaderRow_DensityRule(t *testing.T) {
	rows := [][]string{
		{"1.5", "2", "-3"},
		{"alpha", "beta", "gamma"},
		{"4", "5", "6"},
	}
	assert.Equal(t, 1, DetectHeaderRow(rows, nil, 0),
		"a mostly-text, mostly-populated row is a likely header")
}

func TestDetectHeaderRow_DefaultsToFirstRow(t *testing.T) {
	rows := [][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
	}
	assert.Equal(t, 0, DetectHeaderRow(rows, nil, 0))
}

func TestDetectHeaderRow_ScanLimit(t *testing.T) {
	rows := make([][]string, 0, 12)
	for i := 0; i < 11; i++ {
		rows = append(rows, []string{"1", "2", "3"})
	}
	rows = append(rows, []string{"company", "name", "email"})

	assert.Equal(t, 0, DetectHeaderRow(rows, nil, 0),
		"a header beyond the scan window is never found")
	assert.Equal(t, 11, DetectHeaderRow(rows, nil, 12),
		"a wider scan window finds it")
}

func TestDetectHeaderRow_CustomKeywords(t *testing.T) {
	rows := [][]string{
		{"1", "2", "3"},
		{"widget", "gadget", "sprocket"},
	}
	got := DetectHeaderRow(rows, []string{"widget", "gadget", "sprocket"}, 0)
	assert.Equal(t, 1, got)
}

func TestSplitHeader(t *testing.T) {
	rows := [][]string{
		{"banner"},
		{"company", "name", "email"},
		{"Acme", "Ann", "a@x.test", "overflow"},
		{"", "  ", ""},
		{"Beta", "Bob", "b@x.test"},
	}

	ds, dropped := splitHeader(rows, 1)

	assert.Equal(t, []string{"company", "name", "email", ""}, ds.Columns,
		"header is padded to the widest row")
	assert.Equal(t, 2, ds.NumRows())
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"Acme", "Ann", "a@x.test", "overflow"}, ds.Rows[0])
	assert.Equal(t, []string{"Beta", "Bob", "b@x.test", ""}, ds.Rows[1],
		"short rows are padded with empty cells")
}
