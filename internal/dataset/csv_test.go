// =============================================================================
// Survey Ingestor - Dataset CSV Persistence Tests
// =============================================================================

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resiliencescan/ingestor/internal/ingesterr"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset.csv")

	ds := New([]string{"company_name", "note"})
	ds.AppendRow([]string{"Acme", "said \"hi\", twice"})
	ds.AppendRow([]string{"Beta", "line\nbreak"})

	require.NoError(t, ds.WriteCSV(path), "parent directories are created as needed")

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Columns, got.Columns)
	assert.Equal(t, ds.Rows, got.Rows, "quoting survives the round trip")
}

func TestReadCSV_StripsHeaderBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("company_name,note\nAcme,x\n")...)
	require.NoError(t, os.WriteFile(path, content, 0644))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "company_name", got.Columns[0])
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ingesterr.ErrFileNotFound)
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := ReadCSV(path)
	assert.ErrorIs(t, err, ingesterr.ErrStructurallyInvalid)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n"), 0644))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got.Columns)
	assert.True(t, got.IsEmpty(), "a freshly written output read back has no rows")
}
