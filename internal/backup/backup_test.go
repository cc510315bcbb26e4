// =============================================================================
// Survey Ingestor - Backup Manager Tests
// =============================================================================

package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resiliencescan/ingestor/internal/audit"
)

func TestSnapshot(t *testing.T) {
	tmp := t.TempDir()
	source := filepath.Join(tmp, "cleaned_master.csv")
	require.NoError(t, os.WriteFile(source, []byte("company_name\nAcme\n"), 0644))

	m := NewManager(filepath.Join(tmp, "backups"), audit.Nop())
	m.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	backupPath, err := m.Snapshot(source)
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join(tmp, "backups", "cleaned_master_20260314_150926.csv"),
		backupPath)

	copied, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "company_name\nAcme\n", string(copied), "byte-for-byte copy")

	original, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, "company_name\nAcme\n", string(original), "source is untouched")
}

func TestSnapshot_MissingSourceIsNoOp(t *testing.T) {
	tmp := t.TempDir()
	m := NewManager(filepath.Join(tmp, "backups"), audit.Nop())

	backupPath, err := m.Snapshot(filepath.Join(tmp, "does_not_exist.csv"))
	require.NoError(t, err)
	assert.Equal(t, "", backupPath)

	_, statErr := os.Stat(filepath.Join(tmp, "backups"))
	assert.True(t, os.IsNotExist(statErr), "no backup directory is created for a no-op")
}

func TestSnapshot_CreatesBackupDirectory(t *testing.T) {
	tmp := t.TempDir()
	source := filepath.Join(tmp, "data.csv")
	require.NoError(t, os.WriteFile(source, []byte("x\n"), 0644))

	dir := filepath.Join(tmp, "nested", "backups")
	m := NewManager(dir, audit.Nop())

	backupPath, err := m.Snapshot(source)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.FileExists(t, backupPath)
}

func TestSnapshot_SuccessiveSnapshotsAccumulate(t *testing.T) {
	tmp := t.TempDir()
	source := filepath.Join(tmp, "data.csv")
	require.NoError(t, os.WriteFile(source, []byte("x\n"), 0644))

	dir := filepath.Join(tmp, "backups")
	m := NewManager(dir, audit.Nop())

	stamps := []time.Time{
		time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 10, 0, 1, 0, time.UTC),
	}
	for _, stamp := range stamps {
		s := stamp
		m.now = func() time.Time { return s }
		_, err := m.Snapshot(source)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "snapshots are never overwritten or pruned")
}
