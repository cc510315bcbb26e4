// =============================================================================
// Survey Ingestor - Backup Manager
// =============================================================================
//
// Snapshots the working dataset file before each mutating write. Snapshots
// are byte-for-byte copies named <stem>_<YYYYMMDD_HHMMSS><ext> in the
// backups directory and are never deleted automatically. If the source file
// does not exist yet (first-ever ingestion), the snapshot is a silent no-op.
//
// =============================================================================

package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/resiliencescan/ingestor/internal/audit"
)

// Manager creates timestamped snapshots in a fixed directory.
type Manager struct {
	dir string
	log *audit.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewManager returns a Manager writing snapshots into dir.
func NewManager(dir string, log *audit.Logger) *Manager {
	return &Manager{dir: dir, log: log, now: time.Now}
}

// Snapshot copies path into the backups directory with a second-granularity
// timestamp suffix. It returns the snapshot path, or "" when the source does
// not exist.
func (m *Manager) Snapshot(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := m.now().Format("20060102_150405")
	backupPath := filepath.Join(m.dir, fmt.Sprintf("%s_%s%s", stem, stamp, ext))

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	m.log.Info("backup created",
		zap.String("source", path),
		zap.String("backup", backupPath))
	return backupPath, nil
}

// copyFile copies src to dst byte-for-byte and syncs the result.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
