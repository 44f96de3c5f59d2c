package profile

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/macropower/hamal/pkg/trigger"
)

// BackupDir writes trigger snapshots into a directory, one file per
// snapshot. Names are timestamped and carry a random suffix so two snapshots
// within the same second never collide:
//
//	hamalert-backup-before-switch-2026-08-27-153012-1a2b3c4d.json
type BackupDir struct {
	dir string
	now func() time.Time
}

// NewBackupDir creates a [BackupDir] rooted at dir.
func NewBackupDir(dir string) *BackupDir {
	return &BackupDir{
		dir: dir,
		now: time.Now,
	}
}

// WriteSnapshot persists the triggers and returns the snapshot path.
// The label names the operation the snapshot precedes (e.g. "before-switch").
func (b *BackupDir) WriteSnapshot(label string, ts []trigger.Trigger) (string, error) {
	stamp := b.now().Format("2006-01-02-150405")
	suffix := uuid.NewString()[:8]

	path := filepath.Join(b.dir, fmt.Sprintf("hamalert-backup-%s-%s-%s.json", label, stamp, suffix))

	err := writeSet(path, ts)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}

	return path, nil
}

// DefaultPath returns the date-stamped path used by the plain backup
// command when no explicit output is given.
func (b *BackupDir) DefaultPath() string {
	return filepath.Join(b.dir, fmt.Sprintf("hamalert-backup-%s.json", b.now().Format("2006-01-02")))
}

// Write persists the triggers to an explicit path, in the shared stored
// schema.
func Write(path string, ts []trigger.Trigger) error {
	return writeSet(path, ts)
}

// Load parses a snapshot (or any stored-schema file) from an explicit path.
func Load(path string) ([]trigger.Trigger, error) {
	ts, err := readSet(path)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}

	return ts, nil
}
