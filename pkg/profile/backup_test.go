package profile_test

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/trigger"
)

func TestBackupDir_WriteSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := profile.NewBackupDir(dir)

	ts := []trigger.Trigger{testTrigger("W1ABC", "A")}

	path, err := b.WriteSnapshot("before-switch", ts)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	// hamalert-backup-<label>-YYYY-MM-DD-HHMMSS-<8 hex>.json
	assert.Regexp(t,
		regexp.MustCompile(`^hamalert-backup-before-switch-\d{4}-\d{2}-\d{2}-\d{6}-[0-9a-f]{8}\.json$`),
		filepath.Base(path),
	)

	got, err := profile.Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Matches(ts[0]))
}

func TestBackupDir_WriteSnapshot_NamesNeverCollide(t *testing.T) {
	t.Parallel()

	b := profile.NewBackupDir(t.TempDir())

	p1, err := b.WriteSnapshot("before-restore", nil)
	require.NoError(t, err)

	p2, err := b.WriteSnapshot("before-restore", nil)
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestBackupDir_DefaultPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := profile.NewBackupDir(dir)

	path := b.DefaultPath()
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t,
		regexp.MustCompile(`^hamalert-backup-\d{4}-\d{2}-\d{2}\.json$`),
		filepath.Base(path),
	)
}

func TestLoad_ParseError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"comment": }]`), 0o600))

	_, err := profile.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup")
}
