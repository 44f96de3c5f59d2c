package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/trigger"
)

func testTrigger(callsign, comment string) trigger.Trigger {
	return trigger.Trigger{
		Conditions: trigger.MustNewDocument(map[string]any{"callsign": callsign}),
		Actions:    []string{"app"},
		Comment:    comment,
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := profile.NewStore(t.TempDir())

	ts := []trigger.Trigger{
		testTrigger("W1ABC", "A"),
		testTrigger("K2DEF", "B"),
	}

	require.NoError(t, s.Save("home", ts))
	require.True(t, s.Exists("home"))

	got, err := s.Load("home")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Matches(ts[0]))
	assert.True(t, got[1].Matches(ts[1]))
}

func TestStore_Load_NotFound(t *testing.T) {
	t.Parallel()

	s := profile.NewStore(t.TempDir())
	require.NoError(t, s.Save("home", nil))
	require.NoError(t, s.Save("homebrew", nil))

	_, err := s.Load("hom")
	require.ErrorIs(t, err, profile.ErrNotFound)

	var nfe *profile.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "hom", nfe.Name)
	assert.Equal(t, []string{"home", "homebrew"}, nfe.Known)
	assert.Contains(t, nfe.Suggestions(1), "home")
}

func TestStore_Load_ParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600))

	s := profile.NewStore(dir)

	_, err := s.Load("bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, profile.ErrNotFound)
	assert.Contains(t, err.Error(), "bad")
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := profile.NewStore(dir)

	// Empty (even nonexistent) directory lists cleanly.
	names, err := profile.NewStore(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Save("trip", nil))
	require.NoError(t, s.Save("home", nil))

	// Non-profile files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "trip"}, names)
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := profile.NewStore(t.TempDir())
	require.NoError(t, s.Save("home", nil))

	require.NoError(t, s.Delete("home"))
	assert.False(t, s.Exists("home"))

	err := s.Delete("home")
	require.ErrorIs(t, err, profile.ErrNotFound)
}

func TestStore_SaveNilWritesEmptyArray(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := profile.NewStore(dir)

	require.NoError(t, s.Save("empty", nil))

	data, err := os.ReadFile(filepath.Join(dir, "empty.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
