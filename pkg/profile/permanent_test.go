package profile_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/trigger"
)

func TestPermanentStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "permanent.json")
	p := profile.NewPermanentStore(path)

	// Absent file loads as an empty set, not an error.
	ts, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, ts)

	want := []trigger.Trigger{testTrigger("W1ABC", "Always on")}
	require.NoError(t, p.Save(want))

	ts, err = p.Load()
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.True(t, ts[0].Matches(want[0]))

	// Saving nil clears the set.
	require.NoError(t, p.Save(nil))

	ts, err = p.Load()
	require.NoError(t, err)
	assert.Empty(t, ts)
}
