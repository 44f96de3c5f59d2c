package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker persists the current-profile name as a single trimmed text value.
// The marker is advisory: it records the last successful switch and may be
// stale or absent. It never overrides what the live collection actually
// contains.
type Marker struct {
	path string
}

// NewMarker creates a [Marker] backed by path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// Load returns the recorded profile name, or an empty string when no marker
// exists or the file holds only whitespace.
func (m *Marker) Load() (string, error) {
	data, err := os.ReadFile(m.path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", fmt.Errorf("read marker: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// Save records the profile name.
func (m *Marker) Save(name string) error {
	err := os.MkdirAll(filepath.Dir(m.path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(m.path, []byte(name+"\n"), 0o600)
	if err != nil {
		return fmt.Errorf("write marker: %w", err)
	}

	return nil
}

// Clear removes the marker. Clearing an absent marker is not an error.
func (m *Marker) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove marker: %w", err)
	}

	return nil
}
