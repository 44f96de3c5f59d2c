package profile

import (
	"fmt"
	"os"

	"github.com/macropower/hamal/pkg/trigger"
)

// PermanentStore persists the always-active trigger set as a single JSON file.
type PermanentStore struct {
	path string
}

// NewPermanentStore creates a [PermanentStore] backed by path.
func NewPermanentStore(path string) *PermanentStore {
	return &PermanentStore{path: path}
}

// Load returns the permanent set, or an empty set when the file is absent.
func (p *PermanentStore) Load() ([]trigger.Trigger, error) {
	_, err := os.Stat(p.path)
	if os.IsNotExist(err) {
		return []trigger.Trigger{}, nil
	}

	ts, err := readSet(p.path)
	if err != nil {
		return nil, fmt.Errorf("permanent set: %w", err)
	}

	return ts, nil
}

// Save writes (or overwrites) the permanent set.
func (p *PermanentStore) Save(ts []trigger.Trigger) error {
	err := writeSet(p.path, ts)
	if err != nil {
		return fmt.Errorf("permanent set: %w", err)
	}

	return nil
}
