package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/macropower/hamal/pkg/trigger"
)

// readSet parses a trigger set file. The error distinguishes structural
// problems from I/O so callers can abort before mutating anything.
func readSet(path string) ([]trigger.Trigger, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var ts []trigger.Trigger

	err = json.Unmarshal(data, &ts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	return ts, nil
}

// MarshalSet renders a trigger set in the persisted schema: an indented JSON
// array with a trailing newline, nil treated as empty.
func MarshalSet(ts []trigger.Trigger) ([]byte, error) {
	if ts == nil {
		ts = []trigger.Trigger{}
	}

	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal triggers: %w", err)
	}

	return append(data, '\n'), nil
}

// writeSet writes a trigger set file, creating parent directories as needed.
func writeSet(path string, ts []trigger.Trigger) error {
	data, err := MarshalSet(ts)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
