package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/macropower/hamal/pkg/trigger"
)

// ErrNotFound reports a missing profile. Use [errors.As] with
// [*NotFoundError] to get the known alternatives.
var ErrNotFound = errors.New("profile not found")

// NotFoundError carries the requested name plus the known profiles, ranked
// by similarity to the request so callers can suggest alternatives.
type NotFoundError struct {
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("profile %q not found (no profiles saved)", e.Name)
	}

	return fmt.Sprintf("profile %q not found, known profiles: %s", e.Name, strings.Join(e.Known, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Suggestions returns up to n known profile names fuzzy-ranked against the
// requested name, best first.
func (e *NotFoundError) Suggestions(n int) []string {
	matches := fuzzy.Find(e.Name, e.Known)

	out := []string{}
	for _, m := range matches {
		if len(out) == n {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// Store persists named profiles as one JSON file per profile in a directory.
type Store struct {
	dir string
}

// NewStore creates a [Store] rooted at dir. The directory is created lazily
// on the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load returns the profile's trigger set. A missing profile yields a
// [*NotFoundError] listing the known alternatives; no mutation is attempted.
func (s *Store) Load(name string) ([]trigger.Trigger, error) {
	if !s.Exists(name) {
		known, err := s.List()
		if err != nil {
			known = nil
		}

		return nil, &NotFoundError{Name: name, Known: known}
	}

	ts, err := readSet(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return ts, nil
}

// Save writes (or overwrites) the profile.
func (s *Store) Save(name string, ts []trigger.Trigger) error {
	err := writeSet(s.path(name), ts)
	if err != nil {
		return fmt.Errorf("profile %q: %w", name, err)
	}

	return nil
}

// List returns all profile names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("read profiles directory: %w", err)
	}

	names := []string{}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}

	sort.Strings(names)

	return names, nil
}

// Delete removes the profile file. Missing profiles yield a [*NotFoundError].
func (s *Store) Delete(name string) error {
	if !s.Exists(name) {
		known, err := s.List()
		if err != nil {
			known = nil
		}

		return &NotFoundError{Name: name, Known: known}
	}

	err := os.Remove(s.path(name))
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}

	return nil
}

// Exists reports whether the profile has been saved.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.path(name))

	return err == nil && info.Mode().IsRegular()
}
