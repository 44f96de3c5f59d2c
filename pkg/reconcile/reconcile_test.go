package reconcile_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/macropower/hamal/pkg/trigger"
)

// fakeSource is an in-memory [reconcile.Source] that records every call and
// can be scripted to fail at a specific point.
type fakeSource struct {
	failDeleteAt int // 1-based call index, 0 = never
	failCreateAt int
	failFetch    bool

	live    []trigger.Remote
	fetches int
	deletes []string
	creates []trigger.Trigger
}

var errRemote = errors.New("remote status 500")

func (s *fakeSource) Fetch(_ context.Context) ([]trigger.Remote, error) {
	s.fetches++
	if s.failFetch {
		return nil, errRemote
	}

	return slices.Clone(s.live), nil
}

func (s *fakeSource) Create(_ context.Context, t trigger.Trigger) (string, error) {
	if s.failCreateAt > 0 && len(s.creates)+1 == s.failCreateAt {
		return "", errRemote
	}

	s.creates = append(s.creates, t)

	return fmt.Sprintf("new-%d", len(s.creates)), nil
}

func (s *fakeSource) Delete(_ context.Context, id string) error {
	if s.failDeleteAt > 0 && len(s.deletes)+1 == s.failDeleteAt {
		return errRemote
	}

	s.deletes = append(s.deletes, id)

	return nil
}

// memStore is an in-memory profile store.
type memStore struct {
	profiles map[string][]trigger.Trigger
	saves    int
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string][]trigger.Trigger{}}
}

func (m *memStore) Load(name string) ([]trigger.Trigger, error) {
	ts, ok := m.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}

	return slices.Clone(ts), nil
}

func (m *memStore) Save(name string, ts []trigger.Trigger) error {
	m.profiles[name] = slices.Clone(ts)
	m.saves++

	return nil
}

func (m *memStore) List() ([]string, error) {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}

func (m *memStore) Exists(name string) bool {
	_, ok := m.profiles[name]

	return ok
}

// memPermanent is an in-memory permanent store.
type memPermanent struct {
	set []trigger.Trigger
}

func (m *memPermanent) Load() ([]trigger.Trigger, error) { return slices.Clone(m.set), nil }

func (m *memPermanent) Save(ts []trigger.Trigger) error {
	m.set = slices.Clone(ts)

	return nil
}

// memMarker is an in-memory current-profile marker.
type memMarker struct {
	name  string
	saves int
}

func (m *memMarker) Load() (string, error) { return m.name, nil }

func (m *memMarker) Save(name string) error {
	m.name = name
	m.saves++

	return nil
}

func (m *memMarker) Clear() error {
	m.name = ""

	return nil
}

// memBackup records snapshots instead of writing files.
type memBackup struct {
	fail      bool
	snapshots [][]trigger.Trigger
	labels    []string
}

var errBackupFailed = errors.New("disk full")

func (m *memBackup) WriteSnapshot(label string, ts []trigger.Trigger) (string, error) {
	if m.fail {
		return "", errBackupFailed
	}

	m.snapshots = append(m.snapshots, slices.Clone(ts))
	m.labels = append(m.labels, label)

	return fmt.Sprintf("/backups/%s-%d.json", label, len(m.snapshots)), nil
}

// scriptedPrompter returns pre-recorded answers. An answer selects the option
// containing its substring, so tests do not depend on exact label wording.
type scriptedPrompter struct {
	t       *testing.T
	answers []string
	calls   int
}

func (p *scriptedPrompter) Choose(_ context.Context, title string, options []string) (string, error) {
	p.t.Helper()

	if p.calls >= len(p.answers) {
		p.t.Fatalf("unexpected prompt %q", title)
	}

	answer := p.answers[p.calls]
	p.calls++

	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), strings.ToLower(answer)) {
			return opt, nil
		}
	}

	p.t.Fatalf("no option matching %q in %v", answer, options)

	return "", nil
}

// Trigger fixtures shared across the engine tests.

func stored(callsign, comment string) trigger.Trigger {
	return trigger.Trigger{
		Conditions: trigger.MustNewDocument(map[string]any{"callsign": callsign}),
		Actions:    []string{"app"},
		Comment:    comment,
	}
}

func remote(id, callsign, comment string) trigger.Remote {
	return trigger.Remote{
		Trigger: stored(callsign, comment),
		ID:      id,
	}
}
