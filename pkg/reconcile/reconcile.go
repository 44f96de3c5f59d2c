package reconcile

import (
	"context"
	"errors"

	"github.com/macropower/hamal/pkg/trigger"
)

var (
	// ErrCancelled reports that the user declined to continue. It is an
	// explicit outcome, not a failure: callers should exit cleanly without
	// reporting an error.
	ErrCancelled = errors.New("cancelled")

	// ErrBackup reports that the pre-mutation snapshot could not be written.
	// No remote call is made after this error.
	ErrBackup = errors.New("write backup snapshot")
)

// Source is the remote trigger collection. The [Switcher] is the only
// component that calls Create or Delete.
type Source interface {
	Fetch(ctx context.Context) ([]trigger.Remote, error)
	Create(ctx context.Context, t trigger.Trigger) (string, error)
	Delete(ctx context.Context, id string) error
}

// ProfileStore persists named profiles.
type ProfileStore interface {
	Load(name string) ([]trigger.Trigger, error)
	Save(name string, ts []trigger.Trigger) error
	List() ([]string, error)
	Exists(name string) bool
}

// PermanentStore persists the always-active trigger set.
// Load returns an empty set when nothing has been saved yet.
type PermanentStore interface {
	Load() ([]trigger.Trigger, error)
	Save(ts []trigger.Trigger) error
}

// Marker persists the advisory "current profile" name. Load returns an empty
// string when no profile is recorded. The marker is a cache of the last
// successful switch; it is never authoritative over the live collection.
type Marker interface {
	Load() (string, error)
	Save(name string) error
	Clear() error
}

// BackupSink writes snapshots of the live collection before destructive
// operations. The returned path must be unique per call.
type BackupSink interface {
	WriteSnapshot(label string, ts []trigger.Trigger) (string, error)
}

// Prompter asks the user to pick one of a fixed set of options. An
// implementation returns an error satisfying [ErrCancelled] when the user
// backs out.
type Prompter interface {
	Choose(ctx context.Context, title string, options []string) (string, error)
}
