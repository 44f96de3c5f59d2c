package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/macropower/hamal/pkg/trigger"
)

// Result reports what a destructive operation accomplished. It is populated
// even on failure so the caller can say how far execution got and where the
// snapshot lives.
type Result struct {
	// BackupPath is the snapshot written before the first mutation.
	BackupPath string
	// Deleted is the number of remote deletions that succeeded.
	Deleted int
	// Created is the number of remote creations that succeeded.
	Created int
}

// Switcher executes plans against the remote collection. It is the only
// component that mutates the [Source].
//
// Every operation snapshots the live set before the first remote mutation
// and then runs a fail-fast loop: one independent remote call per trigger,
// stopping at the first failure with no compensating undo. Recovery from a
// partial failure is manual, from the snapshot.
type Switcher struct {
	src    Source
	backup BackupSink
	marker Marker
}

// NewSwitcher creates a [Switcher].
func NewSwitcher(src Source, backup BackupSink, marker Marker) *Switcher {
	return &Switcher{
		src:    src,
		backup: backup,
		marker: marker,
	}
}

// Execute applies a switch plan: snapshot, delete every plan.Delete entry,
// create every plan.Create entry, then persist the marker.
//
// The plan is applied literally even when the target appears to equal the
// already-active profile. Proving the live set byte-identical to the target
// would amount to re-running the same plan, so there is no no-op shortcut.
//
// If a deletion fails, the create phase is not attempted. The marker is only
// written after full success, so a failed switch leaves the previous marker
// in place.
func (s *Switcher) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	res := &Result{}

	path, err := s.backup.WriteSnapshot("before-switch", trigger.StoredSet(plan.Live))
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrBackup, err)
	}

	res.BackupPath = path

	slog.InfoContext(ctx, "wrote pre-switch snapshot",
		slog.String("path", path),
		slog.Int("triggers", len(plan.Live)),
	)

	err = s.deleteEach(ctx, plan.Delete, res)
	if err != nil {
		return res, err
	}

	err = s.createEach(ctx, plan.Create, res)
	if err != nil {
		return res, err
	}

	err = s.marker.Save(plan.Target)
	if err != nil {
		return res, fmt.Errorf("save current profile marker: %w", err)
	}

	return res, nil
}

// Restore replaces the entire live collection with the given set: snapshot,
// delete everything live, create every replacement. The live set is fetched
// fresh here so the deletions act on current state.
func (s *Switcher) Restore(ctx context.Context, replacement []trigger.Trigger) (*Result, error) {
	res := &Result{}

	live, err := s.src.Fetch(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch live triggers: %w", err)
	}

	path, err := s.backup.WriteSnapshot("before-restore", trigger.StoredSet(live))
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrBackup, err)
	}

	res.BackupPath = path

	err = s.deleteEach(ctx, live, res)
	if err != nil {
		return res, err
	}

	err = s.createEach(ctx, replacement, res)
	if err != nil {
		return res, err
	}

	return res, nil
}

// BulkDelete removes the selected triggers: snapshot of the full live set,
// then fail-fast deletion. The selection comes from the caller's fetch, so
// both the full set and the selection are passed in.
func (s *Switcher) BulkDelete(ctx context.Context, live, toDelete []trigger.Remote) (*Result, error) {
	res := &Result{}

	path, err := s.backup.WriteSnapshot("before-bulk-delete", trigger.StoredSet(live))
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrBackup, err)
	}

	res.BackupPath = path

	err = s.deleteEach(ctx, toDelete, res)
	if err != nil {
		return res, err
	}

	return res, nil
}

func (s *Switcher) deleteEach(ctx context.Context, rs []trigger.Remote, res *Result) error {
	for _, r := range rs {
		err := s.src.Delete(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("delete trigger %s: %w", r.Display(), err)
		}

		res.Deleted++

		slog.DebugContext(ctx, "deleted trigger",
			slog.String("id", r.ID),
			slog.String("trigger", r.Display()),
		)
	}

	return nil
}

func (s *Switcher) createEach(ctx context.Context, ts []trigger.Trigger, res *Result) error {
	for _, t := range ts {
		id, err := s.src.Create(ctx, t)
		if err != nil {
			return fmt.Errorf("create trigger %s: %w", t.Display(), err)
		}

		res.Created++

		slog.DebugContext(ctx, "created trigger",
			slog.String("id", id),
			slog.String("trigger", t.Display()),
		)
	}

	return nil
}
