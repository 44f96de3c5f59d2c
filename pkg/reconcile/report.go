package reconcile

import (
	"context"
	"fmt"

	"github.com/macropower/hamal/pkg/trigger"
)

// CorrectiveAction is one of the options surfaced when the marker disagrees
// with the best-matching profile. The report only names the actions;
// executing them is the caller's responsibility.
type CorrectiveAction string

const (
	// ActionUpdateMarker records the best match as the current profile
	// without touching anything else.
	ActionUpdateMarker CorrectiveAction = "update-marker"
	// ActionSaveAsNew saves the live non-permanent set as a new profile.
	ActionSaveAsNew CorrectiveAction = "save-as-new"
	// ActionIgnore leaves everything as is.
	ActionIgnore CorrectiveAction = "ignore"
)

// ProfileScore is one profile's coverage of the live non-permanent set.
type ProfileScore struct {
	Name  string
	Score Score
}

// Report is the read-only reconciliation status of the live collection
// against every known profile.
type Report struct {
	// Current is the marker value, empty when none is recorded.
	Current string
	// Best is the best-matching profile: maximum matched count, ties broken
	// by ascending profile name. Empty when no profiles exist.
	Best string
	// InSync is true iff Current equals Best and that match is exact.
	InSync bool
	// Profiles holds per-profile scores in store (sorted name) order.
	Profiles []ProfileScore
	// LiveCount is the size of the live collection.
	LiveCount int
	// PermanentCount is the number of live triggers matching the permanent set.
	PermanentCount int
	// UnexpectedCount is the number of live triggers matching neither the
	// permanent set nor the best-matching profile.
	UnexpectedCount int
}

// Actions returns the corrective actions available to the caller. There are
// none while the report is in sync.
func (r *Report) Actions() []CorrectiveAction {
	if r.InSync {
		return nil
	}

	return []CorrectiveAction{ActionUpdateMarker, ActionSaveAsNew, ActionIgnore}
}

// BestScore returns the score of the best-matching profile.
func (r *Report) BestScore() Score {
	for _, ps := range r.Profiles {
		if ps.Name == r.Best {
			return ps.Score
		}
	}

	return Score{}
}

// Reporter builds reconciliation reports. Read-only: it never mutates the
// source, the stores, or the marker.
type Reporter struct {
	src       Source
	profiles  ProfileStore
	permanent PermanentStore
	marker    Marker
}

// NewReporter creates a [Reporter].
func NewReporter(src Source, profiles ProfileStore, permanent PermanentStore, marker Marker) *Reporter {
	return &Reporter{
		src:       src,
		profiles:  profiles,
		permanent: permanent,
		marker:    marker,
	}
}

// Build fetches the live collection and scores every known profile against
// its non-permanent part.
func (rp *Reporter) Build(ctx context.Context) (*Report, error) {
	names, err := rp.profiles.List()
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	permanentSet, err := rp.permanent.Load()
	if err != nil {
		return nil, fmt.Errorf("load permanent set: %w", err)
	}

	current, err := rp.marker.Load()
	if err != nil {
		return nil, fmt.Errorf("load current profile marker: %w", err)
	}

	live, err := rp.src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch live triggers: %w", err)
	}

	cls := Classify(live, permanentSet, nil)
	nonPermanent := trigger.StoredSet(append(append([]trigger.Remote{}, cls.Reference...), cls.Unexpected...))

	report := &Report{
		Current:        current,
		Profiles:       make([]ProfileScore, 0, len(names)),
		LiveCount:      len(live),
		PermanentCount: len(cls.Permanent),
	}

	best := Score{Matched: -1}

	// names come back sorted, so keeping only strictly better scores breaks
	// ties toward the lexicographically smallest name.
	for _, name := range names {
		set, err := rp.profiles.Load(name)
		if err != nil {
			return nil, fmt.Errorf("load profile %q: %w", name, err)
		}

		score := ScoreProfile(nonPermanent, set)
		report.Profiles = append(report.Profiles, ProfileScore{Name: name, Score: score})

		if score.Matched > best.Matched {
			best = score
			report.Best = name
		}
	}

	report.InSync = report.Best != "" &&
		report.Current == report.Best &&
		best.Exact()

	if report.Best != "" {
		bestSet, err := rp.profiles.Load(report.Best)
		if err != nil {
			return nil, fmt.Errorf("load profile %q: %w", report.Best, err)
		}

		bestCls := Classify(live, permanentSet, bestSet)
		report.UnexpectedCount = len(bestCls.Unexpected)
	} else {
		report.UnexpectedCount = len(cls.Unexpected)
	}

	return report, nil
}
