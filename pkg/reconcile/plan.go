package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/macropower/hamal/pkg/trigger"
)

// UnexpectedOutcome records how unexpected triggers were resolved during
// planning.
type UnexpectedOutcome string

const (
	// OutcomeNone means there were no unexpected triggers.
	OutcomeNone UnexpectedOutcome = "none"
	// OutcomeDelete means the user chose to delete them with the rest.
	OutcomeDelete UnexpectedOutcome = "delete"
	// OutcomeSaved means they were merged into the previous profile and
	// persisted, and will still be deleted remotely.
	OutcomeSaved UnexpectedOutcome = "saved"
)

// Plan is the computed partition for one profile switch. Keep and Delete
// exactly partition Live; Unexpected is a subset of Delete.
type Plan struct {
	// Target is the profile being switched to.
	Target string
	// Previous is the marker value at plan time, empty when none was recorded.
	Previous string
	// Live is the collection fetched at plan time, in fetch order.
	Live []trigger.Remote
	// Keep holds live triggers matching the permanent set. Never touched.
	Keep []trigger.Remote
	// Delete holds every non-permanent live trigger, in fetch order.
	Delete []trigger.Remote
	// Create holds the target profile's triggers, verbatim.
	Create []trigger.Trigger
	// Unexpected holds live triggers matching neither the permanent set nor
	// the previous profile.
	Unexpected []trigger.Remote
	// Outcome records the unexpected-trigger resolution.
	Outcome UnexpectedOutcome
}

// Planner computes switch plans. It is pure given its inputs except for the
// prompt at the unexpected-trigger decision point and the save-to-previous
// write that the user may request there.
type Planner struct {
	src       Source
	profiles  ProfileStore
	permanent PermanentStore
	marker    Marker
	prompter  Prompter
}

// NewPlanner creates a [Planner] over the given collaborators.
func NewPlanner(src Source, profiles ProfileStore, permanent PermanentStore, marker Marker, prompter Prompter) *Planner {
	return &Planner{
		src:       src,
		profiles:  profiles,
		permanent: permanent,
		marker:    marker,
		prompter:  prompter,
	}
}

// Plan computes the switch plan for the target profile.
//
// The live collection is always fetched fresh here, never reused from an
// earlier read, so the plan cannot act on stale data. When unexpected
// triggers are found, the user chooses between deleting them, saving them to
// the previous profile first, or cancelling ([ErrCancelled]).
//
// The save-to-previous choice writes profile storage immediately, even when
// the caller only intends a dry run. Dry run guarantees no REMOTE mutation;
// it does not guarantee no local profile writes. That asymmetry is inherited
// from the original design and is kept on purpose.
func (p *Planner) Plan(ctx context.Context, target string) (*Plan, error) {
	targetSet, err := p.profiles.Load(target)
	if err != nil {
		return nil, fmt.Errorf("load target profile: %w", err)
	}

	permanentSet, err := p.permanent.Load()
	if err != nil {
		return nil, fmt.Errorf("load permanent set: %w", err)
	}

	previous, err := p.marker.Load()
	if err != nil {
		return nil, fmt.Errorf("load current profile marker: %w", err)
	}

	live, err := p.src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch live triggers: %w", err)
	}

	// The previous profile is the only baseline we can trust unexpected
	// triggers against. A stale marker pointing at a deleted profile counts
	// as no baseline.
	var reference []trigger.Trigger
	if previous != "" && p.profiles.Exists(previous) {
		reference, err = p.profiles.Load(previous)
		if err != nil {
			return nil, fmt.Errorf("load previous profile: %w", err)
		}
	}

	cls := Classify(live, permanentSet, reference)

	plan := &Plan{
		Target:     target,
		Previous:   previous,
		Live:       live,
		Keep:       cls.Permanent,
		Delete:     deleteSet(live, permanentSet),
		Create:     targetSet,
		Unexpected: cls.Unexpected,
		Outcome:    OutcomeNone,
	}

	slog.DebugContext(ctx, "computed switch plan",
		slog.String("target", target),
		slog.String("previous", previous),
		slog.Int("keep", len(plan.Keep)),
		slog.Int("delete", len(plan.Delete)),
		slog.Int("create", len(plan.Create)),
		slog.Int("unexpected", len(plan.Unexpected)),
	)

	if len(plan.Unexpected) > 0 {
		err := p.resolveUnexpected(ctx, plan)
		if err != nil {
			return nil, err
		}
	}

	return plan, nil
}

// deleteSet returns every live trigger not matching the permanent set, in
// fetch order. Deletion is independent of which profile a trigger was
// "supposed" to belong to.
func deleteSet(live []trigger.Remote, permanent []trigger.Trigger) []trigger.Remote {
	out := []trigger.Remote{}
	for _, r := range live {
		if !trigger.ContainsMatch(permanent, r.Stored()) {
			out = append(out, r)
		}
	}

	return out
}

const (
	choiceDelete = "Delete them with the rest"
	choiceCancel = "Cancel the switch"
)

func (p *Planner) resolveUnexpected(ctx context.Context, plan *Plan) error {
	title := fmt.Sprintf(
		"%d trigger(s) match neither the permanent set nor the recorded profile. What should happen to them?",
		len(plan.Unexpected),
	)

	options := []string{choiceDelete}

	// Saving only makes sense when there is a previous profile to save into.
	choiceSave := ""
	if plan.Previous != "" {
		choiceSave = fmt.Sprintf("Save them to profile %q first", plan.Previous)
		options = append(options, choiceSave)
	}

	options = append(options, choiceCancel)

	choice, err := p.prompter.Choose(ctx, title, options)
	if err != nil {
		return fmt.Errorf("resolve unexpected triggers: %w", err)
	}

	switch choice {
	case choiceCancel:
		return ErrCancelled

	case choiceDelete:
		plan.Outcome = OutcomeDelete

		return nil

	case choiceSave:
		err := p.saveToPrevious(ctx, plan)
		if err != nil {
			return err
		}

		plan.Outcome = OutcomeSaved

		// The triggers are recorded locally; remotely they still go away
		// with the rest. Deleting is now the only way forward short of
		// cancelling.
		confirm, err := p.prompter.Choose(ctx,
			fmt.Sprintf("Saved. Continue switching to %q?", plan.Target),
			[]string{choiceDelete, choiceCancel},
		)
		if err != nil {
			return fmt.Errorf("confirm switch: %w", err)
		}
		if confirm == choiceCancel {
			return ErrCancelled
		}

		return nil
	}

	return fmt.Errorf("unknown choice %q", choice)
}

// saveToPrevious merges each unexpected trigger not already present by
// identity into the previous profile and persists it immediately. This is a
// local bookkeeping write, independent of whether the switch itself runs.
func (p *Planner) saveToPrevious(ctx context.Context, plan *Plan) error {
	var existing []trigger.Trigger

	if p.profiles.Exists(plan.Previous) {
		var err error

		existing, err = p.profiles.Load(plan.Previous)
		if err != nil {
			return fmt.Errorf("load profile %q: %w", plan.Previous, err)
		}
	}

	added := 0

	for _, r := range plan.Unexpected {
		if !trigger.ContainsMatch(existing, r.Stored()) {
			existing = append(existing, r.Stored())
			added++
		}
	}

	err := p.profiles.Save(plan.Previous, existing)
	if err != nil {
		return fmt.Errorf("save profile %q: %w", plan.Previous, err)
	}

	slog.InfoContext(ctx, "saved unexpected triggers to previous profile",
		slog.String("profile", plan.Previous),
		slog.Int("added", added),
		slog.Int("total", len(existing)),
	)

	return nil
}
