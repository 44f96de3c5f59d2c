package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hamal/pkg/reconcile"
	"github.com/macropower/hamal/pkg/trigger"
)

func TestPlanner_Plan_NoBaseline(t *testing.T) {
	t.Parallel()

	// live = [X(permanent), Y, Z], permanent = [X], target = [Y, W], no
	// marker recorded. With no baseline, every non-permanent live trigger is
	// unexpected.
	x := remote("1", "X1X", "X")
	y := remote("2", "Y1Y", "Y")
	z := remote("3", "Z1Z", "Z")
	w := stored("W0W", "W")

	src := &fakeSource{live: []trigger.Remote{x, y, z}}
	profiles := newMemStore()
	profiles.profiles["target"] = []trigger.Trigger{y.Stored(), w}
	permanent := &memPermanent{set: []trigger.Trigger{x.Stored()}}
	marker := &memMarker{}
	prompter := &scriptedPrompter{t: t, answers: []string{"delete"}}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, prompter)

	plan, err := p.Plan(t.Context(), "target")
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "3"}, ids(plan.Delete))
	assert.Equal(t, []string{"1"}, ids(plan.Keep))
	assert.Equal(t, []string{"2", "3"}, ids(plan.Unexpected))
	require.Len(t, plan.Create, 2)
	assert.True(t, plan.Create[0].Matches(y.Stored()))
	assert.True(t, plan.Create[1].Matches(w))
	assert.Equal(t, reconcile.OutcomeDelete, plan.Outcome)

	// Planning always fetches fresh.
	assert.Equal(t, 1, src.fetches)
	// Planning never mutates the remote collection.
	assert.Empty(t, src.deletes)
	assert.Empty(t, src.creates)
}

func TestPlanner_Plan_CoverageProperty(t *testing.T) {
	t.Parallel()

	x := remote("1", "X1X", "X")
	y := remote("2", "Y1Y", "Y")
	z := remote("3", "Z1Z", "Z")

	src := &fakeSource{live: []trigger.Remote{y, x, z}}
	profiles := newMemStore()
	profiles.profiles["home"] = []trigger.Trigger{y.Stored(), z.Stored()}
	permanent := &memPermanent{set: []trigger.Trigger{x.Stored()}}
	marker := &memMarker{name: "home"}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, &scriptedPrompter{t: t})

	plan, err := p.Plan(t.Context(), "home")
	require.NoError(t, err)

	// toDelete is exactly the live set minus permanent matches, in fetch order.
	assert.Equal(t, []string{"2", "3"}, ids(plan.Delete))
	assert.Equal(t, []string{"1"}, ids(plan.Keep))
	assert.Len(t, plan.Keep, len(plan.Live)-len(plan.Delete))

	// Everything is accounted for by the previous profile, so no prompt ran.
	assert.Empty(t, plan.Unexpected)
	assert.Equal(t, reconcile.OutcomeNone, plan.Outcome)
}

func TestPlanner_Plan_CancelLeavesEverythingUntouched(t *testing.T) {
	t.Parallel()

	y := remote("2", "Y1Y", "Y")

	src := &fakeSource{live: []trigger.Remote{y}}
	profiles := newMemStore()
	profiles.profiles["target"] = []trigger.Trigger{}
	permanent := &memPermanent{}
	marker := &memMarker{}
	prompter := &scriptedPrompter{t: t, answers: []string{"cancel"}}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, prompter)

	_, err := p.Plan(t.Context(), "target")
	require.ErrorIs(t, err, reconcile.ErrCancelled)

	assert.Empty(t, src.deletes)
	assert.Empty(t, src.creates)
	assert.Zero(t, marker.saves)
	assert.Zero(t, profiles.saves)
}

func TestPlanner_Plan_SaveToPrevious(t *testing.T) {
	t.Parallel()

	x := remote("1", "X1X", "X")
	y := remote("2", "Y1Y", "Y")
	z := remote("3", "Z1Z", "Z")

	src := &fakeSource{live: []trigger.Remote{x, y, z}}
	profiles := newMemStore()
	profiles.profiles["home"] = []trigger.Trigger{y.Stored()}
	profiles.profiles["trip"] = []trigger.Trigger{stored("W0W", "W")}
	permanent := &memPermanent{set: []trigger.Trigger{x.Stored()}}
	marker := &memMarker{name: "home"}
	// Save the unexpected trigger to "home", then continue with the switch.
	prompter := &scriptedPrompter{t: t, answers: []string{"save", "delete"}}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, prompter)

	plan, err := p.Plan(t.Context(), "trip")
	require.NoError(t, err)

	assert.Equal(t, reconcile.OutcomeSaved, plan.Outcome)
	assert.Equal(t, []string{"3"}, ids(plan.Unexpected))

	// Z was merged into the previous profile and persisted immediately.
	saved := profiles.profiles["home"]
	require.Len(t, saved, 2)
	assert.True(t, saved[0].Matches(y.Stored()))
	assert.True(t, saved[1].Matches(z.Stored()))

	// The merge does not change the remote plan: Z still gets deleted.
	assert.Equal(t, []string{"2", "3"}, ids(plan.Delete))
}

func TestPlanner_Plan_SaveSkipsDuplicateIdentities(t *testing.T) {
	t.Parallel()

	// The remote collection holds two copies of Z with the same identity.
	// The merge into the previous profile keeps only one.
	x := remote("1", "X1X", "X")
	z1 := remote("3", "Z1Z", "Z")
	z2 := remote("4", "Z1Z", "Z")

	src := &fakeSource{live: []trigger.Remote{x, z1, z2}}
	profiles := newMemStore()
	profiles.profiles["home"] = []trigger.Trigger{}
	profiles.profiles["trip"] = []trigger.Trigger{}
	permanent := &memPermanent{set: []trigger.Trigger{x.Stored()}}
	marker := &memMarker{name: "home"}
	prompter := &scriptedPrompter{t: t, answers: []string{"save", "delete"}}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, prompter)

	plan, err := p.Plan(t.Context(), "trip")
	require.NoError(t, err)

	assert.Equal(t, []string{"3", "4"}, ids(plan.Unexpected))
	require.Len(t, profiles.profiles["home"], 1)
	assert.True(t, profiles.profiles["home"][0].Matches(z1.Stored()))
}

func TestPlanner_Plan_SaveThenCancel(t *testing.T) {
	t.Parallel()

	x := remote("1", "X1X", "X")
	z := remote("3", "Z1Z", "Z")

	src := &fakeSource{live: []trigger.Remote{x, z}}
	profiles := newMemStore()
	profiles.profiles["home"] = []trigger.Trigger{}
	profiles.profiles["trip"] = []trigger.Trigger{}
	permanent := &memPermanent{set: []trigger.Trigger{x.Stored()}}
	marker := &memMarker{name: "home"}
	prompter := &scriptedPrompter{t: t, answers: []string{"save", "cancel"}}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, prompter)

	_, err := p.Plan(t.Context(), "trip")
	require.ErrorIs(t, err, reconcile.ErrCancelled)

	// The save-to-previous write already happened and stays committed; that
	// is the documented dry-run asymmetry.
	require.Len(t, profiles.profiles["home"], 1)
	assert.True(t, profiles.profiles["home"][0].Matches(z.Stored()))

	assert.Empty(t, src.deletes)
	assert.Empty(t, src.creates)
	assert.Zero(t, marker.saves)
}

func TestPlanner_Plan_NoSaveOptionWithoutPreviousProfile(t *testing.T) {
	t.Parallel()

	z := remote("3", "Z1Z", "Z")

	src := &fakeSource{live: []trigger.Remote{z}}
	profiles := newMemStore()
	profiles.profiles["target"] = []trigger.Trigger{}
	permanent := &memPermanent{}
	marker := &memMarker{} // No marker recorded.

	gotOptions := []string{}
	prompter := &optionRecorder{inner: &scriptedPrompter{t: t, answers: []string{"delete"}}, options: &gotOptions}

	p := reconcile.NewPlanner(src, profiles, permanent, marker, prompter)

	_, err := p.Plan(t.Context(), "target")
	require.NoError(t, err)

	require.Len(t, gotOptions, 2, "only delete and cancel without a previous profile")
}

func TestPlanner_Plan_MissingTargetProfile(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	p := reconcile.NewPlanner(src, newMemStore(), &memPermanent{}, &memMarker{}, &scriptedPrompter{t: t})

	_, err := p.Plan(t.Context(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load target profile")
	// Nothing was fetched; the operation aborted before any remote call.
	assert.Zero(t, src.fetches)
}

func TestPlanner_Plan_StaleMarkerMeansNoBaseline(t *testing.T) {
	t.Parallel()

	z := remote("3", "Z1Z", "Z")

	src := &fakeSource{live: []trigger.Remote{z}}
	profiles := newMemStore()
	profiles.profiles["target"] = []trigger.Trigger{}
	marker := &memMarker{name: "deleted-long-ago"}
	prompter := &scriptedPrompter{t: t, answers: []string{"delete"}}

	p := reconcile.NewPlanner(src, profiles, &memPermanent{}, marker, prompter)

	plan, err := p.Plan(t.Context(), "target")
	require.NoError(t, err)

	// The marker points at a profile that no longer exists: no baseline, so
	// the live trigger is unexpected.
	assert.Equal(t, []string{"3"}, ids(plan.Unexpected))
}

// optionRecorder captures the options offered at each prompt.
type optionRecorder struct {
	inner   *scriptedPrompter
	options *[]string
}

func (r *optionRecorder) Choose(ctx context.Context, title string, options []string) (string, error) {
	*r.options = options

	return r.inner.Choose(ctx, title, options)
}
