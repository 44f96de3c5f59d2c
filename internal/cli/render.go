package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/reconcile"
	"github.com/macropower/hamal/pkg/trigger"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Faint(true)
)

func writeTriggerList(w io.Writer, ts []trigger.Trigger) {
	for i, t := range ts {
		mustN(fmt.Fprintf(w, "  %d. %s\n", i+1, t.Display()))
	}
}

func writeRemoteList(w io.Writer, rs []trigger.Remote) {
	for i, r := range rs {
		mustN(fmt.Fprintf(w, "  %d. %s\n", i+1, r.Display()))
	}
}

// writePlan prints the dry-run preview of a switch plan. It makes no remote
// calls; everything shown was computed at plan time.
func writePlan(w io.Writer, plan *reconcile.Plan) {
	mustN(fmt.Fprintf(w, "Switch to profile %q (dry run, no remote changes)\n\n", plan.Target))

	mustN(fmt.Fprintf(w, "Keep (permanent): %d trigger(s)\n", len(plan.Keep)))

	mustN(fmt.Fprintf(w, "Delete: %d trigger(s)\n", len(plan.Delete)))
	writeRemoteList(w, plan.Delete)

	mustN(fmt.Fprintf(w, "Create: %d trigger(s)\n", len(plan.Create)))
	writeTriggerList(w, plan.Create)

	switch plan.Outcome {
	case reconcile.OutcomeSaved:
		mustN(fmt.Fprintf(w, "\nUnexpected: %d trigger(s), saved to profile %q (still deleted remotely)\n",
			len(plan.Unexpected), plan.Previous))
	case reconcile.OutcomeDelete:
		mustN(fmt.Fprintf(w, "\nUnexpected: %d trigger(s), deleted with the rest\n", len(plan.Unexpected)))
	case reconcile.OutcomeNone:
	}

	mustN(fmt.Fprintln(w, "\n"+subtleStyle.Render("Run again with --no-dry-run to apply.")))
}

// writeReport prints the reconciliation status used by profile list/status.
func writeReport(w io.Writer, report *reconcile.Report) {
	if report.Current != "" {
		mustN(fmt.Fprintf(w, "Current profile: %s\n", report.Current))
	} else {
		mustN(fmt.Fprintln(w, "Current profile: (none)"))
	}

	mustN(fmt.Fprintf(w, "Live triggers: %d (%d permanent, %d unexpected)\n\n",
		report.LiveCount, report.PermanentCount, report.UnexpectedCount))

	if len(report.Profiles) == 0 {
		mustN(fmt.Fprintln(w, "No profiles saved."))

		return
	}

	mustN(fmt.Fprintln(w, headerStyle.Render("Profiles:")))

	for _, ps := range report.Profiles {
		star := " "
		if ps.Name == report.Current {
			star = "*"
		}

		line := fmt.Sprintf("%s %-20s %3d%% (%d/%d)",
			star, ps.Name, ps.Score.Percent(), ps.Score.Matched, ps.Score.Total)
		if ps.Name == report.Best {
			line += "  <- best match"
		}

		mustN(fmt.Fprintln(w, line))
	}

	mustN(fmt.Fprintln(w))

	if report.InSync {
		mustN(fmt.Fprintf(w, "In sync with %q.\n", report.Best))
	} else if report.Best != "" {
		mustN(fmt.Fprintf(w, "Live triggers best match %q (%d%%), but the marker says %q.\n",
			report.Best, report.BestScore().Percent(), orNone(report.Current)))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}

	return s
}

// renderSetDiff returns a unified diff between two stored trigger sets,
// rendered from their persisted JSON forms.
func renderSetDiff(name string, old, updated []trigger.Trigger) (string, error) {
	oldJSON, err := profile.MarshalSet(old)
	if err != nil {
		return "", fmt.Errorf("marshal existing set: %w", err)
	}

	newJSON, err := profile.MarshalSet(updated)
	if err != nil {
		return "", fmt.Errorf("marshal new set: %w", err)
	}

	diff := udiff.Unified(name+" (stored)", name+" (new)", string(oldJSON), string(newJSON))
	if strings.TrimSpace(diff) == "" {
		return "", nil
	}

	return diff, nil
}
