package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/reconcile"
)

func NewProfileCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named trigger profiles",
	}

	cmd.AddCommand(
		NewProfileListCmd(ra),
		NewProfileShowCmd(ra),
		NewProfileStatusCmd(ra),
		NewProfileSaveCmd(ra),
		NewProfileSwitchCmd(ra),
		NewProfileDeleteCmd(ra),
		NewProfileSetPermanentCmd(ra),
		NewProfileShowPermanentCmd(ra),
	)

	return cmd
}

func NewProfileListCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles with their live match percentages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			err = d.connect(ctx)
			if err != nil {
				return err
			}

			report, err := d.reporter().Build(ctx)
			if err != nil {
				return err
			}

			writeReport(cmd.OutOrStdout(), report)

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewProfileShowCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "show NAME",
		Short:             "Show the triggers stored in a profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileNameCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			ts, err := d.profiles.Load(args[0])
			if err != nil {
				return suggestOnNotFound(err)
			}

			out := cmd.OutOrStdout()

			mustN(fmt.Fprintf(out, "Profile %q: %d trigger(s)\n", args[0], len(ts)))
			writeTriggerList(out, ts)

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewProfileShowPermanentCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-permanent",
		Short: "Show the permanent trigger set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			ts, err := d.permanent.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			mustN(fmt.Fprintf(out, "Permanent set: %d trigger(s)\n", len(ts)))
			writeTriggerList(out, ts)

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewProfileDeleteCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "delete NAME",
		Short:             "Delete a profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileNameCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			if !d.profiles.Exists(args[0]) {
				// Surface suggestions before prompting for anything.
				return suggestOnNotFound(d.profiles.Delete(args[0]))
			}

			ok, err := d.prompter.Confirm(cmd.Context(), fmt.Sprintf("Delete profile %q?", args[0]))
			if err != nil {
				return err
			}

			if !ok {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), "Cancelled."))

				return nil
			}

			err = d.profiles.Delete(args[0])
			if err != nil {
				return suggestOnNotFound(err)
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q\n", args[0]))

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

func NewProfileStatusCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how live triggers line up with the saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			err = d.connect(ctx)
			if err != nil {
				return err
			}

			report, err := d.reporter().Build(ctx)
			if err != nil {
				return err
			}

			writeReport(out, report)

			if report.InSync || len(report.Actions()) == 0 {
				return nil
			}

			err = runCorrectiveAction(cmd, d, report)
			if errors.Is(err, reconcile.ErrCancelled) {
				mustN(fmt.Fprintln(out, "Cancelled."))

				return nil
			}

			return err
		},
	}

	bindEnvVars(cmd)

	return cmd
}

const (
	actionLabelUpdateMarker = "Update the current-profile marker"
	actionLabelSaveAsNew    = "Save live triggers as a new profile"
	actionLabelIgnore       = "Ignore"
)

// runCorrectiveAction lets the user resolve a marker/best-match mismatch.
// The report only names the possible actions; this is where they happen.
func runCorrectiveAction(cmd *cobra.Command, d *deps, report *reconcile.Report) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	options := []string{}
	if report.Best != "" {
		options = append(options, actionLabelUpdateMarker)
	}

	options = append(options, actionLabelSaveAsNew, actionLabelIgnore)

	choice, err := d.prompter.Choose(ctx, "The marker disagrees with the live triggers. What now?", options)
	if err != nil {
		return err
	}

	switch choice {
	case actionLabelUpdateMarker:
		err := d.marker.Save(report.Best)
		if err != nil {
			return err
		}

		mustN(fmt.Fprintf(out, "Marker updated to %q\n", report.Best))

	case actionLabelSaveAsNew:
		name, err := d.prompter.Input(ctx, "New profile name", "e.g. home")
		if err != nil {
			return err
		}

		if name == "" {
			mustN(fmt.Fprintln(out, "No name given, nothing saved."))

			return nil
		}

		return saveProfileFromLive(cmd, d, name)

	case actionLabelIgnore:
	}

	return nil
}

// suggestOnNotFound appends a "did you mean" hint when the error carries
// fuzzy-ranked alternatives.
func suggestOnNotFound(err error) error {
	var nfe *profile.NotFoundError
	if errors.As(err, &nfe) {
		if suggestions := nfe.Suggestions(1); len(suggestions) > 0 {
			return fmt.Errorf("%w (did you mean %q?)", err, suggestions[0])
		}
	}

	return err
}

func profileNameCompletion(ra *RootArgs) func(*cobra.Command, []string, string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		d, err := buildDeps(ra)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		names, err := d.profiles.List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
