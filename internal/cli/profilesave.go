package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/reconcile"
	"github.com/macropower/hamal/pkg/trigger"
)

func NewProfileSaveCmd(ra *RootArgs) *cobra.Command {
	var fromBackup string

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current triggers (or a backup) as a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			if fromBackup != "" {
				set, err := profile.Load(fromBackup)
				if err != nil {
					return err
				}

				err = saveProfile(cmd, d, args[0], set, false)
				if errors.Is(err, reconcile.ErrCancelled) {
					mustN(fmt.Fprintln(cmd.OutOrStdout(), "Cancelled."))

					return nil
				}

				return err
			}

			err = saveProfileFromLive(cmd, d, args[0])
			if errors.Is(err, reconcile.ErrCancelled) {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), "Cancelled."))

				return nil
			}

			return err
		},
	}

	cmd.Flags().StringVar(&fromBackup, "from-backup", "", "Create the profile from a backup file instead of live triggers")
	must(cmd.MarkFlagFilename("from-backup", "json"))
	bindEnvVars(cmd)

	return cmd
}

// saveProfileFromLive fetches the live triggers and stores them under name.
// Saving from live also records name as the current profile.
func saveProfileFromLive(cmd *cobra.Command, d *deps, name string) error {
	ctx := cmd.Context()

	err := d.connect(ctx)
	if err != nil {
		return err
	}

	live, err := d.client.Fetch(ctx)
	if err != nil {
		return err
	}

	return saveProfile(cmd, d, name, trigger.StoredSet(live), true)
}

// saveProfile filters out permanent triggers and persists the rest. When an
// identical profile already exists nothing is rewritten; when it differs the
// user sees a diff and confirms the overwrite.
func saveProfile(cmd *cobra.Command, d *deps, name string, set []trigger.Trigger, fromLive bool) error {
	out := cmd.OutOrStdout()

	permanentSet, err := d.permanent.Load()
	if err != nil {
		return err
	}

	filtered := trigger.FilterOut(set, permanentSet)

	if d.profiles.Exists(name) {
		existing, err := d.profiles.Load(name)
		if err != nil {
			return err
		}

		if trigger.Equal(existing, filtered) {
			mustN(fmt.Fprintf(out, "Profile %q already has identical content, nothing to write.\n", name))

			return markerAfterSave(out, d, name, fromLive)
		}

		diff, err := renderSetDiff(name, existing, filtered)
		if err != nil {
			return err
		}

		mustN(fmt.Fprintf(out, "Profile %q exists and differs:\n\n%s\n", name, diff))

		ok, err := d.prompter.Confirm(cmd.Context(), fmt.Sprintf("Overwrite profile %q?", name))
		if err != nil {
			return err
		}

		if !ok {
			return reconcile.ErrCancelled
		}
	}

	err = d.profiles.Save(name, filtered)
	if err != nil {
		return err
	}

	mustN(fmt.Fprintf(out, "Saved %d trigger(s) to profile %q (%d permanent excluded)\n",
		len(filtered), name, len(set)-len(filtered)))

	return markerAfterSave(out, d, name, fromLive)
}

func markerAfterSave(out io.Writer, d *deps, name string, fromLive bool) error {
	if !fromLive {
		return nil
	}

	err := d.marker.Save(name)
	if err != nil {
		return err
	}

	mustN(fmt.Fprintf(out, "Current profile set to %q\n", name))

	return nil
}

func NewProfileSwitchCmd(ra *RootArgs) *cobra.Command {
	var noDryRun bool

	cmd := &cobra.Command{
		Use:               "switch NAME",
		Short:             "Replace the live triggers with a profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileNameCompletion(ra),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			plan, err := d.planner().Plan(ctx, args[0])
			if errors.Is(err, reconcile.ErrCancelled) {
				mustN(fmt.Fprintln(out, "Cancelled."))

				return nil
			}
			if err != nil {
				return suggestOnNotFound(err)
			}

			if !noDryRun {
				writePlan(out, plan)

				return nil
			}

			res, err := d.switcher().Execute(ctx, plan)
			if err != nil {
				return failureWithSnapshot(res, err)
			}

			mustN(fmt.Fprintf(out, "Switched to profile %q: deleted %d, created %d, kept %d permanent.\n",
				plan.Target, res.Deleted, res.Created, len(plan.Keep)))
			mustN(fmt.Fprintf(out, "Pre-switch snapshot: %s\n", res.BackupPath))

			return nil
		},
	}

	cmd.Flags().BoolVar(&noDryRun, "no-dry-run", false, "Actually perform the switch (default is dry-run)")
	bindEnvVars(cmd)

	return cmd
}

func NewProfileSetPermanentCmd(ra *RootArgs) *cobra.Command {
	var fromBackup string

	cmd := &cobra.Command{
		Use:   "set-permanent",
		Short: "Select which triggers belong to the permanent set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			var source []trigger.Trigger

			if fromBackup != "" {
				source, err = profile.Load(fromBackup)
				if err != nil {
					return err
				}
			} else {
				err = d.connect(ctx)
				if err != nil {
					return err
				}

				live, err := d.client.Fetch(ctx)
				if err != nil {
					return err
				}

				source = trigger.StoredSet(live)
			}

			if len(source) == 0 {
				mustN(fmt.Fprintln(out, "No triggers found."))

				return nil
			}

			permanentSet, err := d.permanent.Load()
			if err != nil {
				return err
			}

			items := make([]string, 0, len(source))
			checked := []int{}

			for i, t := range source {
				items = append(items, t.Display())

				if trigger.ContainsMatch(permanentSet, t) {
					checked = append(checked, i)
				}
			}

			selected, err := d.prompter.MultiSelect(ctx, "Select permanent triggers", items, checked)
			if errors.Is(err, reconcile.ErrCancelled) {
				mustN(fmt.Fprintln(out, "Cancelled."))

				return nil
			}
			if err != nil {
				return err
			}

			newSet := make([]trigger.Trigger, 0, len(selected))
			for _, i := range selected {
				newSet = append(newSet, source[i])
			}

			err = d.permanent.Save(newSet)
			if err != nil {
				return err
			}

			mustN(fmt.Fprintf(out, "Permanent set now holds %d trigger(s).\n", len(newSet)))

			return nil
		},
	}

	cmd.Flags().StringVar(&fromBackup, "from-backup", "", "Select from a backup file instead of live triggers")
	must(cmd.MarkFlagFilename("from-backup", "json"))
	bindEnvVars(cmd)

	return cmd
}
