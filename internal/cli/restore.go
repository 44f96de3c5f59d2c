package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/reconcile"
)

func NewRestoreCmd(ra *RootArgs) *cobra.Command {
	var noDryRun bool

	cmd := &cobra.Command{
		Use:   "restore PATH",
		Short: "Replace all triggers with the contents of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Parse before touching anything remote, so a corrupt backup
			// aborts with zero side effects.
			replacement, err := profile.Load(args[0])
			if err != nil {
				return err
			}

			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			err = d.connect(ctx)
			if err != nil {
				return err
			}

			live, err := d.client.Fetch(ctx)
			if err != nil {
				return err
			}

			if !noDryRun {
				mustN(fmt.Fprintln(out, "DRY RUN - No changes will be made"))
				mustN(fmt.Fprintf(out, "\nThis will DELETE %d existing trigger(s) and restore %d from backup.\n\n",
					len(live), len(replacement)))
				mustN(fmt.Fprintln(out, "Triggers to be restored:"))
				writeTriggerList(out, replacement)
				mustN(fmt.Fprintln(out, "\n"+subtleStyle.Render("Run again with --no-dry-run to apply.")))

				return nil
			}

			res, err := d.switcher().Restore(ctx, replacement)
			if err != nil {
				return failureWithSnapshot(res, err)
			}

			mustN(fmt.Fprintf(out, "Restored %d trigger(s) from %s\n", res.Created, args[0]))
			mustN(fmt.Fprintf(out, "Pre-restore snapshot: %s\n", res.BackupPath))

			return nil
		},
	}

	cmd.Flags().BoolVar(&noDryRun, "no-dry-run", false, "Actually perform the restore (default is dry-run)")
	bindEnvVars(cmd)

	return cmd
}

// failureWithSnapshot augments a fail-fast execution error with progress
// counts and a pointer at the pre-mutation snapshot.
func failureWithSnapshot(res *reconcile.Result, err error) error {
	if res.BackupPath != "" {
		return fmt.Errorf(
			"%w (completed %d deletion(s), %d creation(s); recover from snapshot %s)",
			err, res.Deleted, res.Created, res.BackupPath,
		)
	}

	return err
}
