package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/trigger"
)

func NewBulkDeleteCmd(ra *RootArgs) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "bulk-delete",
		Short: "Interactively delete multiple triggers",
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

			live, err := d.client.Fetch(ctx)
			if err != nil {
				return err
			}

			if len(live) == 0 {
				mustN(fmt.Fprintln(out, "No triggers found."))

				return nil
			}

			items := make([]string, 0, len(live))
			checked := make([]int, 0, len(live))

			for i, r := range live {
				items = append(items, r.Display())
				checked = append(checked, i)
			}

			// Everything starts checked; the user unchecks what should go.
			kept, err := d.prompter.MultiSelect(ctx,
				"Select triggers to KEEP (unchecked will be deleted)", items, checked)
			if err != nil {
				return err
			}

			keptSet := map[int]bool{}
			for _, i := range kept {
				keptSet[i] = true
			}

			toDelete := []trigger.Remote{}

			for i, r := range live {
				if !keptSet[i] {
					toDelete = append(toDelete, r)
				}
			}

			if len(toDelete) == 0 {
				mustN(fmt.Fprintln(out, "Nothing selected for deletion."))

				return nil
			}

			mustN(fmt.Fprintf(out, "Will delete %d of %d trigger(s):\n", len(toDelete), len(live)))
			writeRemoteList(out, toDelete)

			if dryRun {
				mustN(fmt.Fprintln(out, "\n"+subtleStyle.Render("Dry run, nothing deleted.")))

				return nil
			}

			ok, err := d.prompter.Confirm(ctx, fmt.Sprintf("Delete %d trigger(s)?", len(toDelete)))
			if err != nil {
				return err
			}

			if !ok {
				mustN(fmt.Fprintln(out, "Cancelled."))

				return nil
			}

			res, err := d.switcher().BulkDelete(ctx, live, toDelete)
			if err != nil {
				return failureWithSnapshot(res, err)
			}

			mustN(fmt.Fprintf(out, "Deleted %d trigger(s).\n", res.Deleted))
			mustN(fmt.Fprintf(out, "Pre-delete snapshot: %s\n", res.BackupPath))

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting anything")
	bindEnvVars(cmd)

	return cmd
}
