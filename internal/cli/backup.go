package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/profile"
	"github.com/macropower/hamal/pkg/trigger"
)

func NewBackupCmd(ra *RootArgs) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up all triggers to a JSON file",
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

			live, err := d.client.Fetch(ctx)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = d.backups.DefaultPath()
			}

			err = profile.Write(path, trigger.StoredSet(live))
			if err != nil {
				return err
			}

			size := "unknown size"
			if info, statErr := os.Stat(path); statErr == nil {
				size = humanize.Bytes(uint64(max(0, info.Size()))) //nolint:gosec // Uses max.
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d trigger(s) to %s (%s)\n", len(live), path, size))

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: date-stamped file in the backup directory)")
	must(cmd.MarkFlagFilename("output", "json"))
	bindEnvVars(cmd)

	return cmd
}
