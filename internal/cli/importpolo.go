package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/polo"
)

type ImportPoloArgs struct {
	*RootArgs

	URL        string
	Comment    string
	Actions    []string
	Mode       string
	DryRun     bool
	Compact    bool
	OnePerLine bool
}

func (ia *ImportPoloArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ia.URL, "url", "", "URL of the Ham2K PoLo callsign notes file")
	cmd.Flags().StringVar(&ia.Comment, "comment", "", "Trigger comment")
	cmd.Flags().StringArrayVar(&ia.Actions, "action", nil,
		fmt.Sprintf("Notification action, one of: %s (repeatable)", allActions))
	cmd.Flags().StringVar(&ia.Mode, "mode", "", fmt.Sprintf("Restrict to a mode, one of: %s", allModes))
	cmd.Flags().BoolVar(&ia.DryRun, "dry-run", false, "Show what would be added without adding anything")
	cmd.Flags().BoolVar(&ia.Compact, "compact", false, "Join callsigns with commas only, no spaces")
	cmd.Flags().BoolVar(&ia.OnePerLine, "one-per-line", false, "Join callsigns with newlines")

	cmd.MarkFlagsMutuallyExclusive("compact", "one-per-line")

	must(cmd.MarkFlagRequired("url"))
	must(cmd.MarkFlagRequired("comment"))
}

func NewImportPoloCmd(ra *RootArgs) *cobra.Command {
	ia := &ImportPoloArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "import-polo",
		Short: "Add a trigger for every callsign in a Ham2K PoLo notes file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			callsigns, err := polo.NewFetcher().Fetch(ctx, ia.URL)
			if err != nil {
				return err
			}

			if len(callsigns) == 0 {
				mustN(fmt.Fprintf(out, "No callsigns found at %s\n", ia.URL))

				return nil
			}

			mustN(fmt.Fprintf(out, "Found %d callsign(s) at %s\n", len(callsigns), ia.URL))

			t, err := buildCallsignTrigger(callsigns, ia.Comment, ia.Actions, ia.Mode,
				polo.FormatFromFlags(ia.Compact, ia.OnePerLine))
			if err != nil {
				return err
			}

			if ia.DryRun {
				mustN(fmt.Fprintln(out, "\nDry run - would add one trigger for:"))

				for _, cs := range callsigns {
					mustN(fmt.Fprintf(out, "  %s\n", cs))
				}

				return nil
			}

			d, err := buildDeps(ra)
			if err != nil {
				return err
			}

			err = d.connect(ctx)
			if err != nil {
				return err
			}

			id, err := d.client.Create(ctx, t)
			if err != nil {
				return err
			}

			mustN(fmt.Fprintf(out, "Added trigger %s (id %s)\n", t.Display(), orNone(id)))

			return nil
		},
	}

	ia.AddFlags(cmd)
	bindEnvVars(cmd)

	return cmd
}
