package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/polo"
	"github.com/macropower/hamal/pkg/trigger"
)

var (
	allActions = []string{"url", "app", "threema", "telnet"}
	allModes   = []string{"cw", "ft8", "ssb"}
)

type AddArgs struct {
	*RootArgs

	Callsigns  []string
	Comment    string
	Actions    []string
	Mode       string
	Compact    bool
	OnePerLine bool
}

func (aa *AddArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&aa.Callsigns, "callsign", nil, "Callsign to match (repeatable)")
	cmd.Flags().StringVar(&aa.Comment, "comment", "", "Trigger comment")
	cmd.Flags().StringArrayVar(&aa.Actions, "action", nil,
		fmt.Sprintf("Notification action, one of: %s (repeatable)", allActions))
	cmd.Flags().StringVar(&aa.Mode, "mode", "", fmt.Sprintf("Restrict to a mode, one of: %s", allModes))
	cmd.Flags().BoolVar(&aa.Compact, "compact", false, "Join callsigns with commas only, no spaces")
	cmd.Flags().BoolVar(&aa.OnePerLine, "one-per-line", false, "Join callsigns with newlines")

	cmd.MarkFlagsMutuallyExclusive("compact", "one-per-line")

	must(cmd.MarkFlagRequired("callsign"))
	must(cmd.MarkFlagRequired("comment"))

	must(cmd.RegisterFlagCompletionFunc("action",
		cobra.FixedCompletions(allActions, cobra.ShellCompDirectiveNoFileComp)))
	must(cmd.RegisterFlagCompletionFunc("mode",
		cobra.FixedCompletions(allModes, cobra.ShellCompDirectiveNoFileComp)))
}

func NewAddCmd(ra *RootArgs) *cobra.Command {
	aa := &AddArgs{RootArgs: ra}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trigger for one or more callsigns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := buildCallsignTrigger(aa.Callsigns, aa.Comment, aa.Actions, aa.Mode,
				polo.FormatFromFlags(aa.Compact, aa.OnePerLine))
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

			id, err := d.client.Create(ctx, t)
			if err != nil {
				return err
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "Added trigger %s (id %s)\n", t.Display(), orNone(id)))

			return nil
		},
	}

	aa.AddFlags(cmd)
	bindEnvVars(cmd)

	return cmd
}

// buildCallsignTrigger assembles the trigger the add and import-polo
// commands create: one trigger whose conditions hold the joined callsign
// list, with an optional mode restriction.
func buildCallsignTrigger(callsigns []string, comment string, actions []string, mode string, format polo.Format) (trigger.Trigger, error) {
	err := validateEnum("action", actions, allActions)
	if err != nil {
		return trigger.Trigger{}, err
	}

	if mode != "" {
		err = validateEnum("mode", []string{mode}, allModes)
		if err != nil {
			return trigger.Trigger{}, err
		}
	}

	conditions := map[string]any{
		"callsign": format.Join(callsigns),
	}
	if mode != "" {
		conditions["mode"] = mode
	}

	doc, err := trigger.NewDocument(conditions)
	if err != nil {
		return trigger.Trigger{}, fmt.Errorf("build conditions: %w", err)
	}

	if actions == nil {
		actions = []string{}
	}

	return trigger.Trigger{
		Conditions: doc,
		Actions:    actions,
		Comment:    comment,
	}, nil
}

func validateEnum(flag string, values, allowed []string) error {
	for _, v := range values {
		ok := false

		for _, a := range allowed {
			if v == a {
				ok = true

				break
			}
		}

		if !ok {
			return fmt.Errorf("invalid argument %q for --%s, must be one of: %s", v, flag, allowed)
		}
	}

	return nil
}
