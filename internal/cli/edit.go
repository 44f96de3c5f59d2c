package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/editor"
	"github.com/macropower/hamal/pkg/trigger"
)

const (
	choiceReEdit = "Re-edit"
	choiceQuit   = "Quit without saving"
)

func NewEditCmd(ra *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit an existing trigger in $EDITOR",
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

			// Labels get an index prefix so duplicate displays stay selectable.
			labels := make([]string, 0, len(live))
			for i, r := range live {
				labels = append(labels, fmt.Sprintf("%d. %s", i+1, r.Display()))
			}

			choice, err := d.prompter.Choose(ctx, "Select a trigger to edit", labels)
			if err != nil {
				return err
			}

			selected := live[0]

			for i, label := range labels {
				if label == choice {
					selected = live[i]

					break
				}
			}

			updated, changed, err := editLoop(cmd, d, selected)
			if err != nil {
				return err
			}

			if !changed {
				mustN(fmt.Fprintln(out, "No changes made."))

				return nil
			}

			err = d.client.Update(ctx, updated)
			if err != nil {
				return err
			}

			mustN(fmt.Fprintf(out, "Updated trigger: %s\n", updated.Comment))

			return nil
		},
	}

	bindEnvVars(cmd)

	return cmd
}

// editLoop round-trips the editable fields of a trigger through the user's
// editor, re-prompting on invalid JSON until the content parses or the user
// quits. The remote identity never enters the file.
func editLoop(cmd *cobra.Command, d *deps, r trigger.Remote) (trigger.Remote, bool, error) {
	original := r.Stored()

	data, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		return r, false, fmt.Errorf("marshal trigger: %w", err)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("hamal-edit-%s.json", r.ID))

	err = os.WriteFile(path, append(data, '\n'), 0o600)
	if err != nil {
		return r, false, fmt.Errorf("write temp file: %w", err)
	}

	defer func() {
		_ = os.Remove(path)
	}()

	ctx := cmd.Context()

	for {
		err = editor.Edit(ctx, path)
		if err != nil {
			return r, false, err
		}

		edited, parseErr := readEditedTrigger(path)
		if parseErr == nil {
			if editableEqual(original, edited) {
				return r, false, nil
			}

			r.Trigger = edited

			return r, true, nil
		}

		mustN(fmt.Fprintf(cmd.OutOrStdout(), "Invalid JSON: %v\n", parseErr))

		choice, promptErr := d.prompter.Choose(ctx, "The file does not parse. What now?",
			[]string{choiceReEdit, choiceQuit})
		if promptErr != nil {
			return r, false, promptErr
		}

		if choice == choiceQuit {
			return r, false, nil
		}
	}
}

func readEditedTrigger(path string) (trigger.Trigger, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return trigger.Trigger{}, fmt.Errorf("read temp file: %w", err)
	}

	var t trigger.Trigger

	err = json.Unmarshal(data, &t)
	if err != nil {
		return trigger.Trigger{}, err
	}

	return t, nil
}

// editableEqual compares the full editable payload, not just identity.
func editableEqual(a, b trigger.Trigger) bool {
	return trigger.Equal([]trigger.Trigger{a}, []trigger.Trigger{b})
}
