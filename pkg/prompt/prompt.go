// Package prompt wraps interactive terminal prompts behind the interfaces
// the rest of the program consumes. Non-interactive sessions (pipes, CI) get
// [ErrNotInteractive] instead of a hung prompt.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/macropower/hamal/pkg/reconcile"
)

// ErrNotInteractive is returned when a prompt is required but stdin is not a
// terminal.
var ErrNotInteractive = errors.New("not running interactively")

// TerminalPrompter runs huh forms on the controlling terminal.
//
// TerminalPrompter implements [reconcile.Prompter]. A user abort (Esc or
// Ctrl+C) is reported as [reconcile.ErrCancelled] so callers treat it like
// an explicit cancel choice.
type TerminalPrompter struct{}

// NewTerminalPrompter creates a [TerminalPrompter].
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

// Choose presents options and returns the selected one verbatim.
func (p *TerminalPrompter) Choose(ctx context.Context, title string, options []string) (string, error) {
	if !interactive() {
		return "", ErrNotInteractive
	}

	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	var choice string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&choice),
		),
	).
		WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return "", mapAbort(err, "run select prompt")
	}

	return choice, nil
}

// MultiSelect presents items with checkboxes and returns the indexes of the
// checked ones. defaultChecked pre-selects entries.
func (p *TerminalPrompter) MultiSelect(ctx context.Context, title string, items []string, defaultChecked []int) ([]int, error) {
	if !interactive() {
		return nil, ErrNotInteractive
	}

	checked := map[int]bool{}
	for _, i := range defaultChecked {
		checked[i] = true
	}

	opts := make([]huh.Option[int], 0, len(items))
	for i, item := range items {
		opts = append(opts, huh.NewOption(item, i).Selected(checked[i]))
	}

	var selected []int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title(title).
				Options(opts...).
				Value(&selected),
		),
	).
		WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return nil, mapAbort(err, "run multi-select prompt")
	}

	return selected, nil
}

// Confirm asks a yes/no question.
func (p *TerminalPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	if !interactive() {
		return false, ErrNotInteractive
	}

	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	).
		WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return false, mapAbort(err, "run confirm prompt")
	}

	return ok, nil
}

// Input asks for a single line of free text.
func (p *TerminalPrompter) Input(ctx context.Context, title, placeholder string) (string, error) {
	if !interactive() {
		return "", ErrNotInteractive
	}

	var value string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	).
		WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if err != nil {
		return "", mapAbort(err, "run input prompt")
	}

	return value, nil
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func mapAbort(err error, op string) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return reconcile.ErrCancelled
	}

	return fmt.Errorf("%s: %w", op, err)
}
