// Package editor opens files in the user's configured text editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// ErrEditorExit is returned when the editor terminates unsuccessfully.
var ErrEditorExit = errors.New("editor exited with error")

// Resolve picks the editor command from $VISUAL, then $EDITOR, then "vi".
// The value may carry arguments ("code --wait"); they are split with shell
// word rules.
func Resolve() ([]string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		value := os.Getenv(env)
		if value == "" {
			continue
		}

		words, err := shellwords.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse $%s: %w", env, err)
		}

		if len(words) > 0 {
			return words, nil
		}
	}

	return []string{"vi"}, nil
}

// Edit opens path in the resolved editor, attached to the terminal, and
// waits for it to exit.
func Edit(ctx context.Context, path string) error {
	words, err := Resolve()
	if err != nil {
		return err
	}

	args := append(words[1:], path) //nolint:gocritic // New slice intended.

	cmd := exec.CommandContext(ctx, words[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEditorExit, words[0], err)
	}

	return nil
}
