package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/hamal/pkg/log"
)

const (
	cmdName = "hamal"
	cmdDesc = `Manage HamAlert triggers: bulk edits, backups, and named profiles.`

	cmdExamples = `  # Add a trigger for a couple of callsigns:
  hamal add --callsign N0CALL --callsign K0TEST --comment "Club members" --action app

  # Import callsigns from a Ham2K PoLo notes file:
  hamal import-polo --url https://example.com/notes.txt --comment "PoLo" --action app

  # Back up every trigger on the account:
  hamal backup

  # Save the current triggers as a profile, then switch to another one:
  hamal profile save home
  hamal profile switch trip --no-dry-run`
)

type RootArgs struct {
	ConfigPath   string
	DataDir      string
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the hamal configuration file")
	cmd.PersistentFlags().
		StringVar(&ra.DataDir, "data-dir", "", "Directory for profiles, backups, and state")
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for trace export")

	err := cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setup(args),
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewAddCmd(args),
		NewImportPoloCmd(args),
		NewBackupCmd(args),
		NewRestoreCmd(args),
		NewEditCmd(args),
		NewBulkDeleteCmd(args),
		NewProfileCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		err = setupTracing(cmd.Context(), ra.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		return nil
	}
}
