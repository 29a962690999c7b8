package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
	verbose    bool
)

// Execute runs the root cobra command with the given context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "miner",
		Short:         "Minecraft server deployment manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.PersistentPreRun = func(c *cobra.Command, _ []string) {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(c.ErrOrStderr(), level)
		c.SetContext(withLogger(c.Context(), logger))
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newBackupCmd())
	cmd.AddCommand(newRestoreCmd())
	cmd.AddCommand(newJarsCmd())

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
