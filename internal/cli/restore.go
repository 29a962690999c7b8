package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"miner/internal/archive"
)

var (
	restoreVersion string
	restoreStamp   string
)

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <service>",
		Short: "Restore a service's state from an archive",
		Long: "Restore extracts a backup archive over a staged copy of the\n" +
			"service's working directory and swaps it into place atomically.\n" +
			"On failure the working directory is left untouched.",
		Args: cobra.ExactArgs(1),
		RunE: runRestore,
	}

	cmd.Flags().StringVarP(&restoreVersion, "version", "V", "", "Minecraft version (defaults to default_version)")
	cmd.Flags().StringVarP(&restoreStamp, "stamp", "t", "", "Restore a rotated archive by its stamp instead of the canonical one")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(commandContext(cmd))
	svc := args[0]

	env, err := loadProject(cmd)
	if err != nil {
		return err
	}

	version, err := env.effectiveVersion(restoreVersion)
	if err != nil {
		return err
	}

	workDir := env.Paths.ServiceDir(svc)
	if _, err := os.Stat(workDir); err != nil {
		return fmt.Errorf("service %s has no working directory: %w", svc, err)
	}

	mgr := &archive.Manager{Dir: env.Paths.BackupsDir}
	if err := mgr.Restore(workDir, svc, version.String(), restoreStamp); err != nil {
		return err
	}
	logger.Info("restored service", "service", svc, "version", version.String())

	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", svc)
	return nil
}
