package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"miner/internal/archive"
	"miner/internal/service"
)

var (
	backupVersion  string
	backupKind     string
	backupPreserve bool
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <service>",
		Short: "Archive a service's state into the backup directory",
		Long: "Backup zips the service's configuration and world data into the\n" +
			"project backup directory. With --preserve the previous canonical\n" +
			"archive is first rotated aside under a timestamp stamp.",
		Args: cobra.ExactArgs(1),
		RunE: runBackup,
	}

	cmd.Flags().StringVarP(&backupVersion, "version", "V", "", "Minecraft version (defaults to default_version)")
	cmd.Flags().StringVarP(&backupKind, "kind", "k", "", "Service kind: paper, velocity (default paper)")
	cmd.Flags().BoolVar(&backupPreserve, "preserve", false, "Rotate the existing archive aside instead of overwriting it")

	return cmd
}

func runBackup(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(commandContext(cmd))
	svc := args[0]

	env, err := loadProject(cmd)
	if err != nil {
		return err
	}

	kind, err := service.ParseKind(backupKind)
	if err != nil {
		return err
	}
	version, err := env.effectiveVersion(backupVersion)
	if err != nil {
		return err
	}

	workDir := env.Paths.ServiceDir(svc)
	if _, err := os.Stat(workDir); err != nil {
		return fmt.Errorf("service %s has no working directory: %w", svc, err)
	}

	include, err := service.ArchiveInclude(kind, workDir)
	if err != nil {
		return err
	}
	if len(include) == 0 {
		return fmt.Errorf("service kind %s has nothing to archive", kind)
	}

	if err := os.MkdirAll(env.Paths.BackupsDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	mgr := &archive.Manager{Dir: env.Paths.BackupsDir}
	path, err := mgr.Write(workDir, include, svc, version.String(), backupPreserve)
	if err != nil {
		return err
	}
	logger.Info("archived service", "service", svc, "archive", path)

	if outputJSON {
		payload := struct {
			Service string `json:"service"`
			Version string `json:"version"`
			Archive string `json:"archive"`
		}{Service: svc, Version: version.String(), Archive: path}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode backup json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %s to %s\n", svc, path)
	return nil
}
