package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"miner/internal/config"
	"miner/internal/paths"
)

const starterManifest = `# Jar manifest. Declares download hosts, url templates, and packages.

[jars.uri.special.hosts]

[jars.uri.special.names]

[jars.uri.definitions]

[jars.packages]
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new miner project",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureDirs(); err != nil {
		return err
	}

	logger := loggerFromContext(commandContext(cmd))

	cfgExists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return err
	}
	if !cfgExists {
		data, err := config.Default().Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		logger.Info("wrote config", "path", pp.ConfigFile)
	}

	manifestExists, err := paths.FileExists(pp.ManifestFile)
	if err != nil {
		return err
	}
	if !manifestExists {
		if err := os.WriteFile(pp.ManifestFile, []byte(starterManifest), 0o644); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		logger.Info("wrote manifest", "path", pp.ManifestFile)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized project at %s\n", pp.Root)
	return nil
}
