package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"miner/internal/config"
	"miner/internal/jars"
	"miner/internal/manifest"
	"miner/internal/paths"
)

// projectEnv bundles everything a command needs once the project root is
// known: resolved paths, the loaded config, and the parsed jar manifest.
type projectEnv struct {
	Paths  paths.ProjectPaths
	Cfg    config.Config
	Tree   *manifest.Tree
	Tables *jars.Tables
}

// loadProject resolves paths and config, rejecting configs with error-level
// validation findings. The manifest is left unloaded; use loadManifest for
// commands that need it.
func loadProject(cmd *cobra.Command) (projectEnv, error) {
	logger := loggerFromContext(commandContext(cmd))

	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return projectEnv{}, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return projectEnv{}, err
	}
	pp = paths.ApplyConfig(pp, cfg)

	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return projectEnv{}, fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return projectEnv{}, fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	for _, finding := range cfg.ValidateStrict(pp.Root) {
		if finding.Level == "error" {
			return projectEnv{}, fmt.Errorf("invalid config: %s", finding.Message)
		}
		logger.Warn("config", "issue", finding.Message)
	}

	return projectEnv{Paths: pp, Cfg: cfg}, nil
}

// loadManifest parses jars.toml and builds the lookup tables.
func (env *projectEnv) loadManifest() error {
	tree, err := manifest.Load(env.Paths.ManifestFile)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}
	tables, err := jars.LoadTables(tree)
	if err != nil {
		return fmt.Errorf("load manifest tables: %w", err)
	}
	env.Tree = tree
	env.Tables = tables
	return nil
}

// effectiveVersion applies the config default when the flag was omitted.
func (env *projectEnv) effectiveVersion(flag string) (jars.Version, error) {
	raw := flag
	if raw == "" {
		raw = env.Cfg.DefaultVersion
	}
	if raw == "" {
		return jars.Version{}, fmt.Errorf("no version given and no default_version configured")
	}
	return jars.ParseVersion(raw), nil
}
