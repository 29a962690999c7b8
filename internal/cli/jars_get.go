package cli

import (
	"github.com/spf13/cobra"

	"miner/internal/jars"
)

var (
	getVersion    string
	getBuild      string
	getService    string
	getForce      bool
	getNoProgress bool
)

func newJarsGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <jar>",
		Short: "Download a jar into the shared store and link it",
		Long: "Get resolves a jar name (or a trailing-* wildcard) against the\n" +
			"manifest, downloads any missing artifacts into the shared jar store,\n" +
			"and links them into the owning service's plugin directory.",
		Args: cobra.ExactArgs(1),
		RunE: runJarsGet,
	}

	cmd.Flags().StringVarP(&getVersion, "version", "V", "", "Minecraft version (defaults to default_version)")
	cmd.Flags().StringVarP(&getBuild, "build", "B", "", "Upstream build identifier")
	cmd.Flags().StringVarP(&getService, "service", "s", "", "Service to link the jar into")
	cmd.Flags().BoolVar(&getForce, "force", false, "Re-download even if cached")
	cmd.Flags().BoolVar(&getNoProgress, "no-progress", false, "Disable interactive progress output")

	return cmd
}

func runJarsGet(cmd *cobra.Command, args []string) error {
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if err := env.loadManifest(); err != nil {
		return err
	}

	version, err := env.effectiveVersion(getVersion)
	if err != nil {
		return err
	}

	resolver := jars.NewJarResolver(env.Tables)
	resolved, err := resolver.ResolveSpec(jars.DependencySpec{
		Name:    args[0],
		Version: version,
		Build:   getBuild,
		Service: getService,
	})
	if err != nil {
		return err
	}

	return runDownload(cmd, env, version, resolved, getForce, getNoProgress)
}
