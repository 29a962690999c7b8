package cli

import (
	"github.com/spf13/cobra"

	"miner/internal/jars"
)

var (
	getpkgVersion    string
	getpkgForce      bool
	getpkgNoProgress bool
)

func newJarsGetPkgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "getpkg <package>",
		Short: "Download every jar a package depends on",
		Long: "Getpkg resolves a package through its from-chain, expands its\n" +
			"depends list (including wildcards), and downloads every jar into\n" +
			"the shared store, linking plugins into the owning service.",
		Args: cobra.ExactArgs(1),
		RunE: runJarsGetPkg,
	}

	cmd.Flags().StringVarP(&getpkgVersion, "version", "V", "", "Minecraft version for unversioned dependencies")
	cmd.Flags().BoolVar(&getpkgForce, "force", false, "Re-download even if cached")
	cmd.Flags().BoolVar(&getpkgNoProgress, "no-progress", false, "Disable interactive progress output")

	return cmd
}

func runJarsGetPkg(cmd *cobra.Command, args []string) error {
	logger := loggerFromContext(commandContext(cmd))

	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if err := env.loadManifest(); err != nil {
		return err
	}

	version, err := env.effectiveVersion(getpkgVersion)
	if err != nil {
		return err
	}

	pkg, err := jars.NewPackageResolver(env.Tree).ResolveFor(args[0], version)
	if err != nil {
		return err
	}
	logger.Debug("resolved package", "name", pkg.Name, "service", pkg.Service, "depends", len(pkg.Depends))

	// Dependencies that pin no version of their own follow the deployment
	// version.
	for i := range pkg.Depends {
		if pkg.Depends[i].Version.IsZero() {
			pkg.Depends[i].Version = version
		}
	}

	resolved, err := jars.NewJarResolver(env.Tables).ResolvePackage(pkg)
	if err != nil {
		return err
	}

	return runDownload(cmd, env, version, resolved, getpkgForce, getpkgNoProgress)
}
