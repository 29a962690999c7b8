package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"miner/internal/jars"
	"miner/internal/service"
)

var (
	startVersion string
	startBuild   string
	startKind    string
	startMemInit string
	startMemMax  string
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <package>",
		Short: "Launch the java process for a package's service",
		Long: "Start resolves a package, locates its server jar in the shared\n" +
			"store, and runs java in the service's working directory. The\n" +
			"command blocks until the server process exits.",
		Args: cobra.ExactArgs(1),
		RunE: runStart,
	}

	cmd.Flags().StringVarP(&startVersion, "version", "V", "", "Minecraft version (defaults to default_version)")
	cmd.Flags().StringVarP(&startBuild, "build", "B", "", "Upstream build identifier")
	cmd.Flags().StringVarP(&startKind, "kind", "k", "", "Service kind: paper, velocity (default paper)")
	cmd.Flags().StringVarP(&startMemInit, "mem-initial", "m", "", "Initial JVM heap size (overrides config)")
	cmd.Flags().StringVarP(&startMemMax, "mem-max", "M", "", "Maximum JVM heap size (overrides config)")

	return cmd
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := loggerFromContext(ctx)

	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if err := env.loadManifest(); err != nil {
		return err
	}

	kind, err := service.ParseKind(startKind)
	if err != nil {
		return err
	}
	version, err := env.effectiveVersion(startVersion)
	if err != nil {
		return err
	}

	pkg, err := jars.NewPackageResolver(env.Tree).ResolveFor(args[0], version)
	if err != nil {
		return err
	}
	if pkg.Service == "" {
		return fmt.Errorf("package %s names no service", pkg.Name)
	}

	jarDir := env.Paths.JarDir(version.String())
	jarPath, err := service.FindServerJar(jarDir, kind, version, startBuild)
	if err != nil {
		return err
	}

	javaPath := env.Cfg.Java.Binary
	if javaPath == "" || javaPath == "java" {
		javaPath, err = service.LocateJava()
		if err != nil {
			return err
		}
	}

	opts := service.OptionsFor(kind, env.Cfg.Java.MemInitial, env.Cfg.Java.MemMax)
	if startMemInit != "" {
		opts.MemInitial = startMemInit
	}
	if startMemMax != "" {
		opts.MemMax = startMemMax
	}
	opts.ExtraFlags = append(opts.ExtraFlags, env.Cfg.Java.ExtraFlags...)

	workDir := env.Paths.ServiceDir(pkg.Service)
	if err := env.Paths.EnsureServiceDir(pkg.Service); err != nil {
		return err
	}

	logger.Info("starting service",
		"service", pkg.Service,
		"kind", kind.String(),
		"jar", jarPath,
		"workdir", workDir,
	)

	return service.Launch(ctx, service.CmdRunner{}, javaPath, jarPath, workDir, opts, cmd.OutOrStdout())
}
