package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"miner/internal/fetch"
	"miner/internal/jars"
	"miner/internal/logx"
	"miner/internal/tui"
)

var (
	checkVersion string
	checkBuild   string
)

func newJarsCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <jar>",
		Short: "Check that jars are defined and their URLs are reachable",
		Long: "Check resolves a jar name (or a trailing-* wildcard) against the\n" +
			"manifest and probes each download URL without transferring the body.",
		Args: cobra.ExactArgs(1),
		RunE: runJarsCheck,
	}

	cmd.Flags().StringVarP(&checkVersion, "version", "V", "", "Minecraft version (defaults to default_version)")
	cmd.Flags().StringVarP(&checkBuild, "build", "B", "", "Upstream build identifier")

	return cmd
}

type checkRowResult struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Available bool   `json:"available"`
}

func runJarsCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := loggerFromContext(ctx)

	glog, gcloser, err := logx.NewGlobal("jars-check")
	if err != nil {
		logger.Debug("file log unavailable", "err", err)
	}
	if gcloser != nil {
		defer gcloser.Close()
	}
	glogf := func(format string, v ...any) {
		if glog != nil {
			glog.Printf(format, v...)
		}
	}
	glogf("check started: %s", args[0])

	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	defer status.Stop()

	status.Update("Resolving project...")
	env, err := loadProject(cmd)
	if err != nil {
		return err
	}
	status.Update("Loading manifest...")
	if err := env.loadManifest(); err != nil {
		return err
	}

	version, err := env.effectiveVersion(checkVersion)
	if err != nil {
		return err
	}

	resolver := jars.NewJarResolver(env.Tables)
	resolved, err := resolver.ResolveSpec(jars.DependencySpec{
		Name:    args[0],
		Version: version,
		Build:   checkBuild,
	})
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No jars match %q\n", args[0])
		return nil
	}
	logger.Debug("resolved jars", "count", len(resolved))

	orch := &fetch.Orchestrator{Transport: httpTransport(env)}
	rows := make([]checkRowResult, 0, len(resolved))
	unavailable := 0
	for _, jar := range resolved {
		status.Update(fmt.Sprintf("Probing %s...", jar.Name))
		row := checkRowResult{
			Name:    jar.Name,
			Version: jar.Version.String(),
			URL:     jar.URL,
		}
		ok, err := orch.Check(ctx, jar)
		glogf("probe %s: ok=%v err=%v", jar.URL, ok, err)
		switch {
		case err != nil:
			row.Status = "error"
			row.Error = err.Error()
			unavailable++
		case ok:
			row.Status = "available"
			row.Available = true
		default:
			row.Status = "missing"
			unavailable++
		}
		rows = append(rows, row)
	}

	status.Stop()

	if outputJSON {
		if err := writeCheckJSON(cmd, env.Paths.Root, rows); err != nil {
			return err
		}
	} else {
		writeCheckTable(cmd, rows)
	}

	if unavailable > 0 {
		return fmt.Errorf("%d of %d jars unavailable", unavailable, len(rows))
	}
	return nil
}

func writeCheckJSON(cmd *cobra.Command, project string, rows []checkRowResult) error {
	payload := struct {
		Project string           `json:"project"`
		Jars    []checkRowResult `json:"jars"`
	}{Project: project, Jars: rows}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode check json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeCheckTable(cmd *cobra.Command, rows []checkRowResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSTATUS\tURL")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Name, row.Version, row.Status, row.URL)
	}
	w.Flush()
}
