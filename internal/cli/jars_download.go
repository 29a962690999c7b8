package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"miner/internal/fetch"
	"miner/internal/jars"
	"miner/internal/logx"
	"miner/internal/paths"
	"miner/internal/tui"
)

var downloadColumns = []tui.Column{
	{Header: "NAME", Width: 24},
	{Header: "VERSION", Width: 10},
	{Header: "SERVICE", Width: 14},
	{Header: "STATUS", Width: 12},
}

// runDownload drives the orchestrator over the resolved jars, rendering
// progress per the detected output mode.
func runDownload(cmd *cobra.Command, env projectEnv, version jars.Version, resolved []jars.ResolvedJarFile, force, noProgress bool) error {
	ctx := commandContext(cmd)

	if len(resolved) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to download")
		return nil
	}

	jarDir := env.Paths.JarDir(version.String())
	flog, closer, err := logx.New(env.Paths)
	if err != nil {
		return err
	}
	defer closer.Close()

	orch := &fetch.Orchestrator{
		JarDir:     jarDir,
		ServiceDir: serviceLinkDir(env.Paths),
		Transport:  httpTransport(env),
		Logger:     flog,
		Force:      force,
		FailFast:   env.Cfg.Download.FailFastValue(),
	}

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)

	var (
		results []fetch.Result
		runErr  error
	)
	switch mode {
	case tui.ModeTUI:
		results, runErr = downloadWithTUI(ctx, cmd, orch, resolved)
	default:
		results, runErr = orch.EnsureAll(ctx, resolved)
	}

	switch mode {
	case tui.ModeJSON:
		if err := writeDownloadJSON(cmd, env.Paths.Root, results); err != nil {
			return err
		}
	case tui.ModePlain:
		writeDownloadTable(cmd, results)
	}
	return runErr
}

func downloadWithTUI(ctx context.Context, cmd *cobra.Command, orch *fetch.Orchestrator, resolved []jars.ResolvedJarFile) ([]fetch.Result, error) {
	model := tui.NewProgressModel("Downloading", downloadColumns)
	for _, jar := range resolved {
		model.AddRow(jarRowKey(jar), []string{
			jar.Name,
			jar.Version.String(),
			tui.NonEmptyOrDash(jar.Service),
			"pending",
		})
	}

	var (
		results []fetch.Result
		runErr  error
	)
	err := tui.RunWithWork(cmd.OutOrStdout(), model, func(send func(tea.Msg)) {
		orch.Observer = tui.NewFetchReporter(
			send,
			jarRowKey,
			func(jars.ResolvedJarFile) map[string]string {
				return map[string]string{"STATUS": "downloading"}
			},
			func(res fetch.Result) map[string]string {
				return map[string]string{"STATUS": string(res.Status)}
			},
		)
		results, runErr = orch.EnsureAll(ctx, resolved)
	})
	if err != nil {
		return results, err
	}
	return results, runErr
}

func jarRowKey(jar jars.ResolvedJarFile) string {
	return jar.Name + "@" + jar.Version.String()
}

// serviceLinkDir maps a service name to its link directory. Plugin jars land
// in the service's plugins directory; server jars are launched straight from
// the shared jar store so no link is needed for them.
func serviceLinkDir(pp paths.ProjectPaths) func(string) string {
	return func(service string) string {
		if service == "" {
			return ""
		}
		return pp.PluginDir(service)
	}
}

func httpTransport(env projectEnv) *fetch.HTTPTransport {
	t := fetch.NewHTTPTransport()
	if ua := env.Cfg.Download.UserAgent; ua != "" {
		t.UserAgent = ua
	}
	return t
}

type downloadRowResult struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Service  string `json:"service,omitempty"`
	Status   string `json:"status"`
	Path     string `json:"path,omitempty"`
	LinkPath string `json:"link_path,omitempty"`
	Error    string `json:"error,omitempty"`
}

func downloadRows(results []fetch.Result) []downloadRowResult {
	rows := make([]downloadRowResult, 0, len(results))
	for _, res := range results {
		row := downloadRowResult{
			Name:     res.Jar.Name,
			Version:  res.Jar.Version.String(),
			Service:  res.Jar.Service,
			Status:   string(res.Status),
			Path:     res.Path,
			LinkPath: res.LinkPath,
		}
		if res.Err != nil {
			row.Error = res.Err.Error()
		}
		rows = append(rows, row)
	}
	return rows
}

func writeDownloadJSON(cmd *cobra.Command, project string, results []fetch.Result) error {
	payload := struct {
		Project string              `json:"project"`
		Jars    []downloadRowResult `json:"jars"`
	}{Project: project, Jars: downloadRows(results)}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode download json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeDownloadTable(cmd *cobra.Command, results []fetch.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tSERVICE\tSTATUS\tPATH\tERROR")
	for _, row := range downloadRows(results) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Version, row.Service, row.Status, row.Path, row.Error)
	}
	w.Flush()
}
