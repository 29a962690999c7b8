package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"miner/internal/jars"
)

// ProxyTuningFlags are the G1 collector flags velocity proxies launch with.
var ProxyTuningFlags = []string{
	"+UseG1GC",
	"G1HeapRegionSize=4M",
	"+UnlockExperimentalVMOptions",
	"+ParallelRefProcEnabled",
	"+AlwaysPreTouch",
	"MaxInlineLevel=15",
}

// JavaOptions shape the java invocation for a service.
type JavaOptions struct {
	MemInitial string
	MemMax     string
	Tuning     []string
	// ExtraFlags are passed through verbatim, after the tuning set.
	ExtraFlags []string
	NoGUI      bool
}

const defaultHeap = "1G"

// JavaArgs assembles the argument vector for launching jarPath.
func JavaArgs(jarPath string, opts JavaOptions) []string {
	xms := opts.MemInitial
	if xms == "" {
		xms = defaultHeap
	}
	xmx := opts.MemMax
	if xmx == "" {
		xmx = defaultHeap
	}

	args := []string{"-Xms" + xms, "-Xmx" + xmx}
	for _, flag := range opts.Tuning {
		args = append(args, "-XX:"+flag)
	}
	args = append(args, opts.ExtraFlags...)
	args = append(args, "-jar", jarPath)
	if opts.NoGUI {
		args = append(args, "--nogui")
	}
	return args
}

// OptionsFor returns the launch options a service kind conventionally uses.
// Paper servers run headless; proxies carry the G1 tuning set.
func OptionsFor(kind Kind, memInitial, memMax string) JavaOptions {
	opts := JavaOptions{MemInitial: memInitial, MemMax: memMax}
	switch kind {
	case Paper:
		opts.NoGUI = true
	case Velocity:
		opts.Tuning = append([]string{}, ProxyTuningFlags...)
	}
	return opts
}

// LocateJava finds the java executable on PATH.
func LocateJava() (string, error) {
	path, err := exec.LookPath("java")
	if err != nil {
		return "", fmt.Errorf("locate java: %w", err)
	}
	return path, nil
}

// Launch runs the jar with the given options from workDir, blocking until
// the process exits.
func Launch(ctx context.Context, r Runner, javaPath, jarPath, workDir string, opts JavaOptions, out io.Writer) error {
	_, err := r.Run(ctx, javaPath, JavaArgs(jarPath, opts), RunOptions{
		Dir:    workDir,
		Stdout: out,
		Stderr: out,
	})
	if err != nil {
		return fmt.Errorf("run %s: %w", filepath.Base(jarPath), err)
	}
	return nil
}

// FindServerJar locates the executable jar for a service kind in the
// per-version jar directory. Version and build narrow the match; either left
// unset falls back to a glob, preferring the lexically greatest candidate.
func FindServerJar(jarDir string, kind Kind, version jars.Version, build string) (string, error) {
	ver := "*"
	if !version.IsZero() {
		ver = version.String()
	}
	bld := "*"
	if build != "" {
		bld = build
	}

	name := fmt.Sprintf("%s-%s-%s.jar", kind, ver, bld)
	if ver != "*" && bld != "*" {
		path := filepath.Join(jarDir, name)
		if fileIsRegular(path) {
			return path, nil
		}
		return "", fmt.Errorf("server jar %s not found in %s", name, jarDir)
	}

	matches, err := filepath.Glob(filepath.Join(jarDir, name))
	if err != nil {
		return "", fmt.Errorf("jar pattern: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s jar matching %s in %s", kind, name, jarDir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
