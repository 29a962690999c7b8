package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"miner/internal/jars"
)

// Logger receives orchestration progress lines. The file logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Status describes what the orchestrator did for one jar.
type Status string

const (
	StatusCached     Status = "cached"
	StatusDownloaded Status = "downloaded"
	StatusFailed     Status = "failed"
)

// Result records the outcome for one jar. Err is set when Status is
// StatusFailed; sibling jars keep processing unless fail-fast was requested.
type Result struct {
	Jar      jars.ResolvedJarFile
	Status   Status
	Path     string
	LinkPath string
	Err      error
}

// Observer is notified as each jar starts and finishes. The progress table
// implements it; a nil observer is fine.
type Observer interface {
	JarStarted(jar jars.ResolvedJarFile)
	JarFinished(res Result)
}

// Orchestrator downloads resolved jars into the shared jar directory and
// links them into the owning service's directory. Runs are idempotent: a jar
// whose local name already exists is skipped unless Force is set. The
// orchestrator assumes it is the only writer of its directories; callers
// serialize concurrent invocations externally.
type Orchestrator struct {
	JarDir     string
	ServiceDir func(service string) string
	Transport  Transport
	Logger     Logger
	Observer   Observer
	Force      bool
	FailFast   bool
}

func (o *Orchestrator) logf(format string, v ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, v...)
	}
}

// Check probes the jar's URL without transferring the body.
func (o *Orchestrator) Check(ctx context.Context, jar jars.ResolvedJarFile) (bool, error) {
	return o.Transport.Probe(ctx, jar.URL)
}

// Ensure makes one jar present locally and linked into its service directory.
func (o *Orchestrator) Ensure(ctx context.Context, jar jars.ResolvedJarFile) (Result, error) {
	res := Result{Jar: jar, Status: StatusCached}
	dest := filepath.Join(o.JarDir, jar.LocalName)
	res.Path = dest

	exists, err := fileExists(dest)
	if err != nil {
		return o.fail(res, err)
	}

	if !exists || o.Force {
		o.logf("fetch %s -> %s", jar.URL, dest)
		if err := o.Transport.Fetch(ctx, jar.URL, dest); err != nil {
			return o.fail(res, err)
		}
		res.Status = StatusDownloaded
	} else {
		o.logf("cached %s", dest)
	}

	link, err := o.link(jar, dest)
	if err != nil {
		return o.fail(res, err)
	}
	res.LinkPath = link
	return res, nil
}

func (o *Orchestrator) fail(res Result, err error) (Result, error) {
	res.Status = StatusFailed
	res.Err = err
	return res, err
}

// EnsureAll processes jars in list order. Failures are recorded per jar and
// reported together; with FailFast the first failure stops the run.
func (o *Orchestrator) EnsureAll(ctx context.Context, list []jars.ResolvedJarFile) ([]Result, error) {
	results := make([]Result, 0, len(list))
	var errs []error
	for _, jar := range list {
		if o.Observer != nil {
			o.Observer.JarStarted(jar)
		}
		res, err := o.Ensure(ctx, jar)
		results = append(results, res)
		if o.Observer != nil {
			o.Observer.JarFinished(res)
		}
		if err != nil {
			o.logf("fetch %s: %v", jar.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", jar.Name, err))
			if o.FailFast {
				break
			}
		}
	}
	return results, errors.Join(errs...)
}

// link places the fetched artifact into the owning service's directory,
// hard-linking when the filesystem allows and copying otherwise. Present
// targets are left alone so repeat runs stay idempotent.
func (o *Orchestrator) link(jar jars.ResolvedJarFile, src string) (string, error) {
	if jar.Service == "" || o.ServiceDir == nil {
		return "", nil
	}
	dir := o.ServiceDir(jar.Service)
	if dir == "" {
		return "", nil
	}

	target := filepath.Join(dir, jar.LocalName)
	exists, err := fileExists(target)
	if err != nil {
		return "", err
	}
	if exists && !o.Force {
		return target, nil
	}
	if exists {
		if err := os.Remove(target); err != nil {
			return "", fmt.Errorf("replace link target: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare service dir: %w", err)
	}
	if err := linkOrCopy(src, target); err != nil {
		return "", err
	}
	o.logf("linked %s -> %s", src, target)
	return target, nil
}

func linkOrCopy(src, dest string) error {
	if err := os.Link(src, dest); err == nil {
		return nil
	}
	return copyFile(src, dest)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp dest: %w", err)
	}

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("copy data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp dest: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp dest: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename temp dest: %w", err)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
