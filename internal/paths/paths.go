package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"miner/internal/config"
)

// ProjectPaths captures canonical locations for a miner project: the shared
// jar store, the per-service working directories, and the backup directory.
type ProjectPaths struct {
	Root         string
	ConfigFile   string
	ManifestFile string
	JarsDir      string
	ServersDir   string
	BackupsDir   string
	LogsDir      string
}

// Resolve determines the project root using the optional --project flag or
// the current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	jarsDir := filepath.Join(root, "jars")
	return ProjectPaths{
		Root:         root,
		ConfigFile:   filepath.Join(root, "miner.yaml"),
		ManifestFile: filepath.Join(jarsDir, "jars.toml"),
		JarsDir:      jarsDir,
		ServersDir:   filepath.Join(root, "servers"),
		BackupsDir:   filepath.Join(root, "backups"),
		LogsDir:      filepath.Join(root, "logs"),
	}
}

// ApplyConfig overlays directory overrides from miner.yaml onto the default
// layout. Relative overrides are anchored at the project root.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if dir := strings.TrimSpace(cfg.Directories.Jars); dir != "" {
		pp.JarsDir = resolveProjectPath(pp.Root, dir)
		pp.ManifestFile = filepath.Join(pp.JarsDir, "jars.toml")
	}
	if dir := strings.TrimSpace(cfg.Directories.Servers); dir != "" {
		pp.ServersDir = resolveProjectPath(pp.Root, dir)
	}
	if dir := strings.TrimSpace(cfg.Directories.Backups); dir != "" {
		pp.BackupsDir = resolveProjectPath(pp.Root, dir)
	}
	return pp
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// JarDir returns the shared jar directory for one Minecraft version.
func (p ProjectPaths) JarDir(version string) string {
	return filepath.Join(p.JarsDir, version)
}

// ServiceDir returns the working directory of a named service.
func (p ProjectPaths) ServiceDir(name string) string {
	return filepath.Join(p.ServersDir, name)
}

// PluginDir returns the plugin directory inside a service's working
// directory, where resolved plugin jars are linked.
func (p ProjectPaths) PluginDir(name string) string {
	return filepath.Join(p.ServiceDir(name), "plugins")
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureDirs creates the standard jars/servers/backups/logs hierarchy.
func (p ProjectPaths) EnsureDirs() error {
	dirs := []string{p.JarsDir, p.ServersDir, p.BackupsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureServiceDir creates a service's working directory.
func (p ProjectPaths) EnsureServiceDir(name string) error {
	if err := os.MkdirAll(p.ServiceDir(name), 0o755); err != nil {
		return fmt.Errorf("create service dir %q: %w", name, err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
