// Package service models the deployment kinds miner manages (paper game
// servers, velocity proxies, and plain plugins) plus the pieces that differ
// per kind: which files a backup covers and how the java process is launched.
package service

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the type of service a deployment runs.
type Kind string

const (
	Paper    Kind = "paper"
	Velocity Kind = "velocity"
	Plugin   Kind = "plugin"
)

// ParseKind maps a CLI string to a Kind. Empty defaults to paper.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "paper":
		return Paper, nil
	case "velocity":
		return Velocity, nil
	case "plugin":
		return Plugin, nil
	}
	return "", fmt.Errorf("unknown service kind %q", s)
}

func (k Kind) String() string { return string(k) }

// ArchiveInclude lists the paths inside workDir worth preserving in a backup
// of the given service kind. Paper servers keep their configuration plus
// every world directory named by server.properties; velocity proxies keep
// their config and plugins. Paths that do not exist are fine; the archive
// writer skips them.
func ArchiveInclude(kind Kind, workDir string) ([]string, error) {
	switch kind {
	case Paper:
		include := []string{
			filepath.Join(workDir, "server.properties"),
			filepath.Join(workDir, "config"),
			filepath.Join(workDir, "bukkit.yml"),
			filepath.Join(workDir, "spigot.yml"),
			filepath.Join(workDir, "usercache.json"),
		}
		level, err := levelName(filepath.Join(workDir, "server.properties"))
		if err != nil {
			return nil, err
		}
		worlds, err := filepath.Glob(filepath.Join(workDir, level+"*"))
		if err != nil {
			return nil, fmt.Errorf("glob world directories: %w", err)
		}
		return append(include, worlds...), nil

	case Velocity:
		return []string{
			filepath.Join(workDir, "velocity.toml"),
			filepath.Join(workDir, "forwarding.secret"),
			filepath.Join(workDir, "plugins"),
		}, nil
	}
	return nil, nil
}

// levelName reads the level-name key from a server.properties file,
// defaulting to "world" when the file or key is missing.
func levelName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "world", nil
		}
		return "", fmt.Errorf("open server.properties: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == "level-name" {
			if v := strings.TrimSpace(value); v != "" {
				return v, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read server.properties: %w", err)
	}
	return "world", nil
}
