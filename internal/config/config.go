package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the project-level configuration loaded from miner.yaml.
type Config struct {
	Version        int               `yaml:"version"`
	DefaultVersion string            `yaml:"default_version"`
	Directories    DirectoriesConfig `yaml:"directories"`
	Java           JavaConfig        `yaml:"java"`
	Download       DownloadConfig    `yaml:"download"`
}

// DirectoriesConfig overrides the standard project layout. Relative paths
// are anchored at the project root.
type DirectoriesConfig struct {
	Jars    string `yaml:"jars"`
	Servers string `yaml:"servers"`
	Backups string `yaml:"backups"`
}

// JavaConfig controls the JVM invocation used to launch services.
type JavaConfig struct {
	Binary     string   `yaml:"binary"`
	MemInitial string   `yaml:"mem_initial"`
	MemMax     string   `yaml:"mem_max"`
	ExtraFlags []string `yaml:"extra_flags"`
}

// DownloadConfig tunes jar download behavior.
type DownloadConfig struct {
	FailFast  *bool  `yaml:"fail_fast,omitempty"`
	UserAgent string `yaml:"user_agent"`
}

// FailFastValue returns the effective fail_fast flag applying defaults.
func (d DownloadConfig) FailFastValue() bool {
	if d.FailFast == nil {
		return false
	}
	return *d.FailFast
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Java: JavaConfig{
			Binary:     "java",
			MemInitial: "1G",
			MemMax:     "1G",
		},
		Download: DownloadConfig{
			FailFast: boolPtr(false),
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Java.Binary == "" {
		c.Java.Binary = defaults.Java.Binary
	}
	if c.Java.MemInitial == "" {
		c.Java.MemInitial = defaults.Java.MemInitial
	}
	if c.Java.MemMax == "" {
		c.Java.MemMax = defaults.Java.MemMax
	}
	if c.Download.FailFast == nil {
		c.Download.FailFast = boolPtr(false)
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
