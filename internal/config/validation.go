package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var memSizePattern = regexp.MustCompile(`^[0-9]+[kKmMgG]?$`)

// ValidateStrict runs all strict validations against the config and returns
// structured results.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateJava()...)
	results = append(results, c.validateDirectories(projectRoot)...)
	return results
}

func (c Config) validateJava() []ValidationResult {
	var results []ValidationResult
	if mem := strings.TrimSpace(c.Java.MemInitial); mem != "" && !memSizePattern.MatchString(mem) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("java.mem_initial %q is not a valid heap size (expected e.g. 512M, 2G)", mem),
		})
	}
	if mem := strings.TrimSpace(c.Java.MemMax); mem != "" && !memSizePattern.MatchString(mem) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("java.mem_max %q is not a valid heap size (expected e.g. 512M, 2G)", mem),
		})
	}
	for i, flag := range c.Java.ExtraFlags {
		if !strings.HasPrefix(flag, "-") {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("java.extra_flags[%d] %q does not look like a JVM flag", i, flag),
			})
		}
	}
	return results
}

func (c Config) validateDirectories(projectRoot string) []ValidationResult {
	var results []ValidationResult
	overrides := []struct {
		field string
		value string
	}{
		{"directories.jars", c.Directories.Jars},
		{"directories.servers", c.Directories.Servers},
		{"directories.backups", c.Directories.Backups},
	}
	for _, ov := range overrides {
		field := ov.field
		dir := strings.TrimSpace(ov.value)
		if dir == "" {
			continue
		}
		resolved := dir
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		info, err := os.Stat(resolved)
		if err != nil {
			continue // created on demand
		}
		if !info.IsDir() {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s %q exists but is not a directory", field, dir),
			})
		}
	}
	return results
}
