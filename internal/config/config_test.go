package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "miner.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Version != 1 {
		t.Fatalf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Java.Binary != "java" || cfg.Java.MemInitial != "1G" || cfg.Java.MemMax != "1G" {
		t.Fatalf("unexpected java defaults %+v", cfg.Java)
	}
	if cfg.Download.FailFastValue() {
		t.Fatal("fail_fast should default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "miner.yaml")
	contents := `
default_version: 1.20.1
directories:
  jars: artifacts
java:
  mem_max: 8G
  extra_flags:
    - -Dfile.encoding=UTF-8
download:
  fail_fast: true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultVersion != "1.20.1" {
		t.Fatalf("expected default_version 1.20.1, got %q", cfg.DefaultVersion)
	}
	if cfg.Directories.Jars != "artifacts" {
		t.Fatalf("expected jars dir override, got %q", cfg.Directories.Jars)
	}
	if cfg.Java.MemMax != "8G" {
		t.Fatalf("expected mem_max 8G, got %q", cfg.Java.MemMax)
	}
	// Omitted fields keep their defaults.
	if cfg.Java.MemInitial != "1G" {
		t.Fatalf("expected default mem_initial, got %q", cfg.Java.MemInitial)
	}
	if len(cfg.Java.ExtraFlags) != 1 {
		t.Fatalf("unexpected extra flags %v", cfg.Java.ExtraFlags)
	}
	if !cfg.Download.FailFastValue() {
		t.Fatal("expected fail_fast true")
	}
}

func TestValidateStrict(t *testing.T) {
	cfg := Default()
	cfg.Java.MemInitial = "lots"
	cfg.Java.ExtraFlags = []string{"notaflag"}

	results := cfg.ValidateStrict(t.TempDir())
	var errs, warns int
	for _, r := range results {
		switch r.Level {
		case "error":
			errs++
		case "warning":
			warns++
		}
	}
	if errs != 1 {
		t.Fatalf("expected one error, got %d (%v)", errs, results)
	}
	if warns != 1 {
		t.Fatalf("expected one warning, got %d (%v)", warns, results)
	}
}

func TestValidateStrictDirectoryOverride(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "jars"), []byte("file"), 0o644); err != nil {
		t.Fatalf("write decoy: %v", err)
	}

	cfg := Default()
	cfg.Directories.Jars = "jars"

	results := cfg.ValidateStrict(root)
	if len(results) != 1 || results[0].Level != "error" {
		t.Fatalf("expected one error for non-directory override, got %v", results)
	}
}
