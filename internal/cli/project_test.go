package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectRejectsInvalidConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")
	if _, err := runCommand(t, "--project", root, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	bad := []byte("java:\n  mem_max: 2XL\n")
	if err := os.WriteFile(filepath.Join(root, "miner.yaml"), bad, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := runCommand(t, "--project", root, "backup", "survival")
	if err == nil {
		t.Fatal("expected error for invalid heap size")
	}
	if !strings.Contains(err.Error(), "heap size") {
		t.Fatalf("unexpected error: %v", err)
	}
}
