package logx

import (
	"os"
	"path/filepath"
	"testing"

	"miner/internal/paths"
)

func TestNewWritesToLogsDir(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve paths: %v", err)
	}

	logger, closer, err := New(pp)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Printf("starting up")
	if err := closer.Close(); err != nil {
		t.Fatalf("close logger: %v", err)
	}

	entries, err := os.ReadDir(pp.LogsDir)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, got %d", len(entries))
	}
}

func TestNewGlobalReportsUnusableHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// A regular file where .miner should be makes the log dir uncreatable.
	if err := os.WriteFile(filepath.Join(home, ".miner"), nil, 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	if _, _, err := NewGlobal("check"); err == nil {
		t.Fatal("expected error when the global logs dir cannot be created")
	}
}
