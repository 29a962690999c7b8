package service

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"miner/internal/jars"
)

func TestJavaArgsPaper(t *testing.T) {
	opts := OptionsFor(Paper, "2G", "4G")
	args := JavaArgs("/jars/paper-1.20.1.jar", opts)

	want := []string{"-Xms2G", "-Xmx4G", "-jar", "/jars/paper-1.20.1.jar", "--nogui"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
}

func TestJavaArgsVelocity(t *testing.T) {
	opts := OptionsFor(Velocity, "512M", "512M")
	args := JavaArgs("/jars/velocity.jar", opts)

	if args[0] != "-Xms512M" || args[1] != "-Xmx512M" {
		t.Fatalf("unexpected heap args %v", args[:2])
	}
	if args[2] != "-XX:+UseG1GC" {
		t.Fatalf("expected G1 tuning first, got %v", args)
	}
	for _, a := range args {
		if a == "--nogui" {
			t.Fatalf("proxies take no --nogui flag: %v", args)
		}
	}
	if args[len(args)-1] != "/jars/velocity.jar" {
		t.Fatalf("expected jar path last, got %v", args)
	}
}

func TestJavaArgsDefaultsAndExtras(t *testing.T) {
	args := JavaArgs("x.jar", JavaOptions{ExtraFlags: []string{"-Dfile.encoding=UTF-8"}})

	want := []string{"-Xms1G", "-Xmx1G", "-Dfile.encoding=UTF-8", "-jar", "x.jar"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("expected %v, got %v", want, args)
	}
}

func TestFindServerJarExact(t *testing.T) {
	jarDir := t.TempDir()
	path := filepath.Join(jarDir, "paper-1.20.1-196.jar")
	if err := os.WriteFile(path, []byte("jar"), 0o644); err != nil {
		t.Fatalf("write jar: %v", err)
	}

	got, err := FindServerJar(jarDir, Paper, jars.ParseVersion("1.20.1"), "196")
	if err != nil {
		t.Fatalf("find server jar: %v", err)
	}
	if got != path {
		t.Fatalf("expected %s, got %s", path, got)
	}
}

func TestFindServerJarGlobPicksNewestBuild(t *testing.T) {
	jarDir := t.TempDir()
	for _, name := range []string{"paper-1.20.1-100.jar", "paper-1.20.1-196.jar"} {
		if err := os.WriteFile(filepath.Join(jarDir, name), []byte("jar"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got, err := FindServerJar(jarDir, Paper, jars.ParseVersion("1.20.1"), "")
	if err != nil {
		t.Fatalf("find server jar: %v", err)
	}
	if filepath.Base(got) != "paper-1.20.1-196.jar" {
		t.Fatalf("expected the lexically greatest build, got %s", got)
	}
}

func TestFindServerJarMissing(t *testing.T) {
	if _, err := FindServerJar(t.TempDir(), Paper, jars.ParseVersion("1.20.1"), ""); err == nil {
		t.Fatal("expected error when no jar matches")
	}
}
