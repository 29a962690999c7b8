package jars

import (
	"errors"
	"testing"

	"miner/internal/manifest"
)

const resolveDoc = `
[jars.uri.special.hosts]
github = "https://github.com"
papermc = "https://api.papermc.io"

[jars.uri.special.names]
paper = "paper-{version}.jar"
essentialsx = "EssentialsX-{version}.jar"
essentialsx-chat = "EssentialsXChat-{version}.jar"
essentialsx-geoip = "EssentialsXGeoIP-{version}.jar"

[jars.uri.definitions]
paper = "{host:papermc}/v2/projects/paper/versions/{version}/builds/{build}/downloads/{name}"
essentialsx = "{host:github}/EssentialsX/Essentials/releases/download/{version}/{name}"
essentialsx-chat = "{host:github}/EssentialsX/Essentials/releases/download/{version}/{name}"
essentialsx-geoip = "{host:github}/EssentialsX/Essentials/releases/download/{version}/{name}"

[jars.packages.survival]
service = "survival"

[[jars.packages.survival.depends]]
name = "paper"
version = "1.20.1"
build = "196"

[[jars.packages.survival.depends]]
name = "essentialsx*"
version = "2.20.1"
`

func jarResolver(t *testing.T) (*JarResolver, *PackageResolver) {
	t.Helper()
	tree, err := manifest.Parse(resolveDoc)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	tables, err := LoadTables(tree)
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	return NewJarResolver(tables), NewPackageResolver(tree)
}

func TestResolveSpecLiteral(t *testing.T) {
	r, _ := jarResolver(t)

	out, err := r.ResolveSpec(DependencySpec{
		Name:    "paper",
		Version: ParseVersion("1.20.1"),
		Build:   "196",
	})
	if err != nil {
		t.Fatalf("resolve spec: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one jar, got %d", len(out))
	}

	jar := out[0]
	wantURL := "https://api.papermc.io/v2/projects/paper/versions/1.20.1/builds/196/downloads/paper-1.20.1.jar"
	if jar.URL != wantURL {
		t.Fatalf("unexpected url %q", jar.URL)
	}
	if jar.LocalName != "paper-1.20.1.jar" {
		t.Fatalf("unexpected local name %q", jar.LocalName)
	}
}

func TestResolveSpecWildcard(t *testing.T) {
	r, _ := jarResolver(t)

	out, err := r.ResolveSpec(DependencySpec{
		Name:    "essentialsx*",
		Version: ParseVersion("2.20.1"),
		Service: "survival",
	})
	if err != nil {
		t.Fatalf("resolve spec: %v", err)
	}

	want := []string{"essentialsx", "essentialsx-chat", "essentialsx-geoip"}
	if len(out) != len(want) {
		t.Fatalf("expected %d jars, got %d", len(want), len(out))
	}
	for i, jar := range out {
		if jar.Name != want[i] {
			t.Fatalf("expected jar %q at %d, got %q", want[i], i, jar.Name)
		}
		if jar.Service != "survival" {
			t.Fatalf("jar %q lost its service", jar.Name)
		}
	}
}

func TestResolveSpecWildcardNoMatches(t *testing.T) {
	r, _ := jarResolver(t)

	out, err := r.ResolveSpec(DependencySpec{Name: "bungee*"})
	if err != nil {
		t.Fatalf("empty wildcard expansion should not fail: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no jars, got %d", len(out))
	}
}

func TestResolveSpecUnknownLiteral(t *testing.T) {
	r, _ := jarResolver(t)

	_, err := r.ResolveSpec(DependencySpec{Name: "bungee"})
	if !errors.Is(err, ErrUnknownJar) {
		t.Fatalf("expected ErrUnknownJar, got %v", err)
	}
}

func TestResolvePackageJars(t *testing.T) {
	r, pkgs := jarResolver(t)

	pkg, err := pkgs.Resolve("survival")
	if err != nil {
		t.Fatalf("resolve package: %v", err)
	}
	out, err := r.ResolvePackage(pkg)
	if err != nil {
		t.Fatalf("resolve package jars: %v", err)
	}

	// paper plus the three essentialsx expansions, in manifest order.
	want := []string{"paper", "essentialsx", "essentialsx-chat", "essentialsx-geoip"}
	if len(out) != len(want) {
		t.Fatalf("expected %d jars, got %d", len(want), len(out))
	}
	for i, jar := range out {
		if jar.Name != want[i] {
			t.Fatalf("expected jar %q at %d, got %q", want[i], i, jar.Name)
		}
		if jar.Service != "survival" {
			t.Fatalf("jar %q should inherit the package service", jar.Name)
		}
	}
}
