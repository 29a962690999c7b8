package jars

import (
	"errors"
	"testing"

	"miner/internal/manifest"
)

const packagesDoc = `
[jars.packages.server.1_20_1]
service = "survival"
service_port = 25565
rcon_port = 25575

[[jars.packages.server.1_20_1.depends]]
name = "paper"
version = "1.20.1"
build = "196"

[jars.packages.survival_0]
from = "server.1_20_1"
service_port = 30066

[[jars.packages.survival_0.depends]]
name = "essentialsx"
version = "2.20.1"

[[jars.packages.survival_0.depends]]
name = "essentialsx-chat"
version = "2.20.1"

[jars.packages.faerun]
from = "survival_0"
rcon_port = 25577
rcon_password = "hunter2"

[jars.packages.lobby]
service = "lobby"

[[jars.packages.lobby.depends]]
name = "paper"
version = "1.20.1"

[jars.packages.lobby.1_20_1]
service = "stale"

[jars.packages.loop_a]
from = "loop_b"

[jars.packages.loop_b]
from = "loop_a"

[jars.packages.selfref]
from = "selfref"
`

func packageResolver(t *testing.T) *PackageResolver {
	t.Helper()
	tree, err := manifest.Parse(packagesDoc)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return NewPackageResolver(tree)
}

func TestResolveTerminalPackage(t *testing.T) {
	r := packageResolver(t)

	pkg, err := r.Resolve("server.1_20_1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pkg.Service != "survival" {
		t.Fatalf("expected service survival, got %q", pkg.Service)
	}
	if pkg.ServicePort != 25565 {
		t.Fatalf("expected port 25565, got %d", pkg.ServicePort)
	}
	if len(pkg.Depends) != 1 || pkg.Depends[0].Name != "paper" {
		t.Fatalf("unexpected depends %+v", pkg.Depends)
	}
	if pkg.Depends[0].Build != "196" {
		t.Fatalf("expected build 196, got %q", pkg.Depends[0].Build)
	}
}

func TestResolveInheritanceChain(t *testing.T) {
	r := packageResolver(t)

	pkg, err := r.Resolve("faerun")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Child wins scalars it sets; everything else walks up the chain.
	if pkg.RconPort != 25577 {
		t.Fatalf("expected own rcon_port 25577, got %d", pkg.RconPort)
	}
	if pkg.RconPassword != "hunter2" {
		t.Fatalf("expected own rcon_password, got %q", pkg.RconPassword)
	}
	if pkg.ServicePort != 30066 {
		t.Fatalf("expected inherited service_port 30066, got %d", pkg.ServicePort)
	}
	if pkg.Service != "survival" {
		t.Fatalf("expected root service survival, got %q", pkg.Service)
	}

	// Depends comes from the nearest ancestor with a non-empty list.
	if len(pkg.Depends) != 2 {
		t.Fatalf("expected survival_0's depends, got %+v", pkg.Depends)
	}
	if pkg.Depends[0].Name != "essentialsx" || pkg.Depends[1].Name != "essentialsx-chat" {
		t.Fatalf("unexpected depends order %+v", pkg.Depends)
	}
	if got := pkg.Depends[0].Version.String(); got != "2.20.1" {
		t.Fatalf("expected depends version 2.20.1, got %q", got)
	}
}

func TestResolveForDescendsVersionTable(t *testing.T) {
	r := packageResolver(t)

	// jars.packages.server carries no from or depends of its own, so the
	// deployment version selects the underscored subtable.
	pkg, err := r.ResolveFor("server", ParseVersion("1.20.1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pkg.Service != "survival" {
		t.Fatalf("expected service survival, got %q", pkg.Service)
	}
	if len(pkg.Depends) != 1 || pkg.Depends[0].Name != "paper" {
		t.Fatalf("unexpected depends %+v", pkg.Depends)
	}
}

func TestResolveForPrefersOwnDepends(t *testing.T) {
	r := packageResolver(t)

	// A package defining its own depends list is taken as addressed, even
	// when a version-keyed subtable exists beside it.
	pkg, err := r.ResolveFor("lobby", ParseVersion("1.20.1"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pkg.Service != "lobby" {
		t.Fatalf("expected service lobby, got %q", pkg.Service)
	}
}

func TestResolveForMissingVersionTable(t *testing.T) {
	r := packageResolver(t)

	// No subtable for the version: resolution stays on the bare table.
	pkg, err := r.ResolveFor("server", ParseVersion("9.9"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pkg.Service != "" || len(pkg.Depends) != 0 {
		t.Fatalf("expected bare table result, got %+v", pkg)
	}
}

func TestResolveCycle(t *testing.T) {
	r := packageResolver(t)

	if _, err := r.Resolve("loop_a"); !errors.Is(err, ErrCyclicInheritance) {
		t.Fatalf("expected ErrCyclicInheritance, got %v", err)
	}
	if _, err := r.Resolve("selfref"); !errors.Is(err, ErrCyclicInheritance) {
		t.Fatalf("expected ErrCyclicInheritance for self reference, got %v", err)
	}
}

func TestResolveUnknownPackage(t *testing.T) {
	r := packageResolver(t)

	if _, err := r.Resolve("ghost"); !errors.Is(err, manifest.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}
