package manifest

import (
	"errors"
	"reflect"
	"testing"
)

const sampleDoc = `
[jars.uri.special.hosts]
github = "https://github.com"
papermc = "https://api.papermc.io"

[jars.uri.definitions]
essentialsx = "{host:github}/EssentialsX/Essentials/releases/download/{version}/{name}"
essentialsx-chat = "{host:github}/EssentialsX/Essentials/releases/download/{version}/{name}"
paper = "{host:papermc}/v2/projects/paper/versions/{version}/builds/{build}/downloads/{name}"

[jars.packages.survival]
service = "survival"
service_port = 30066
`

func mustParse(t *testing.T, doc string) *Tree {
	t.Helper()
	tree, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return tree
}

func TestParsePreservesDocumentOrder(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	v, err := tree.Resolve("jars.uri.definitions.*")
	if err != nil {
		t.Fatalf("resolve definitions: %v", err)
	}
	defs, err := v.AsTree()
	if err != nil {
		t.Fatalf("definitions not a table: %v", err)
	}

	want := []string{"essentialsx", "essentialsx-chat", "paper"}
	if got := defs.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
}

func TestResolveScalar(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	v, err := tree.Resolve("jars.uri.special.hosts.github")
	if err != nil {
		t.Fatalf("resolve host: %v", err)
	}
	s, err := v.AsString()
	if err != nil {
		t.Fatalf("host not a string: %v", err)
	}
	if s != "https://github.com" {
		t.Fatalf("expected github base url, got %q", s)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	first, err := tree.Resolve("jars.packages.survival.service_port")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := tree.Resolve("jars.packages.survival.service_port")
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		a, _ := first.AsInt()
		b, _ := again.AsInt()
		if a != b {
			t.Fatalf("resolution changed between runs: %d vs %d", a, b)
		}
	}
}

func TestResolveMissingKey(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	_, err := tree.Resolve("jars.uri.special.hosts.unknown")
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestResolveInteriorWildcard(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	_, err := tree.Resolve("jars.*.special")
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestResolveWildcardOnScalarParent(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	v, err := tree.Resolve("jars.packages.survival.*")
	if err != nil {
		t.Fatalf("resolve package table: %v", err)
	}
	sub, err := v.AsTree()
	if err != nil {
		t.Fatalf("package not a table: %v", err)
	}
	if sub.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", sub.Len())
	}
}

func TestLookupDefault(t *testing.T) {
	tree := mustParse(t, sampleDoc)

	v, err := tree.Lookup("jars.packages.survival.rcon_port", IntValue(25575))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	n, err := v.AsInt()
	if err != nil {
		t.Fatalf("default not an int: %v", err)
	}
	if n != 25575 {
		t.Fatalf("expected default 25575, got %d", n)
	}

	// A malformed path still fails even with a default on hand.
	if _, err := tree.Lookup("jars.*.survival", IntValue(0)); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestValueCoercions(t *testing.T) {
	tree := mustParse(t, `
[entry]
port = "30066"
count = 3
flag = true
`)

	v, err := tree.Resolve("entry.port")
	if err != nil {
		t.Fatalf("resolve port: %v", err)
	}
	n, err := v.AsInt()
	if err != nil {
		t.Fatalf("numeric string should coerce: %v", err)
	}
	if n != 30066 {
		t.Fatalf("expected 30066, got %d", n)
	}

	v, _ = tree.Resolve("entry.count")
	s, err := v.AsString()
	if err != nil {
		t.Fatalf("integer should format as string: %v", err)
	}
	if s != "3" {
		t.Fatalf("expected \"3\", got %q", s)
	}

	v, _ = tree.Resolve("entry.flag")
	if _, err := v.AsInt(); !errors.Is(err, ErrUnexpectedType) {
		t.Fatalf("expected ErrUnexpectedType, got %v", err)
	}
}
