package jars

import (
	"fmt"
	"strings"

	"miner/internal/manifest"
)

// Reserved manifest sections the tables are built from.
const (
	hostsPath       = "jars.uri.special.hosts"
	namesPath       = "jars.uri.special.names"
	definitionsPath = "jars.uri.definitions"
)

// Tables holds the flat lookup tables templating works against: host aliases
// to base URLs, jar keys to filename templates, and jar keys to URL
// definition templates. Definition keys keep manifest document order so
// wildcard dependency expansion is deterministic.
type Tables struct {
	hosts   map[string]string
	names   map[string]string
	defKeys []string
	defs    map[string]string
}

// LoadTables reads the reserved special.hosts, special.names, and definitions
// sections from the manifest tree.
func LoadTables(tree *manifest.Tree) (*Tables, error) {
	hosts, _, err := loadStringTable(tree, hostsPath)
	if err != nil {
		return nil, err
	}
	names, _, err := loadStringTable(tree, namesPath)
	if err != nil {
		return nil, err
	}
	defs, defKeys, err := loadStringTable(tree, definitionsPath)
	if err != nil {
		return nil, err
	}
	return &Tables{hosts: hosts, names: names, defKeys: defKeys, defs: defs}, nil
}

func loadStringTable(tree *manifest.Tree, path string) (map[string]string, []string, error) {
	v, err := tree.Resolve(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	sub, err := v.AsTree()
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}

	out := make(map[string]string, sub.Len())
	keys := sub.Keys()
	for _, key := range keys {
		entry, _ := sub.Get(key)
		s, err := entry.AsString()
		if err != nil {
			return nil, nil, fmt.Errorf("load %s.%s: %w", path, key, err)
		}
		out[key] = s
	}
	return out, keys, nil
}

// Host returns the base URL for a host alias.
func (t *Tables) Host(alias string) (string, error) {
	base, ok := t.hosts[alias]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHost, alias)
	}
	return base, nil
}

// Name returns the filename template for a jar key.
func (t *Tables) Name(key string) (string, error) {
	tmpl, ok := t.names[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownName, key)
	}
	return tmpl, nil
}

// Definition returns the URL definition template for a jar key.
func (t *Tables) Definition(key string) (string, error) {
	def, ok := t.defs[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownJar, key)
	}
	return def, nil
}

// DefinitionKeys returns every defined jar key in document order.
func (t *Tables) DefinitionKeys() []string {
	out := make([]string, len(t.defKeys))
	copy(out, t.defKeys)
	return out
}

// MatchDefinitions returns the defined jar keys sharing prefix, in document
// order. Zero matches is a valid result.
func (t *Tables) MatchDefinitions(prefix string) []string {
	var out []string
	for _, key := range t.defKeys {
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out
}

// LocalName returns the on-disk filename for a jar key at a given version. A
// key absent from the names table falls back to the bare key itself.
func (t *Tables) LocalName(key string, v Version) string {
	tmpl, err := t.Name(key)
	if err != nil {
		return key
	}
	return strings.ReplaceAll(tmpl, "{version}", v.String())
}
