package jars

import (
	"fmt"
	"strings"

	"miner/internal/manifest"
)

// packagesRoot is the manifest section package paths resolve under.
const packagesRoot = "jars.packages"

// maxChainDepth bounds from-chain walks so a cycle that never revisits the
// exact same path still terminates with an error.
const maxChainDepth = 16

// DependencySpec is one entry of a package depends list. Name may carry a
// trailing "*" selecting every definition sharing the prefix.
type DependencySpec struct {
	Name    string
	Version Version
	Build   string
	Service string
}

// PackageNode is a raw, unresolved package table as it appears in the
// manifest. hasDepends distinguishes "no depends key" from "empty list" so
// inheritance knows whether the node overrides its ancestor's list.
type PackageNode struct {
	Path         string
	From         string
	Service      string
	ServiceHost  string
	ServicePort  int64
	RconPort     int64
	RconPassword string
	Depends      []DependencySpec

	hasDepends bool
}

// ResolvedPackage is a package after its from-chain has been merged: every
// scalar takes the nearest value walking up the chain, and Depends is the
// nearest non-empty depends list. It is a plain value with no link back to
// its ancestors.
type ResolvedPackage struct {
	Name         string
	Service      string
	ServiceHost  string
	ServicePort  int64
	RconPort     int64
	RconPassword string
	Depends      []DependencySpec
}

// PackageResolver materializes packages from the manifest tree.
type PackageResolver struct {
	tree     *manifest.Tree
	maxDepth int
}

// NewPackageResolver returns a resolver over the loaded manifest.
func NewPackageResolver(tree *manifest.Tree) *PackageResolver {
	return &PackageResolver{tree: tree, maxDepth: maxChainDepth}
}

// Resolve loads the named package and follows its from-chain until a terminal
// node, merging child-over-parent at each step. A revisited path or a chain
// longer than the depth bound fails with ErrCyclicInheritance.
func (r *PackageResolver) Resolve(name string) (ResolvedPackage, error) {
	return r.ResolveFor(name, Version{})
}

// ResolveFor resolves a package addressed together with a deployment
// version. Manifests may key per-version package tables under the
// underscored spelling (server.1_20_1); when the table named directly
// carries neither from nor depends and such a subtable exists, resolution
// descends into it before following the from-chain.
func (r *PackageResolver) ResolveFor(name string, v Version) (ResolvedPackage, error) {
	path := packagePath(name)

	node, err := r.load(path)
	if err != nil {
		return ResolvedPackage{}, err
	}

	if node.From == "" && !node.hasDepends && !v.IsZero() {
		versioned := path + "." + v.Underscored()
		if raw, rerr := r.tree.Resolve(versioned); rerr == nil {
			if _, terr := raw.AsTree(); terr == nil {
				if node, err = r.load(versioned); err != nil {
					return ResolvedPackage{}, err
				}
				path = versioned
			}
		}
	}

	visited := map[string]bool{path: true}
	merged := node
	for depth := 0; merged.From != ""; depth++ {
		if depth >= r.maxDepth {
			return ResolvedPackage{}, fmt.Errorf("%w: chain from %q exceeds depth %d", ErrCyclicInheritance, name, r.maxDepth)
		}

		parentPath := packagePath(merged.From)
		if visited[parentPath] {
			return ResolvedPackage{}, fmt.Errorf("%w: %q revisits %q", ErrCyclicInheritance, name, parentPath)
		}
		visited[parentPath] = true

		parent, err := r.load(parentPath)
		if err != nil {
			return ResolvedPackage{}, err
		}
		merged = merge(merged, parent)
	}

	return ResolvedPackage{
		Name:         name,
		Service:      merged.Service,
		ServiceHost:  merged.ServiceHost,
		ServicePort:  merged.ServicePort,
		RconPort:     merged.RconPort,
		RconPassword: merged.RconPassword,
		Depends:      merged.Depends,
	}, nil
}

// packagePath anchors a package name under jars.packages unless the caller
// already spelled the full section path.
func packagePath(name string) string {
	if strings.HasPrefix(name, packagesRoot+".") {
		return name
	}
	return packagesRoot + "." + name
}

func (r *PackageResolver) load(path string) (PackageNode, error) {
	v, err := r.tree.Resolve(path)
	if err != nil {
		return PackageNode{}, fmt.Errorf("load package: %w", err)
	}
	sub, err := v.AsTree()
	if err != nil {
		return PackageNode{}, fmt.Errorf("load package %s: %w", path, err)
	}

	node := PackageNode{Path: path}
	if node.From, err = stringField(sub, "from"); err != nil {
		return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
	}
	if node.Service, err = stringField(sub, "service"); err != nil {
		return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
	}
	if node.ServiceHost, err = stringField(sub, "service_host"); err != nil {
		return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
	}
	if node.ServicePort, err = intField(sub, "service_port"); err != nil {
		return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
	}
	if node.RconPort, err = intField(sub, "rcon_port"); err != nil {
		return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
	}
	if node.RconPassword, err = stringField(sub, "rcon_password"); err != nil {
		return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
	}

	if raw, ok := sub.Get("depends"); ok {
		node.hasDepends = true
		node.Depends, err = decodeDepends(raw)
		if err != nil {
			return PackageNode{}, fmt.Errorf("package %s: %w", path, err)
		}
	}
	return node, nil
}

func decodeDepends(v manifest.Value) ([]DependencySpec, error) {
	items, err := v.AsList()
	if err != nil {
		return nil, fmt.Errorf("depends: %w", err)
	}

	specs := make([]DependencySpec, 0, len(items))
	for i, item := range items {
		entry, err := item.AsTree()
		if err != nil {
			return nil, fmt.Errorf("depends[%d]: %w", i, err)
		}

		var spec DependencySpec
		if spec.Name, err = stringField(entry, "name"); err != nil {
			return nil, fmt.Errorf("depends[%d]: %w", i, err)
		}
		if spec.Name == "" {
			return nil, fmt.Errorf("depends[%d]: missing name", i)
		}

		version, err := stringField(entry, "version")
		if err != nil {
			return nil, fmt.Errorf("depends[%d]: %w", i, err)
		}
		spec.Version = ParseVersion(version)

		if spec.Build, err = stringField(entry, "build"); err != nil {
			return nil, fmt.Errorf("depends[%d]: %w", i, err)
		}
		if spec.Service, err = stringField(entry, "service"); err != nil {
			return nil, fmt.Errorf("depends[%d]: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func stringField(t *manifest.Tree, key string) (string, error) {
	v, ok := t.Get(key)
	if !ok {
		return "", nil
	}
	s, err := v.AsString()
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return s, nil
}

func intField(t *manifest.Tree, key string) (int64, error) {
	v, ok := t.Get(key)
	if !ok {
		return 0, nil
	}
	n, err := v.AsInt()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// merge overlays child on parent: child wins any scalar it sets, and Depends
// replaces wholesale when the child defines a non-empty list of its own.
func merge(child, parent PackageNode) PackageNode {
	out := child
	out.From = parent.From
	if out.Service == "" {
		out.Service = parent.Service
	}
	if out.ServiceHost == "" {
		out.ServiceHost = parent.ServiceHost
	}
	if out.ServicePort == 0 {
		out.ServicePort = parent.ServicePort
	}
	if out.RconPort == 0 {
		out.RconPort = parent.RconPort
	}
	if out.RconPassword == "" {
		out.RconPassword = parent.RconPassword
	}
	if !out.hasDepends || len(out.Depends) == 0 {
		out.Depends = parent.Depends
		out.hasDepends = parent.hasDepends
	}
	return out
}
