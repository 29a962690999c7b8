package jars

import (
	"fmt"
	"strings"
)

// JarFile identifies one concrete artifact.
type JarFile struct {
	Name    string
	Version Version
	Build   string
	Service string
}

func (j JarFile) String() string {
	if j.Build != "" {
		return fmt.Sprintf("%s version=%s build=%s", j.Name, j.Version, j.Build)
	}
	return fmt.Sprintf("%s %s", j.Name, j.Version)
}

// ResolvedJarFile is a JarFile with its download URL and local filename
// materialized. Produced fresh per resolution, never persisted.
type ResolvedJarFile struct {
	JarFile
	URL       string
	LocalName string
}

// JarResolver turns dependency specs into concrete, URL-resolved jar entries.
type JarResolver struct {
	tables *Tables
}

// NewJarResolver returns a resolver over the loaded lookup tables.
func NewJarResolver(tables *Tables) *JarResolver {
	return &JarResolver{tables: tables}
}

// ResolveSpec expands one dependency spec. A name ending in "*" selects every
// definition sharing the prefix, each inheriting the spec's version, build,
// and service; an empty expansion is valid. A literal name with no definition
// fails with ErrUnknownJar.
func (r *JarResolver) ResolveSpec(spec DependencySpec) ([]ResolvedJarFile, error) {
	if strings.HasSuffix(spec.Name, "*") {
		prefix := strings.TrimSuffix(spec.Name, "*")
		keys := r.tables.MatchDefinitions(prefix)
		out := make([]ResolvedJarFile, 0, len(keys))
		for _, key := range keys {
			jar, err := r.resolveOne(key, spec)
			if err != nil {
				return nil, err
			}
			out = append(out, jar)
		}
		return out, nil
	}

	if _, err := r.tables.Definition(spec.Name); err != nil {
		return nil, err
	}
	jar, err := r.resolveOne(spec.Name, spec)
	if err != nil {
		return nil, err
	}
	return []ResolvedJarFile{jar}, nil
}

// ResolvePackage expands every dependency of a resolved package, in list
// order. Dependencies without a service of their own belong to the package's
// service.
func (r *JarResolver) ResolvePackage(pkg ResolvedPackage) ([]ResolvedJarFile, error) {
	var out []ResolvedJarFile
	for _, spec := range pkg.Depends {
		if spec.Service == "" {
			spec.Service = pkg.Service
		}
		jars, err := r.ResolveSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
		}
		out = append(out, jars...)
	}
	return out, nil
}

func (r *JarResolver) resolveOne(name string, spec DependencySpec) (ResolvedJarFile, error) {
	def, err := r.tables.Definition(name)
	if err != nil {
		return ResolvedJarFile{}, err
	}

	url, err := r.tables.ExpandURL(def, TemplateContext{
		Key:     name,
		Version: spec.Version,
		Build:   spec.Build,
	})
	if err != nil {
		return ResolvedJarFile{}, fmt.Errorf("resolve %s: %w", name, err)
	}

	return ResolvedJarFile{
		JarFile: JarFile{
			Name:    name,
			Version: spec.Version,
			Build:   spec.Build,
			Service: spec.Service,
		},
		URL:       url,
		LocalName: r.tables.LocalName(name, spec.Version),
	}, nil
}
