package jars

import "strings"

// Latest is the floating version sentinel. It never participates in ordering
// and passes through URL templates verbatim.
const Latest = "latest"

// Version is an ordered tuple of dotted components, held opaquely: resolution
// never compares versions semantically, it only substitutes them into
// templates and file names.
type Version struct {
	parts []string
}

// ParseVersion splits a dotted version string into its components. An empty
// string yields the zero Version.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}
	}
	return Version{parts: strings.Split(s, ".")}
}

// String reassembles the dotted form.
func (v Version) String() string {
	return strings.Join(v.parts, ".")
}

// IsZero reports whether no version was supplied.
func (v Version) IsZero() bool { return len(v.parts) == 0 }

// IsLatest reports whether the version is the floating sentinel.
func (v Version) IsLatest() bool {
	return len(v.parts) == 1 && v.parts[0] == Latest
}

// Underscored returns the dotted form with dots replaced by underscores, the
// spelling package table keys use (1.20.1 -> 1_20_1).
func (v Version) Underscored() string {
	return strings.Join(v.parts, "_")
}
