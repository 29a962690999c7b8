package jars

import "errors"

var (
	// ErrCyclicInheritance reports a package from-chain that revisits a node
	// or exceeds the maximum chain depth.
	ErrCyclicInheritance = errors.New("cyclic package inheritance")

	// ErrUnknownHost reports a host alias with no entry in the hosts table.
	ErrUnknownHost = errors.New("unknown host alias")

	// ErrUnknownName reports a jar key with no entry in the names table.
	ErrUnknownName = errors.New("unknown jar name")

	// ErrUnknownJar reports a literal dependency name with no definition.
	ErrUnknownJar = errors.New("unknown jar definition")

	// ErrMissingField reports a template placeholder whose context value was
	// not supplied by the dependency spec.
	ErrMissingField = errors.New("missing template field")

	// ErrInvalidTemplate reports an unrecognized or malformed placeholder.
	ErrInvalidTemplate = errors.New("invalid url template")
)
