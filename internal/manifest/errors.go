package manifest

import "errors"

var (
	// ErrPathNotFound reports a dot-path whose target key is absent.
	ErrPathNotFound = errors.New("manifest path not found")

	// ErrInvalidPath reports a wildcard segment anywhere but the terminal
	// position of a dot-path.
	ErrInvalidPath = errors.New("invalid manifest path")

	// ErrUnexpectedType reports a value that cannot be coerced to the type a
	// caller asked for.
	ErrUnexpectedType = errors.New("unexpected manifest value type")
)
