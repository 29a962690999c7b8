package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Wildcard is the terminal path segment that selects every key at a level.
const Wildcard = "*"

// Resolve walks a dot-separated path through the tree and returns the value
// at its end. A terminal "*" segment returns the full table at that level,
// keys in document order. A "*" anywhere else fails with ErrInvalidPath, and
// a missing key fails with ErrPathNotFound.
func (t *Tree) Resolve(path string) (Value, error) {
	segs := strings.Split(path, ".")
	cur := t
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg == Wildcard {
			if !last {
				return Value{}, fmt.Errorf("%w: wildcard must be the final segment in %q", ErrInvalidPath, path)
			}
			return TreeValue(cur), nil
		}

		v, ok := cur.Get(seg)
		if !ok {
			return Value{}, fmt.Errorf("%w: %q has no key %q", ErrPathNotFound, path, seg)
		}
		if last {
			return v, nil
		}

		sub, err := v.AsTree()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q: segment %q is not a table", ErrPathNotFound, path, seg)
		}
		cur = sub
	}
	return Value{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
}

// Lookup resolves path, substituting def when the path is absent. A malformed
// path (interior wildcard) still fails.
func (t *Tree) Lookup(path string, def Value) (Value, error) {
	v, err := t.Resolve(path)
	if err != nil {
		if errors.Is(err, ErrPathNotFound) {
			return def, nil
		}
		return Value{}, err
	}
	return v, nil
}
