package manifest

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
)

// Tree is an ordered string-keyed mapping of manifest values. Key order is
// the order keys appear in the source document, which callers rely on when
// enumerating a level through a wildcard path. Trees are treated as immutable
// once a document has been loaded.
type Tree struct {
	keys []string
	vals map[string]Value
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{vals: map[string]Value{}}
}

// Set stores a value under key, preserving first-insertion order.
func (t *Tree) Set(key string, v Value) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (Value, bool) {
	v, ok := t.vals[key]
	return v, ok
}

// Keys returns the keys at this level in document order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len reports the number of keys at this level.
func (t *Tree) Len() int { return len(t.keys) }

// Load reads and parses a TOML manifest document from path.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	tree, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return tree, nil
}

// Parse decodes a TOML document into a Tree. The decoder's metadata key list
// is replayed in document order so that table levels keep the order keys were
// written in, which plain map decoding would lose.
func Parse(data string) (*Tree, error) {
	var raw map[string]any
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	root := NewTree()
	for _, key := range md.Keys() {
		insertKey(root, raw, key)
	}
	return root, nil
}

// insertKey places the value addressed by key into the tree, creating
// intermediate subtrees as the metadata walk reaches them.
func insertKey(root *Tree, raw map[string]any, key toml.Key) {
	cur := root
	node := raw
	for i, part := range key {
		child, ok := node[part]
		if !ok {
			return
		}
		last := i == len(key)-1

		sub, isTable := child.(map[string]any)
		if isTable {
			existing, ok := cur.Get(part)
			if ok && existing.kind == KindTree {
				cur = existing.tree
			} else if !ok {
				next := NewTree()
				cur.Set(part, TreeValue(next))
				cur = next
			} else {
				return
			}
			node = sub
			continue
		}

		if last {
			if _, exists := cur.Get(part); !exists {
				cur.Set(part, fromAny(child))
			}
		}
		return
	}
}

// fromAny converts a decoded TOML value into a Value. Inline tables reached
// through this path (table values inside arrays) sort their keys, since the
// decoder exposes them as plain maps; the ordered-path through insertKey only
// applies to real document tables.
func fromAny(v any) Value {
	switch x := v.(type) {
	case string:
		return StringValue(x)
	case int64:
		return IntValue(x)
	case int:
		return IntValue(int64(x))
	case float64:
		return FloatValue(x)
	case bool:
		return BoolValue(x)
	case time.Time:
		return StringValue(x.Format(time.RFC3339))
	case []map[string]any:
		list := make([]Value, 0, len(x))
		for _, item := range x {
			list = append(list, fromAny(item))
		}
		return ListValue(list)
	case []any:
		list := make([]Value, 0, len(x))
		for _, item := range x {
			list = append(list, fromAny(item))
		}
		return ListValue(list)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sub := NewTree()
		for _, k := range keys {
			sub.Set(k, fromAny(x[k]))
		}
		return TreeValue(sub)
	}
	return StringValue(fmt.Sprintf("%v", v))
}
