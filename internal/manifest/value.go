package manifest

import (
	"fmt"
	"strconv"
)

// Kind enumerates the variants a manifest value can take.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindTree:
		return "table"
	}
	return "unknown"
}

// Value is a tagged variant over the scalar, list, and table shapes a manifest
// document can hold. Fields loosely typed in the document (a port written as
// string or integer, for example) are normalized at the boundary through the
// As* coercions, which fail with ErrUnexpectedType instead of guessing.
type Value struct {
	kind Kind
	str  string
	num  int64
	fl   float64
	b    bool
	list []Value
	tree *Tree
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func IntValue(n int64) Value     { return Value{kind: KindInt, num: n} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, fl: f} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }
func ListValue(vs []Value) Value { return Value{kind: KindList, list: vs} }
func TreeValue(t *Tree) Value    { return Value{kind: KindTree, tree: t} }

// Kind reports the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// AsString coerces the value to a string. Integers, floats, and booleans
// format themselves; lists and tables fail.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindInt:
		return strconv.FormatInt(v.num, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.fl, 'f', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	}
	return "", fmt.Errorf("%w: want string, have %s", ErrUnexpectedType, v.kind)
}

// AsInt coerces the value to an integer, accepting numeric strings.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.num, nil
	case KindString:
		n, err := strconv.ParseInt(v.str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrUnexpectedType, v.str)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: want integer, have %s", ErrUnexpectedType, v.kind)
}

// AsBool coerces the value to a boolean.
func (v Value) AsBool() (bool, error) {
	if v.kind == KindBool {
		return v.b, nil
	}
	return false, fmt.Errorf("%w: want boolean, have %s", ErrUnexpectedType, v.kind)
}

// AsList returns the list elements.
func (v Value) AsList() ([]Value, error) {
	if v.kind == KindList {
		return v.list, nil
	}
	return nil, fmt.Errorf("%w: want list, have %s", ErrUnexpectedType, v.kind)
}

// AsTree returns the nested table.
func (v Value) AsTree() (*Tree, error) {
	if v.kind == KindTree {
		return v.tree, nil
	}
	return nil, fmt.Errorf("%w: want table, have %s", ErrUnexpectedType, v.kind)
}
