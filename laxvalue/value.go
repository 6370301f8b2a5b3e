// Package laxvalue provides the json-lax value tree, the parser that builds
// it from a token queue, and loose JavaScript-like coercions over it.
//
// A Value is a tagged union over null, boolean, number, string, array and
// object. Objects are Go maps, so their iteration order is unspecified and
// changes between runs; callers that need a stable order use
// laxemit.Canonical.
//
// Nothing in this package reports why an operation failed. Parsing and
// coercion return a presence flag and nothing else.
//
// Parse bounds nesting with Options.MaxDepth. Trees assembled with the
// constructors are not checked: Clone, Equal and the laxemit renderers
// recurse to the full depth of whatever tree they are given.
// laxbridge.FromAny applies DefaultMaxDepth to Go values.
package laxvalue

import (
	"fmt"
	"math"
)

// Kind identifies the type of a JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value represents a JSON value. Only the field matching Kind is meaningful.
type Value struct {
	Kind    Kind
	Bool    bool             // For KindBool
	Num     float64          // For KindNumber
	Str     string           // For KindString: raw bytes, valid UTF-8 when parsed
	Elems   []Value          // For KindArray: ordered elements
	Members map[string]Value // For KindObject: unique keys, unordered
}

// Member is a key-value pair used to build objects.
type Member struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number returns a number value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Array returns an array value holding elems in order.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Elems: elems}
}

// BuildObject returns an object value from key-value pairs. A key that
// appears more than once keeps its last value; unlike Parse, duplicates are
// not an error here.
func BuildObject(pairs ...Member) Value {
	m := make(map[string]Value, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return Value{Kind: KindObject, Members: m}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindArray:
		elems := make([]Value, len(v.Elems))
		for i := range v.Elems {
			elems[i] = v.Elems[i].Clone()
		}
		return Value{Kind: KindArray, Elems: elems}
	case KindObject:
		return Value{Kind: KindObject, Members: cloneMembers(v.Members)}
	default:
		return v
	}
}

func cloneMembers(m map[string]Value) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, mv := range m {
		out[k] = mv.Clone()
	}
	return out
}

// Equal reports whether a and b are structurally equal. Object member order
// is irrelevant and NaN equals NaN.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num == b.Num || (math.IsNaN(a.Num) && math.IsNaN(b.Num))
	case KindString:
		return a.Str == b.Str
	case KindArray:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Members) != len(b.Members) {
			return false
		}
		for k, av := range a.Members {
			bv, ok := b.Members[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
