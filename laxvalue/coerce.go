package laxvalue

import (
	"math"
	"strconv"

	"github.com/lattice-substrate/json-lax/laxdate"
	"github.com/lattice-substrate/json-lax/laxfloat"
)

// The As* accessors perform JavaScript-like loose conversions. A
// single-element array stands in for its element; null and objects convert
// to nothing except an array.

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// AsBool converts v to a boolean. Numbers are true when non-zero; strings
// are true unless empty or exactly "0".
func (v Value) AsBool() (bool, bool) {
	switch v.Kind {
	case KindBool:
		return v.Bool, true
	case KindNumber:
		return v.Num != 0, true
	case KindString:
		return v.Str != "" && v.Str != "0", true
	case KindArray:
		if len(v.Elems) == 1 {
			return v.Elems[0].AsBool()
		}
	}
	return false, false
}

// AsNumber converts v to a float64. Booleans become 1 or 0; strings must be
// number text.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindNumber:
		return v.Num, true
	case KindString:
		return laxfloat.Parse(v.Str)
	case KindArray:
		if len(v.Elems) == 1 {
			return v.Elems[0].AsNumber()
		}
	}
	return 0, false
}

// AsString converts v to text. Numbers use laxfloat.Format.
func (v Value) AsString() (string, bool) {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true", true
		}
		return "false", true
	case KindNumber:
		return laxfloat.Format(v.Num), true
	case KindString:
		return v.Str, true
	case KindArray:
		if len(v.Elems) == 1 {
			return v.Elems[0].AsString()
		}
	}
	return "", false
}

// AsArray converts v to a list and always succeeds. Scalars become a
// one-element list and objects yield their values in map iteration order.
// The result is a deep copy.
func (v Value) AsArray() []Value {
	switch v.Kind {
	case KindArray:
		return v.Clone().Elems
	case KindObject:
		out := make([]Value, 0, len(v.Members))
		for _, mv := range v.Members {
			out = append(out, mv.Clone())
		}
		return out
	default:
		return []Value{v}
	}
}

// AsObject returns a deep copy of an object's members.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return cloneMembers(v.Members), true
}

// AsInteger converts v to an unsigned 64-bit integer. The string form is
// tried first; failing that, the number form is accepted only when it
// converts to an integer and back without loss.
func (v Value) AsInteger() (uint64, bool) {
	if s, ok := v.AsString(); ok {
		if u, err := parseUnsigned(s); err == nil {
			return u, true
		}
	}
	f, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	u := saturatingUint64(f)
	if float64(u) != f {
		return 0, false
	}
	return u, true
}

// AsDate parses a string value with laxdate.Parse. Other kinds fail.
func (v Value) AsDate() (laxdate.Date, bool) {
	if v.Kind != KindString {
		return laxdate.Date{}, false
	}
	return laxdate.Parse(v.Str)
}

// parseUnsigned parses base-10 digits with an optional leading '+'.
func parseUnsigned(s string) (uint64, error) {
	if len(s) > 1 && s[0] == '+' {
		s = s[1:]
	}
	return strconv.ParseUint(s, 10, 64)
}

// saturatingUint64 truncates f toward zero, clamping to [0, MaxUint64]; NaN
// maps to 0.
func saturatingUint64(f float64) uint64 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 1<<64:
		return math.MaxUint64
	default:
		return uint64(f)
	}
}
