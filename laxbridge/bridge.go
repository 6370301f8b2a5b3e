// Package laxbridge converts between json-lax values and ordinary Go values
// using github.com/goccy/go-json for the Go side.
//
// FromAny and ToAny work on the generic shapes produced by decoding JSON
// into an interface{}: nil, bool, float64, string, []any and
// map[string]any. Marshal and Unmarshal go through go-json so that struct
// tags, custom marshalers and the other encoding rules apply.
package laxbridge

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/lattice-substrate/json-lax/laxemit"
	"github.com/lattice-substrate/json-lax/laxerr"
	"github.com/lattice-substrate/json-lax/laxfloat"
	"github.com/lattice-substrate/json-lax/laxvalue"
)

// FromAny converts a generic Go value to a Value. Besides the JSON decoding
// shapes it accepts every Go integer and float kind, json.Number and
// laxvalue.Value itself. Anything else fails with UNSUPPORTED_TYPE.
// Nesting deeper than laxvalue.DefaultMaxDepth, which includes a map or
// slice that contains itself, fails with BOUND_EXCEEDED.
func FromAny(v any) (laxvalue.Value, error) {
	return fromAny(v, 0)
}

func fromAny(v any, depth int) (laxvalue.Value, error) {
	switch v.(type) {
	case []any, map[string]any:
		depth++
		if depth > laxvalue.DefaultMaxDepth {
			return laxvalue.Value{}, laxerr.Newf(laxerr.BoundExceeded, "nesting exceeds maximum depth %d", laxvalue.DefaultMaxDepth)
		}
	}

	switch x := v.(type) {
	case nil:
		return laxvalue.Null(), nil
	case bool:
		return laxvalue.Boolean(x), nil
	case float64:
		return laxvalue.Number(x), nil
	case float32:
		return laxvalue.Number(float64(x)), nil
	case int:
		return laxvalue.Number(float64(x)), nil
	case int8:
		return laxvalue.Number(float64(x)), nil
	case int16:
		return laxvalue.Number(float64(x)), nil
	case int32:
		return laxvalue.Number(float64(x)), nil
	case int64:
		return laxvalue.Number(float64(x)), nil
	case uint:
		return laxvalue.Number(float64(x)), nil
	case uint8:
		return laxvalue.Number(float64(x)), nil
	case uint16:
		return laxvalue.Number(float64(x)), nil
	case uint32:
		return laxvalue.Number(float64(x)), nil
	case uint64:
		return laxvalue.Number(float64(x)), nil
	case json.Number:
		f, ok := laxfloat.Parse(string(x))
		if !ok {
			return laxvalue.Value{}, laxerr.Newf(laxerr.InvalidInput, "invalid number %q", string(x))
		}
		return laxvalue.Number(f), nil
	case string:
		return laxvalue.String(x), nil
	case laxvalue.Value:
		return x.Clone(), nil
	case *laxvalue.Value:
		if x == nil {
			return laxvalue.Null(), nil
		}
		return x.Clone(), nil
	case []any:
		elems := make([]laxvalue.Value, 0, len(x))
		for i, e := range x {
			ev, err := fromAny(e, depth)
			if err != nil {
				return laxvalue.Value{}, wrapElem(err, "array[%d]", i)
			}
			elems = append(elems, ev)
		}
		return laxvalue.Array(elems...), nil
	case map[string]any:
		members := make([]laxvalue.Member, 0, len(x))
		for k, e := range x {
			ev, err := fromAny(e, depth)
			if err != nil {
				return laxvalue.Value{}, wrapElem(err, "object[%q]", k)
			}
			members = append(members, laxvalue.Member{Key: k, Value: ev})
		}
		return laxvalue.BuildObject(members...), nil
	default:
		return laxvalue.Value{}, laxerr.Newf(laxerr.UnsupportedType, "unsupported Go type: %T", v)
	}
}

// wrapElem prefixes err with the element position. Depth failures pass
// through unchanged so the message does not repeat once per level.
func wrapElem(err error, format string, arg any) error {
	if laxerr.ClassOf(err) == laxerr.BoundExceeded {
		return err
	}
	return fmt.Errorf(format+": %w", arg, err)
}

// ToAny converts v to the generic shapes FromAny accepts. It always
// succeeds; NaN and infinities stay as float64 values.
func ToAny(v laxvalue.Value) any {
	switch v.Kind {
	case laxvalue.KindBool:
		return v.Bool
	case laxvalue.KindNumber:
		return v.Num
	case laxvalue.KindString:
		return v.Str
	case laxvalue.KindArray:
		out := make([]any, len(v.Elems))
		for i := range v.Elems {
			out[i] = ToAny(v.Elems[i])
		}
		return out
	case laxvalue.KindObject:
		out := make(map[string]any, len(v.Members))
		for k, mv := range v.Members {
			out[k] = ToAny(mv)
		}
		return out
	default:
		return nil
	}
}

// Marshal encodes x with go-json and converts the result to a Value.
func Marshal(x any) (laxvalue.Value, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return laxvalue.Value{}, laxerr.Wrap(laxerr.UnsupportedType, fmt.Sprintf("encode %T", x), err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return laxvalue.Value{}, laxerr.Wrap(laxerr.InternalError, "decode encoder output", err)
	}
	return FromAny(generic)
}

// Unmarshal stores v into dst, which must be a non-nil pointer, using
// go-json decoding rules. Values holding NaN or infinities fail with
// NON_FINITE_NUMBER unless dst is a *any.
func Unmarshal(v laxvalue.Value, dst any) error {
	if p, ok := dst.(*any); ok && p != nil {
		*p = ToAny(v)
		return nil
	}
	data, err := laxemit.Canonical(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return laxerr.Wrap(laxerr.InvalidInput, fmt.Sprintf("decode into %T", dst), err)
	}
	return nil
}

// Doc embeds a Value in Go structs handled by go-json or encoding/json.
// It encodes as canonical JSON and decodes with the json-lax parser.
type Doc struct {
	laxvalue.Value
}

// MarshalJSON implements json.Marshaler.
func (d Doc) MarshalJSON() ([]byte, error) {
	return laxemit.Canonical(d.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Doc) UnmarshalJSON(data []byte) error {
	v, ok := laxvalue.Parse(data)
	if !ok {
		return laxerr.New(laxerr.InvalidInput, "malformed JSON value")
	}
	d.Value = *v
	return nil
}
