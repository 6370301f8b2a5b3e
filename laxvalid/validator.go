// Package laxvalid checks the shape of a json-lax value tree against a tree
// of composable predicate nodes.
//
// Scalar nodes coerce the value with the matching laxvalue accessor and hand
// the result to a predicate; a value that does not coerce fails. A nil
// predicate accepts every value that coerces. Validation never mutates the
// value it inspects.
//
// Validate recurses along the validator tree, not the value: elements below
// the deepest Array or Object node are never visited, so a value of any depth
// is checked in stack space bounded by the validator's own nesting.
// laxschema caps that nesting for schema documents.
package laxvalid

import (
	"github.com/lattice-substrate/json-lax/laxdate"
	"github.com/lattice-substrate/json-lax/laxvalue"
)

// Validator reports whether a value has the expected shape.
type Validator interface {
	Validate(v laxvalue.Value) bool
}

// RubberStamp accepts every value.
type RubberStamp struct{}

func (RubberStamp) Validate(laxvalue.Value) bool { return true }

// Null accepts only null.
type Null struct{}

func (Null) Validate(v laxvalue.Value) bool { return v.IsNull() }

// Boolean accepts values that coerce to a boolean satisfying the predicate.
type Boolean func(bool) bool

func (f Boolean) Validate(v laxvalue.Value) bool {
	b, ok := v.AsBool()
	return ok && (f == nil || f(b))
}

// Number accepts values that coerce to a number satisfying the predicate.
type Number func(float64) bool

func (f Number) Validate(v laxvalue.Value) bool {
	n, ok := v.AsNumber()
	return ok && (f == nil || f(n))
}

// String accepts values that coerce to a string satisfying the predicate.
type String func(string) bool

func (f String) Validate(v laxvalue.Value) bool {
	s, ok := v.AsString()
	return ok && (f == nil || f(s))
}

// Integer accepts values that coerce to an unsigned integer satisfying the
// predicate.
type Integer func(uint64) bool

func (f Integer) Validate(v laxvalue.Value) bool {
	u, ok := v.AsInteger()
	return ok && (f == nil || f(u))
}

// DateTime accepts string values that parse as a date satisfying the
// predicate.
type DateTime func(laxdate.Date) bool

func (f DateTime) Validate(v laxvalue.Value) bool {
	d, ok := v.AsDate()
	return ok && (f == nil || f(d))
}

// Array applies Items to every element of the value's array form. Scalars
// are checked as a one-element list and objects by their member values. An
// empty array passes. A nil Items accepts every element.
type Array struct {
	Items Validator
}

func (a Array) Validate(v laxvalue.Value) bool {
	if a.Items == nil {
		return true
	}
	for _, elem := range v.AsArray() {
		if !a.Items.Validate(elem) {
			return false
		}
	}
	return true
}

// Field pairs an object key with the validator for its value.
type Field struct {
	Key       string
	Validator Validator
}

// Object accepts objects that contain every listed key with a value its
// validator accepts. Keys not listed are ignored. When a key is listed more
// than once, only its last entry applies.
type Object []Field

func (o Object) Validate(v laxvalue.Value) bool {
	if v.Kind != laxvalue.KindObject {
		return false
	}
	seen := make(map[string]struct{}, len(o))
	for i := len(o) - 1; i >= 0; i-- {
		f := o[i]
		if _, dup := seen[f.Key]; dup {
			continue
		}
		seen[f.Key] = struct{}{}

		mv, ok := v.Members[f.Key]
		if !ok {
			return false
		}
		if f.Validator != nil && !f.Validator.Validate(mv) {
			return false
		}
	}
	return true
}

// Or accepts a value when any member does. An empty Or accepts nothing.
type Or []Validator

func (o Or) Validate(v laxvalue.Value) bool {
	for _, alt := range o {
		if alt != nil && alt.Validate(v) {
			return true
		}
	}
	return false
}
