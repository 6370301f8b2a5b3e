// Package laxemit renders json-lax value trees as JSON text.
//
// Stringify is the everyday form: compact, numbers in plain decimal, and
// object members in whatever order the underlying map yields them, which
// differs from run to run. Canonical is the deterministic form: RFC 8785
// (JCS) output with UTF-16 ordered keys and ECMAScript number text.
package laxemit

import (
	"fmt"
	"sort"
	"unicode/utf16"

	"github.com/lattice-substrate/json-lax/laxerr"
	"github.com/lattice-substrate/json-lax/laxfloat"
	"github.com/lattice-substrate/json-lax/laxvalue"
)

// Stringify renders v as compact JSON text. It always succeeds.
func Stringify(v laxvalue.Value) string {
	return string(Append(nil, v))
}

// Append appends the Stringify rendering of v to buf.
func Append(buf []byte, v laxvalue.Value) []byte {
	switch v.Kind {
	case laxvalue.KindNull:
		return append(buf, "null"...)
	case laxvalue.KindBool:
		if v.Bool {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case laxvalue.KindNumber:
		return append(buf, laxfloat.Format(v.Num)...)
	case laxvalue.KindString:
		return appendString(buf, v.Str)
	case laxvalue.KindArray:
		buf = append(buf, '[')
		for i := range v.Elems {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = Append(buf, v.Elems[i])
		}
		return append(buf, ']')
	case laxvalue.KindObject:
		buf = append(buf, '{')
		first := true
		for k, mv := range v.Members {
			if !first {
				buf = append(buf, ',')
			}
			first = false
			buf = appendString(buf, k)
			buf = append(buf, ':', ' ')
			buf = Append(buf, mv)
		}
		return append(buf, '}')
	default:
		return append(buf, "null"...)
	}
}

// appendString quotes s, escaping exactly the quote, backslash, solidus and
// the five named control characters. All other bytes, including other
// control bytes, are copied as they are.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		switch b := s[i]; b {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '/':
			buf = append(buf, '\\', '/')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, b)
		}
	}
	return append(buf, '"')
}

// Canonical produces the RFC 8785 JCS canonical byte sequence for v. It
// fails only for NaN and infinite numbers, which JSON cannot represent.
func Canonical(v laxvalue.Value) ([]byte, error) {
	return appendCanonical(nil, v)
}

func appendCanonical(buf []byte, v laxvalue.Value) ([]byte, error) {
	switch v.Kind {
	case laxvalue.KindNull:
		return append(buf, "null"...), nil
	case laxvalue.KindBool:
		if v.Bool {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case laxvalue.KindNumber:
		s, err := laxfloat.FormatECMA(v.Num)
		if err != nil {
			return nil, laxerr.Wrap(laxerr.NonFiniteNumber, fmt.Sprintf("cannot encode %s", laxfloat.Format(v.Num)), err)
		}
		return append(buf, s...), nil
	case laxvalue.KindString:
		return appendCanonicalString(buf, v.Str), nil
	case laxvalue.KindArray:
		return appendCanonicalArray(buf, v)
	case laxvalue.KindObject:
		return appendCanonicalObject(buf, v)
	default:
		return nil, laxerr.Newf(laxerr.InternalError, "unknown value kind %d", v.Kind)
	}
}

// appendCanonicalString applies JCS string escaping rules (RFC 8785 §3.2.2.2):
//   - " -> \"
//   - \ -> \\
//   - U+0008 -> \b, U+0009 -> \t, U+000A -> \n, U+000C -> \f, U+000D -> \r
//   - Other control chars U+0000-U+001F -> \u00xx (lowercase hex)
//   - Everything else: raw bytes, no escaping
func appendCanonicalString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '"':
			buf = append(buf, '\\', '"')
		case b == '\\':
			buf = append(buf, '\\', '\\')
		case b == '\b':
			buf = append(buf, '\\', 'b')
		case b == '\t':
			buf = append(buf, '\\', 't')
		case b == '\n':
			buf = append(buf, '\\', 'n')
		case b == '\f':
			buf = append(buf, '\\', 'f')
		case b == '\r':
			buf = append(buf, '\\', 'r')
		case b < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigit(b>>4), hexDigit(b&0x0F))
		default:
			buf = append(buf, b)
		}
	}
	return append(buf, '"')
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}

func appendCanonicalArray(buf []byte, v laxvalue.Value) ([]byte, error) {
	buf = append(buf, '[')
	for i := range v.Elems {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendCanonical(buf, v.Elems[i])
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendCanonicalObject(buf []byte, v laxvalue.Value) ([]byte, error) {
	keys := make([]string, 0, len(v.Members))
	for k := range v.Members {
		keys = append(keys, k)
	}
	// RFC 8785 §3.2.3: order by UTF-16 code units.
	sort.Slice(keys, func(i, j int) bool {
		return compareUTF16(keys[i], keys[j]) < 0
	})

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendCanonicalString(buf, k)
		buf = append(buf, ':')
		var err error
		buf, err = appendCanonical(buf, v.Members[k])
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

// compareUTF16 compares two strings by their UTF-16 code-unit arrays.
//
// For BMP-only strings this matches byte order. It diverges for
// supplementary-plane characters, whose surrogate code units sort below
// U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	n := len(ua)
	if len(ub) < n {
		n = len(ub)
	}
	for i := 0; i < n; i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	}
	return 0
}
