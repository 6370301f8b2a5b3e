// Package laxfloat converts between number text and IEEE 754 doubles for
// json-lax.
//
// Three conversions are provided:
//   - Parse accepts decimal text (optional sign, fraction and exponent) and
//     the words inf, infinity and nan in any case. Hex floats, underscores
//     and surrounding whitespace are rejected. Out-of-range magnitudes
//     saturate to ±Inf or 0 instead of failing.
//   - Format is the default rendering: shortest round-trip digits, never in
//     exponent form, with NaN, inf and -inf for the non-finite values.
//   - FormatECMA is the ECMAScript Number::toString rendering used by
//     canonical (RFC 8785) output; it rejects non-finite values.
package laxfloat

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotFinite is returned by FormatECMA for NaN and ±Inf.
var ErrNotFinite = errors.New("laxfloat: value is not finite (NaN or Infinity)")

// Parse converts s to a float64. It reports false when s is not number
// text.
func Parse(s string) (float64, bool) {
	body := s
	neg := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}

	switch strings.ToLower(body) {
	case "inf", "infinity":
		if neg {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	case "nan":
		return math.NaN(), true
	}

	if !isDecimal(body) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// isDecimal reports whether s matches digits[.digits][(e|E)[+-]digits] with
// at least one digit in the mantissa (either side of the point).
func isDecimal(s string) bool {
	i := 0
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits+fracDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Format renders f in its default textual form.
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatECMA formats f exactly as ECMAScript String(number) does for finite
// values. Negative zero renders as "0".
func FormatECMA(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrNotFinite
	}
	if f == 0 {
		return "0", nil
	}

	var b strings.Builder
	if f < 0 {
		b.WriteByte('-')
		f = -f
	}

	// Shortest round-trip digits d1.d2...dk and decimal exponent; n is the
	// ECMA-262 position of the decimal point relative to the digits.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expText, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, err := strconv.Atoi(expText)
	if err != nil {
		return "", err
	}
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteByte(digits[0])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
		e := n - 1
		if e < 0 {
			e = -e
		}
		b.WriteString(strconv.Itoa(e))
	}
	return b.String(), nil
}
