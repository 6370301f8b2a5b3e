package laxfloat

import (
	"math"
	"strconv"
	"testing"
)

func TestParseAccepts(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"-1.5", -1.5},
		{"+2", 2},
		{"1.", 1},
		{".5", 0.5},
		{"1e3", 1000},
		{"1E-2", 0.01},
		{"2.5e+1", 25},
		{"1e400", math.Inf(1)},
		{"-1e400", math.Inf(-1)},
		{"1e-400", 0},
		{"Infinity", math.Inf(1)},
		{"-inf", math.Inf(-1)},
	}
	for _, tc := range cases {
		got, ok := Parse(tc.in)
		if !ok {
			t.Fatalf("Parse(%q) failed", tc.in)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if f, ok := Parse("NaN"); !ok || !math.IsNaN(f) {
		t.Fatalf("Parse(NaN) = %v %v", f, ok)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "-", ".", "e5", "1e", "1e+", "0x10", "1_000", " 1", "1 ", "abc", "1.2.3", "--1", "tru"} {
		if f, ok := Parse(in); ok {
			t.Fatalf("Parse(%q) = %v, want failure", in, f)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{-0.5, "-0.5"},
		{1e21, "1000000000000000000000"},
		{1e-7, "0.0000001"},
		{0.1, "0.1"},
		{math.Copysign(0, -1), "-0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for i := uint64(1); i < 5000; i += 97 {
		v := math.Float64frombits(i * 0x9e3779b97f4a7c15)
		if math.IsNaN(v) {
			continue
		}
		got, ok := Parse(Format(v))
		if !ok || got != v {
			t.Fatalf("round trip bits=%016x: got %v ok=%v", math.Float64bits(v), got, ok)
		}
	}
}

func TestFormatECMAVectors(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{-1.5, "-1.5"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e21, "1.5e+21"},
		{1e-6, "0.000001"},
		{1e-7, "1e-7"},
		{1.25e-7, "1.25e-7"},
		{123.456, "123.456"},
		{5e-324, "5e-324"},
		{math.MaxFloat64, "1.7976931348623157e+308"},
		{math.Copysign(0, -1), "0"},
		{9007199254740993, "9007199254740992"},
	}
	for _, tc := range cases {
		got, err := FormatECMA(tc.in)
		if err != nil {
			t.Fatalf("FormatECMA(%v): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("FormatECMA(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatECMARejectsNonFinite(t *testing.T) {
	for _, c := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FormatECMA(c); err != ErrNotFinite {
			t.Fatalf("FormatECMA(%v) err = %v", c, err)
		}
	}
}

func TestFormatECMARoundTripProperty(t *testing.T) {
	for i := uint64(1); i < 5000; i += 97 {
		v := math.Float64frombits(i * 0x9e3779b97f4a7c15)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		f1, err := FormatECMA(v)
		if err != nil {
			t.Fatalf("format bits=%016x: %v", math.Float64bits(v), err)
		}
		parsed, err := strconv.ParseFloat(f1, 64)
		if err != nil {
			t.Fatalf("parse bits=%016x text=%q: %v", math.Float64bits(v), f1, err)
		}
		if parsed != v {
			t.Fatalf("round-trip mismatch bits=%016x: %s", math.Float64bits(v), f1)
		}
	}
}
