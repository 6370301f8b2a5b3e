package laxdate_test

import (
	"testing"
	"time"

	"github.com/lattice-substrate/json-lax/laxdate"
)

func TestParseDateOnly(t *testing.T) {
	d, ok := laxdate.Parse("2023-06-06")
	if !ok {
		t.Fatal("parse failed")
	}
	want := laxdate.Date{Year: 2023, Month: 6, Day: 6}
	if d != want {
		t.Fatalf("got %+v want %+v", d, want)
	}
	if got := d.String(); got != "2023-06-06T00:00:00" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseFull(t *testing.T) {
	d, ok := laxdate.Parse("1999-12-31T23:59:58")
	if !ok {
		t.Fatal("parse failed")
	}
	want := laxdate.Date{Year: 1999, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 58}
	if d != want {
		t.Fatalf("got %+v want %+v", d, want)
	}
	if got := d.String(); got != "1999-12-31T23:59:58" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseLenientTime(t *testing.T) {
	cases := []struct {
		in   string
		want laxdate.Date
	}{
		{"2020-01-02T", laxdate.Date{Year: 2020, Month: 1, Day: 2}},
		{"2020-01-02T07", laxdate.Date{Year: 2020, Month: 1, Day: 2, Hour: 7}},
		{"2020-01-02T07:xx:09", laxdate.Date{Year: 2020, Month: 1, Day: 2, Hour: 7, Second: 9}},
		{"2020-01-02T07:08:09.123Z", laxdate.Date{Year: 2020, Month: 1, Day: 2, Hour: 7, Minute: 8}},
		{"2020-01-02T300:08", laxdate.Date{Year: 2020, Month: 1, Day: 2, Minute: 8}},
		{"2020-01-02T01:02:03T04", laxdate.Date{Year: 2020, Month: 1, Day: 2, Hour: 1, Minute: 2, Second: 3}},
		{"2020-01-02-99", laxdate.Date{Year: 2020, Month: 1, Day: 2}},
		{"2020-13-00", laxdate.Date{Year: 2020, Month: 13}},
		{"+2020-01-02", laxdate.Date{Year: 2020, Month: 1, Day: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := laxdate.Parse(tc.in)
			if !ok {
				t.Fatal("parse failed")
			}
			if got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestParseRejectsBadDate(t *testing.T) {
	for _, in := range []string{"", "2020", "2020-01", "2020-01-x", "70000-01-01", "2020-256-01", "-2020-01-01", "2020/01/01", "T12:00:00"} {
		if d, ok := laxdate.Parse(in); ok {
			t.Fatalf("Parse(%q) = %+v, want failure", in, d)
		}
	}
}

func TestStringWrapsOutOfRangeFields(t *testing.T) {
	d := laxdate.Date{Year: 12345, Month: 255, Day: 100, Hour: 7, Minute: 199, Second: 5}
	if got := d.String(); got != "2345-55-00T07:99:05" {
		t.Fatalf("String() = %q", got)
	}
	if got := (laxdate.Date{Year: 7}).String(); got != "0007-00-00T00:00:00" {
		t.Fatalf("String() = %q", got)
	}
}

func TestFromTime(t *testing.T) {
	tm := time.Date(2024, time.February, 29, 13, 14, 15, 999, time.FixedZone("x", 3600))
	d := laxdate.FromTime(tm)
	if got := d.String(); got != "2024-02-29T12:14:15" {
		t.Fatalf("String() = %q", got)
	}
}
