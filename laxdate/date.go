// Package laxdate converts between a fixed six-field date/time record and
// the YYYY-MM-DDTHH:mm:ss text form found in JSON string values.
//
// Parsing is permissive about the time half and strict about the date half.
// No calendar checks are made: month 13 or day 0 are stored as given.
package laxdate

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a date/time record. Fields hold the parsed numbers unchanged.
type Date struct {
	Year   uint16
	Month  uint8 // 1 is January
	Day    uint8
	Hour   uint8 // 0-23 by convention, not enforced
	Minute uint8
	Second uint8
}

// Parse reads text of the form YYYY-MM-DD[THH[:mm[:ss]]].
//
// Year, month and day are required and must fit their field types. Each time
// component is optional; a missing or unparsable one is taken as 0.
func Parse(s string) (Date, bool) {
	datePart, timePart, _ := strings.Cut(s, "T")
	// Anything after a second 'T' is ignored.
	timePart, _, _ = strings.Cut(timePart, "T")

	fields := strings.Split(datePart, "-")
	year, err := parseUnsigned(field(fields, 0), 16)
	if err != nil {
		return Date{}, false
	}
	month, err := parseUnsigned(field(fields, 1), 8)
	if err != nil {
		return Date{}, false
	}
	day, err := parseUnsigned(field(fields, 2), 8)
	if err != nil {
		return Date{}, false
	}

	clock := strings.Split(timePart, ":")
	return Date{
		Year:   uint16(year),
		Month:  uint8(month),
		Day:    uint8(day),
		Hour:   lenientUint8(field(clock, 0)),
		Minute: lenientUint8(field(clock, 1)),
		Second: lenientUint8(field(clock, 2)),
	}, true
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// parseUnsigned parses base-10 digits with an optional leading '+'.
func parseUnsigned(s string, bits int) (uint64, error) {
	if len(s) > 1 && s[0] == '+' {
		s = s[1:]
	}
	return strconv.ParseUint(s, 10, bits)
}

func lenientUint8(s string) uint8 {
	v, err := parseUnsigned(s, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

// String formats d as YYYY-MM-DDTHH:mm:ss. Each field is first reduced
// modulo its width (year mod 10000, the rest mod 100).
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		d.Year%10000, d.Month%100, d.Day%100,
		d.Hour%100, d.Minute%100, d.Second%100)
}

// FromTime builds a Date from t in UTC. Sub-second precision is dropped.
func FromTime(t time.Time) Date {
	t = t.UTC()
	return Date{
		Year:   uint16(t.Year()),
		Month:  uint8(t.Month()),
		Day:    uint8(t.Day()),
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
		Second: uint8(t.Second()),
	}
}
