package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// numericPrecision is the fixed rounding rule for numeric cells: values
// are rounded to 6 decimal places and rendered without trailing zeros or
// thousands separators.
const numericPrecision = 1e6

// dateLayouts are the source layouts recognized for date/time cells.
// excelize renders unstyled date cells with its default m-d-yy formats;
// styled cells commonly carry one of the slash/dash variants.
var dateLayouts = []struct {
	layout  string
	hasTime bool
}{
	{"1-2-06 15:04", true},
	{"01-02-06 15:04", true},
	{"2006/01/02 15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"1/2/06 15:04", true},
	{"1-2-06", false},
	{"01-02-06", false},
	{"1/2/06", false},
	{"01/02/2006", false},
	{"2006/01/02", false},
}

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02 15:04:05"
)

// CanonicalCell rewrites a formatted cell value into its canonical
// textual form: numeric values get a fixed decimal rendering, recognized
// date/time values get an ISO-8601-like rendering, and everything else
// passes through unchanged.
func CanonicalCell(s string) string {
	if s == "" {
		return s
	}
	if out, ok := canonicalNumber(s); ok {
		return out
	}
	if out, ok := canonicalDate(s); ok {
		return out
	}
	return s
}

// canonicalNumber re-renders numeric strings with separators stripped and
// decimals rounded to the fixed precision. Strings with leading zeros
// (identifiers like "007") are left alone.
func canonicalNumber(s string) (string, bool) {
	candidate := s
	if strings.Contains(candidate, ",") {
		stripped := strings.ReplaceAll(candidate, ",", "")
		if _, err := strconv.ParseFloat(stripped, 64); err != nil {
			return "", false
		}
		candidate = stripped
	}

	if hasLeadingZero(candidate) {
		return "", false
	}

	if _, err := strconv.ParseInt(candidate, 10, 64); err == nil {
		return candidate, true
	} else if digitsOnly(candidate) {
		// Overflows int64; reformatting through float64 would silently
		// lose digits.
		return "", false
	}

	f, err := strconv.ParseFloat(candidate, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	rounded := math.Round(f*numericPrecision) / numericPrecision
	return strconv.FormatFloat(rounded, 'f', -1, 64), true
}

// digitsOnly reports whether s is an optionally signed run of digits.
func digitsOnly(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hasLeadingZero reports whether s looks like a zero-padded identifier
// rather than a number ("007", "-012").
func hasLeadingZero(s string) bool {
	v := strings.TrimPrefix(s, "-")
	return len(v) > 1 && v[0] == '0' && v[1] != '.'
}

// canonicalDate re-renders recognized date/time strings as "2006-01-02"
// or "2006-01-02 15:04:05".
func canonicalDate(s string) (string, bool) {
	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, s)
		if err != nil {
			continue
		}
		if dl.hasTime && !isMidnight(t) {
			return t.Format(isoDateTime), true
		}
		return t.Format(isoDate), true
	}
	return "", false
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}
