// Package validate provides the common date-parse ladder, mask
// normalization, and enrichment warning checks shared across parsers.
package validate

import (
	"strconv"
	"strings"
	"time"
)

// layouts is the date-parse ladder, tried after `/` and `.` have been
// normalized to `-`. Go's reference-time layouts corresponding to the
// strptime-style formats seen across bank statements and alerts.
var layouts = []string{
	"02-01-2006", // %d-%m-%Y
	"02-01-06",   // %d-%m-%y
	"02-Jan-2006",// %d-%b-%Y
	"02-Jan-06",  // %d-%b-%y
	"2006-01-02", // %Y-%m-%d
	"02Jan06",    // %d%b%y
	"02Jan2006",  // %d%b%Y
	"02-January-2006", // %d-%B-%Y
}

// ParseDate tries every layout in the ladder in order, after normalizing `/`
// and `.` to `-`. If every layout fails, it falls back to dateHint (if
// non-zero) and finally to now. The bool return reports whether an in-text
// date was actually recognized (false means the hint/now fallback was used).
func ParseDate(raw string, dateHint time.Time, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback(dateHint, now), false
	}
	normalized := strings.NewReplacer("/", "-", ".", "-").Replace(s)

	for _, layout := range layouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return fixTwoDigitYear(t, layout), true
		}
	}
	return fallback(dateHint, now), false
}

// fixTwoDigitYear maps a two-digit year to 2000+yy. time.Parse pivots
// two-digit years at 69 ([69,99] -> 1969-1999), so a date parsed with a
// layout that has no four-digit year and lands before 2000 is moved forward
// one century.
func fixTwoDigitYear(t time.Time, layout string) time.Time {
	if !strings.Contains(layout, "2006") && t.Year() < 2000 {
		return t.AddDate(100, 0, 0)
	}
	return t
}

func fallback(dateHint time.Time, now time.Time) time.Time {
	if !dateHint.IsZero() {
		return dateHint
	}
	return now
}

// NormalizeMask extracts the last 4 digits of the digit-only subsequence of raw.
func NormalizeMask(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) <= 4 {
		return d
	}
	return d[len(d)-4:]
}

// StripThousandsSeparators removes comma thousand separators from a numeric string.
func StripThousandsSeparators(raw string) string {
	return strings.ReplaceAll(raw, ",", "")
}

// ParseIntSafe parses digits only, ignoring error (returns 0 on failure); used
// for non-critical numeric extraction (e.g. group counts).
func ParseIntSafe(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
