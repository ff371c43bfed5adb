package validate

import (
	"testing"
	"time"
)

func TestParseDate_Ladder(t *testing.T) {
	now := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"09-01-2026", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"09-01-26", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"23-Sep-24", time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC)},
		{"2026-01-09", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"09Jan26", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"09/01/2026", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"09.01.2026", time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.raw, time.Time{}, now)
		if !ok {
			t.Errorf("ParseDate(%q) did not match any ladder layout", c.raw)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestParseDate_FallsBackToHintThenNow(t *testing.T) {
	now := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	hint := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	got, ok := ParseDate("not a date", hint, now)
	if ok {
		t.Errorf("expected ok=false for unparseable input")
	}
	if !got.Equal(hint) {
		t.Errorf("ParseDate fallback = %v, want hint %v", got, hint)
	}

	got, ok = ParseDate("", time.Time{}, now)
	if ok {
		t.Errorf("expected ok=false for empty input")
	}
	if !got.Equal(now) {
		t.Errorf("ParseDate fallback = %v, want now %v", got, now)
	}
}

func TestNormalizeMask(t *testing.T) {
	cases := map[string]string{
		"5244":       "5244",
		"*5244":      "5244",
		"XX0004":     "0004",
		"1234567890": "7890",
		"":           "",
	}
	for raw, want := range cases {
		if got := NormalizeMask(raw); got != want {
			t.Errorf("NormalizeMask(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestStripThousandsSeparators(t *testing.T) {
	if got := StripThousandsSeparators("2,39,131.00"); got != "239131.00" {
		t.Errorf("StripThousandsSeparators() = %q, want %q", got, "239131.00")
	}
}
