// Package money implements a fixed-point scale-2 decimal amount, used in
// place of float64 for every monetary field the ingestion pipeline emits.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a non-negative or signed monetary value stored as minor units
// (paise/cents), i.e. scale-2 fixed point. It never carries a currency; the
// currency is tracked separately on Transaction.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// FromMinorUnits wraps a raw minor-unit integer (e.g. paise) as an Amount.
func FromMinorUnits(minor int64) Amount {
	return Amount(minor)
}

// MinorUnits returns the raw minor-unit integer.
func (a Amount) MinorUnits() int64 {
	return int64(a)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Negate flips the sign.
func (a Amount) Negate() Amount {
	return -a
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// String renders the amount with two decimal places, e.g. "70.00" or "-12.50".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / 100
	frac := v % 100
	return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
}

// Float64 converts to a float64, for display/serialization contexts only;
// never used internally for comparisons.
func (a Amount) Float64() float64 {
	return float64(a) / 100.0
}

// ParseDecimal parses a decimal string like "1,234.56" or "45,23" (European)
// into an Amount. thousandsSep and decimalSep specify the grouping and
// fractional separators to expect; pass (',', '.') for American-style and
// ('.', ',') for European-style input.
func ParseDecimal(raw string, thousandsSep, decimalSep rune) (Amount, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	s = stripCurrencySymbols(s)
	if s == "" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	s = strings.ReplaceAll(s, string(thousandsSep), "")
	s = strings.ReplaceAll(s, string(decimalSep), ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid decimal %q: %w", raw, err)
	}

	minor := int64(f*100 + 0.5)
	if negative {
		minor = -minor
	}
	return Amount(minor), nil
}

// ParseCommaDot parses amounts using the common "1,234.56" American/Indian
// convention (comma thousands separator, dot decimal separator) and also
// tolerates trailing "Dr"/"Cr" suffixes, inverting sign for "Dr".
func ParseCommaDot(raw string) (Amount, error) {
	s := strings.TrimSpace(raw)
	invert := false
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "DR"):
		invert = true
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "CR"):
		s = strings.TrimSpace(s[:len(s)-2])
	}
	amt, err := ParseDecimal(s, ',', '.')
	if err != nil {
		return 0, err
	}
	if invert {
		amt = -amt
	}
	return amt, nil
}

func stripCurrencySymbols(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '$', '€', '£', '₹', '¥':
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
