package money

import "testing"

func TestParseCommaDot(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"70.00", "70.00"},
		{"869.00", "869.00"},
		{"2,39,131.00", "239131.00"},
		{"1,234.56", "1234.56"},
		{"500 Dr", "-500.00"},
		{"500 Cr", "500.00"},
	}
	for _, c := range cases {
		got, err := ParseCommaDot(c.raw)
		if err != nil {
			t.Fatalf("ParseCommaDot(%q) error: %v", c.raw, err)
		}
		if got.String() != c.want {
			t.Errorf("ParseCommaDot(%q) = %s, want %s", c.raw, got.String(), c.want)
		}
	}
}

func TestAmountAbsNegate(t *testing.T) {
	a, _ := ParseCommaDot("500 Dr")
	if a.Abs().String() != "500.00" {
		t.Errorf("Abs() = %s, want 500.00", a.Abs().String())
	}
	if a.Negate().String() != "500.00" {
		t.Errorf("Negate() = %s, want 500.00", a.Negate().String())
	}
}

func TestAmountFloat64(t *testing.T) {
	a, _ := ParseCommaDot("239131.00")
	if got := a.Float64(); got != 239131.0 {
		t.Errorf("Float64() = %v, want 239131.0", got)
	}
}

func TestParseCommaDotEmpty(t *testing.T) {
	a, err := ParseCommaDot("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsZero() {
		t.Errorf("expected zero amount for empty input, got %s", a.String())
	}
}
