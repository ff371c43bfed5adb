package normalize

import "testing"

func TestExtractRecipient_UPIPrefix(t *testing.T) {
	got := ExtractRecipient("UPI-CHAYA TEA STALL-9876543210@okhdfc-112233")
	want := "CHAYA TEA STALL"
	if got != want {
		t.Errorf("ExtractRecipient() = %q, want %q", got, want)
	}
}

func TestExtractRecipient_Salary(t *testing.T) {
	got := ExtractRecipient("12345SALARY FOR JAN 2026")
	want := "SALARY FOR JAN 2026"
	if got != want {
		t.Errorf("ExtractRecipient() = %q, want %q", got, want)
	}
}

func TestExtractRecipient_POSTrailingName(t *testing.T) {
	got := ExtractRecipient("POS-AMAZON RETAIL")
	want := "AMAZON RETAIL"
	if got != want {
		t.Errorf("ExtractRecipient() = %q, want %q", got, want)
	}
}

func TestExtractRecipient_TitleStripped(t *testing.T) {
	got := ExtractRecipient("Mr SIDHARTHA SWAIN")
	want := "SIDHARTHA SWAIN"
	if got != want {
		t.Errorf("ExtractRecipient() = %q, want %q", got, want)
	}
}

func TestExtractRecipient_Idempotent(t *testing.T) {
	inputs := []string{
		"UPI-CHAYA TEA STALL-9876543210@okhdfc-112233",
		"12345SALARY FOR JAN 2026",
		"POS-AMAZON RETAIL",
		"Mr SIDHARTHA SWAIN",
		"random noisy TXN REF 9988 to THE STORE",
		"",
	}
	for _, in := range inputs {
		once := ExtractRecipient(in)
		twice := ExtractRecipient(once)
		if once != twice {
			t.Errorf("ExtractRecipient not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestExtractRecipient_MaxLength(t *testing.T) {
	longName := ""
	for i := 0; i < 40; i++ {
		longName += "WORDXX "
	}
	got := ExtractRecipient(longName)
	if len(got) > maxRecipientLen {
		t.Errorf("ExtractRecipient result length = %d, want <= %d", len(got), maxRecipientLen)
	}
}
