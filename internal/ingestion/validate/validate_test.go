package validate

import (
	"testing"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

func TestEnrich_FutureDateWarning(t *testing.T) {
	now := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	txn := &common.Transaction{
		Date:     now.Add(48 * time.Hour),
		Currency: "INR",
	}
	warnings := Enrich(txn, now)
	if len(warnings) == 0 {
		t.Fatalf("expected a future-dated warning")
	}
}

func TestEnrich_CurrencyMismatch(t *testing.T) {
	now := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	txn := &common.Transaction{
		Date:       now,
		Currency:   "INR",
		RawMessage: "USD 50.00 charged to your card",
	}
	warnings := Enrich(txn, now)
	found := false
	for _, w := range warnings {
		if w == "currency mismatch: transaction currency is INR but raw message references a foreign currency" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected currency mismatch warning, got %v", warnings)
	}
}

func TestEnrich_MidnightEnrichment(t *testing.T) {
	now := time.Date(2026, 1, 9, 15, 30, 0, 0, time.UTC)
	txn := &common.Transaction{
		Date:     time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		Currency: "INR",
	}
	Enrich(txn, now)
	if txn.Date.Hour() != 15 || txn.Date.Minute() != 30 {
		t.Errorf("expected midnight transaction date to be enriched with now's time, got %v", txn.Date)
	}
}

func TestEnrich_NoWarningsForOrdinaryTransaction(t *testing.T) {
	now := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)
	txn := &common.Transaction{
		Date:       now.Add(-2 * time.Hour),
		Currency:   "INR",
		RawMessage: "Rs.70.00 debited",
	}
	warnings := Enrich(txn, now)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
