package bank

import (
	"testing"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

func TestHDFC_SentRsScenario(t *testing.T) {
	content := "Sent Rs.70.00 From HDFC Bank A/C *5244 To Mr SIDHARTHA SWAIN On 09/01/26 Ref 116929657356"
	sender := "HDFCBK"
	now := time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)

	reg := NewParserRegistry()
	candidates := EvaluateAll(reg.Parsers(), common.SourceSMS, sender, content, time.Time{}, now)
	if len(candidates) == 0 {
		t.Fatalf("expected at least one candidate match")
	}

	best := candidates[0]
	for _, c := range candidates {
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	if best.Confidence < 0.9 {
		t.Fatalf("expected confidence >= 0.9, got %f", best.Confidence)
	}
	if best.Transaction.Amount.String() != "70.00" {
		t.Errorf("amount = %s, want 70.00", best.Transaction.Amount.String())
	}
	if best.Transaction.Type != common.Debit {
		t.Errorf("type = %s, want DEBIT", best.Transaction.Type)
	}
	if best.Transaction.Account.Mask != "5244" {
		t.Errorf("mask = %s, want 5244", best.Transaction.Account.Mask)
	}
	if best.Transaction.Recipient != "SIDHARTHA SWAIN" {
		t.Errorf("recipient = %q, want SIDHARTHA SWAIN", best.Transaction.Recipient)
	}
	if best.Transaction.RefID != "116929657356" {
		t.Errorf("ref_id = %s, want 116929657356", best.Transaction.RefID)
	}
	if best.ParserName != "HDFC" {
		t.Errorf("parser_used = %s, want HDFC", best.ParserName)
	}
}

func TestICICI_CardSpentScenario(t *testing.T) {
	content := "INR 869.00 spent using ICICI Bank Card XX0004 on 23-Sep-24 on IND*Amazon. Avl Limit: INR 2,39,131.00"
	sender := "ICICIB"
	now := time.Date(2024, 9, 23, 12, 0, 0, 0, time.UTC)

	reg := NewParserRegistry()
	candidates := EvaluateAll(reg.Parsers(), common.SourceSMS, sender, content, time.Time{}, now)
	if len(candidates) == 0 {
		t.Fatalf("expected at least one candidate match")
	}

	best := candidates[0]
	for _, c := range candidates {
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	if best.Confidence < 0.9 {
		t.Fatalf("expected confidence >= 0.9, got %f", best.Confidence)
	}
	if best.Transaction.Amount.String() != "869.00" {
		t.Errorf("amount = %s, want 869.00", best.Transaction.Amount.String())
	}
	if best.Transaction.Type != common.Debit {
		t.Errorf("type = %s, want DEBIT", best.Transaction.Type)
	}
	if best.Transaction.Account.Mask != "0004" {
		t.Errorf("mask = %s, want 0004", best.Transaction.Account.Mask)
	}
	if best.Transaction.Merchant.Cleaned != "Amazon" {
		t.Errorf("merchant = %q, want Amazon", best.Transaction.Merchant.Cleaned)
	}
	wantDate := time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC)
	if !best.Transaction.Date.Equal(wantDate) {
		t.Errorf("date = %v, want %v", best.Transaction.Date, wantDate)
	}
	if best.Transaction.CreditLimit == nil || best.Transaction.CreditLimit.String() != "239131.00" {
		t.Errorf("credit_limit = %v, want 239131.00", best.Transaction.CreditLimit)
	}
}

func TestGeneric_UnknownBankLowConfidence(t *testing.T) {
	content := "You paid Rs 250 to CHAYA TEA STALL via Foo Bank a/c 9911 ref FOO/99/21"
	sender := "FOOBANK"
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	reg := NewParserRegistry()
	candidates := EvaluateAll(reg.Parsers(), common.SourceSMS, sender, content, time.Time{}, now)
	if len(candidates) == 0 {
		t.Fatalf("expected generic fallback to match something")
	}

	for _, c := range candidates {
		if c.ParserName != "Generic" {
			t.Errorf("unexpected non-generic parser matched unknown bank: %s", c.ParserName)
		}
		if c.Confidence >= 0.9 {
			t.Errorf("generic confidence %f should stay below the AI-fallback threshold", c.Confidence)
		}
	}
}

func TestRegistry_GenericIsAlwaysLast(t *testing.T) {
	reg := NewParserRegistry()
	parsers := reg.Parsers()
	if parsers[len(parsers)-1].Name() != "Generic" {
		t.Fatalf("Generic must remain the last registered parser")
	}
}
