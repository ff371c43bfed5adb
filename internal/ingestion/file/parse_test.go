package file

import (
	"context"
	"testing"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

func TestParse_SingleAmountColumnSignRules(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount"},
		{"01-01-2026", "ATM withdrawal", "-500.00"},
		{"02-01-2026", "Salary credit", "50,000.00"},
	}
	mapping := Mapping{Date: 0, Description: 1, Amount: 2, Debit: -1, Credit: -1, Reference: -1, Balance: -1}

	outcome := Parse(context.Background(), rows, 0, mapping, time.Now())
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results, got %d (skipped: %v)", len(outcome.Results), outcome.SkippedLogs)
	}

	byDesc := map[string]common.Transaction{}
	for _, r := range outcome.Results {
		byDesc[r.Transaction.Description] = r.Transaction
	}

	if tx := byDesc["ATM withdrawal"]; tx.Type != common.Debit || tx.Amount.String() != "500.00" {
		t.Errorf("ATM withdrawal: type=%s amount=%s, want DEBIT 500.00", tx.Type, tx.Amount.String())
	}
	if tx := byDesc["Salary credit"]; tx.Type != common.Credit || tx.Amount.String() != "50000.00" {
		t.Errorf("Salary credit: type=%s amount=%s, want CREDIT 50000.00", tx.Type, tx.Amount.String())
	}
}

func TestParse_DebitCreditColumnsAndDrCrSuffix(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Debit", "Credit"},
		{"01-01-2026", "Card spend", "1,250.00 Dr", ""},
		{"02-01-2026", "Refund", "", "500 Cr"},
		{"03-01-2026", "No movement", "0", "0"},
	}
	mapping := Mapping{Date: 0, Description: 1, Amount: -1, Debit: 2, Credit: 3, Reference: -1, Balance: -1}

	outcome := Parse(context.Background(), rows, 0, mapping, time.Now())
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results (no-movement row skipped), got %d: %+v, skipped=%v", len(outcome.Results), outcome.Results, outcome.SkippedLogs)
	}
	if len(outcome.SkippedLogs) != 1 {
		t.Errorf("expected 1 skipped row, got %d", len(outcome.SkippedLogs))
	}

	for _, r := range outcome.Results {
		if r.Transaction.Description == "Card spend" && r.Transaction.Type != common.Debit {
			t.Errorf("Card spend should resolve to DEBIT (Dr suffix inverts), got %s", r.Transaction.Type)
		}
		if r.Transaction.Description == "Refund" && r.Transaction.Type != common.Credit {
			t.Errorf("Refund should resolve to CREDIT, got %s", r.Transaction.Type)
		}
	}
}

func TestParse_SkipsUnparseableDateWithoutFailingFile(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount"},
		{"not-a-date", "Mystery row", "-10.00"},
		{"01-01-2026", "Good row", "-10.00"},
	}
	mapping := Mapping{Date: 0, Description: 1, Amount: 2, Debit: -1, Credit: -1, Reference: -1, Balance: -1}

	outcome := Parse(context.Background(), rows, 0, mapping, time.Now())
	if len(outcome.Results) != 1 {
		t.Fatalf("expected 1 surviving result, got %d", len(outcome.Results))
	}
	if len(outcome.SkippedLogs) != 1 {
		t.Errorf("expected 1 skipped log entry, got %d", len(outcome.SkippedLogs))
	}
}

func TestParse_SkipsAllEmptyRows(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount"},
		{"", "", ""},
		{"01-01-2026", "Good row", "-10.00"},
	}
	mapping := Mapping{Date: 0, Description: 1, Amount: 2, Debit: -1, Credit: -1, Reference: -1, Balance: -1}

	outcome := Parse(context.Background(), rows, 0, mapping, time.Now())
	if len(outcome.Results) != 1 {
		t.Fatalf("expected 1 result (blank row dropped silently), got %d, skipped=%v", len(outcome.Results), outcome.SkippedLogs)
	}
	if len(outcome.SkippedLogs) != 0 {
		t.Errorf("blank rows must not count as skipped_logs entries, got %v", outcome.SkippedLogs)
	}
}
