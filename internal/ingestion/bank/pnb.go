package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// PNB implements BankParser for Punjab National Bank.
type PNB struct{}

func NewPNB() *PNB { return &PNB{} }

func (PNB) Name() string { return "PNB" }

func (PNB) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "pnb") || strings.Contains(combined, "punjab national")
}

func (PNB) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Your\s*A/c\s*[xX]+(\d+)\s*debited\s*(?:with|by)\s*Rs\.?\s*([\d,]+\.?\d*)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*?)\.?\s*\(?Ref\.?\s*:?\s*(\w+)\)?`),
			Confidence: 0.92,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Your\s*A/c\s*[xX]+(\d+)\s*credited\s*(?:with|by)\s*Rs\.?\s*([\d,]+\.?\d*)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.88,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
	}
}
