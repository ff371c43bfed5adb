package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// IndianBank implements BankParser for Indian Bank.
type IndianBank struct{}

func NewIndianBank() *IndianBank { return &IndianBank{} }

func (IndianBank) Name() string { return "IndianBank" }

func (IndianBank) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "indian bank")
}

func (IndianBank) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*?)\.?\s*Ref\s*(\w+)`),
			Confidence: 0.89,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*credited\s*to\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.85,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
