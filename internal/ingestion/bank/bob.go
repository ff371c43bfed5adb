package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// BOB implements BankParser for Bank of Baroda.
type BOB struct{}

func NewBOB() *BOB { return &BOB{} }

func (BOB) Name() string { return "BOB" }

func (BOB) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "bank of baroda") || strings.Contains(combined, "bob")
}

func (BOB) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*towards\s*(.*?)\.?\s*Info:?\s*(\w+)`),
			Confidence: 0.9,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)\s*credited\s*to\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.87,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
