package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// BOI implements BankParser for Bank of India.
type BOI struct{}

func NewBOI() *BOI { return &BOI{} }

func (BOI) Name() string { return "BankOfIndia" }

func (BOI) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "bank of india")
}

func (BOI) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*)`),
			Confidence: 0.86,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*credited\s*to\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.83,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
