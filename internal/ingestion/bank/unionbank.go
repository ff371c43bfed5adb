package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// UnionBank implements BankParser for Union Bank of India.
type UnionBank struct{}

func NewUnionBank() *UnionBank { return &UnionBank{} }

func (UnionBank) Name() string { return "UnionBank" }

func (UnionBank) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "union bank") || strings.Contains(combined, "unionbank")
}

func (UnionBank) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*?)\.?\s*Ref\s*(\w+)`),
			Confidence: 0.9,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*credited\s*to\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.87,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
