package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Federal implements BankParser for Federal Bank.
type Federal struct{}

func NewFederal() *Federal { return &Federal{} }

func (Federal) Name() string { return "Federal" }

func (Federal) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "federal bank") || strings.Contains(combined, "fedbank")
}

func (Federal) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*towards\s*(.*?)\.?\s*Ref\s*No\.?\s*(\w+)`),
			Confidence: 0.91,
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
