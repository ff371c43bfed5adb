package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// YesBank implements BankParser for Yes Bank.
type YesBank struct{}

func NewYesBank() *YesBank { return &YesBank{} }

func (YesBank) Name() string { return "YesBank" }

func (YesBank) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "yes bank") || strings.Contains(combined, "yesbank")
}

func (YesBank) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*(?:your\s*)?YES\s*BANK\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:towards|to)\s*(.*?)\.?\s*Ref\s*:?\s*(\w+)`),
			Confidence: 0.93,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*credited\s*to\s*(?:your\s*)?YES\s*BANK\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.88,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
