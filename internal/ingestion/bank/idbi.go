package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// IDBI implements BankParser for IDBI Bank.
type IDBI struct{}

func NewIDBI() *IDBI { return &IDBI{} }

func (IDBI) Name() string { return "IDBI" }

func (IDBI) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "idbi")
}

func (IDBI) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)A/c\s*[xX]+(\d+)\s*is\s*debited\s*(?:with|for)\s*Rs\.?\s*([\d,]+\.?\d*)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*)`),
			Confidence: 0.89,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
		{
			Regex:      regexp.MustCompile(`(?i)A/c\s*[xX]+(\d+)\s*is\s*credited\s*(?:with|for)\s*Rs\.?\s*([\d,]+\.?\d*)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.86,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
	}
}
