package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// RBL implements BankParser for RBL Bank.
type RBL struct{}

func NewRBL() *RBL { return &RBL{} }

func (RBL) Name() string { return "RBL" }

func (RBL) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "rbl")
}

func (RBL) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*spent\s*on\s*RBL\s*Bank\s*Card\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*at\s*(.*?)\.?\s*Avl\s*Lmt:?\s*Rs\.?\s*([\d,]+\.?\d*)`),
			Confidence: 0.93,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "limit": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*)`),
			Confidence: 0.88,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
