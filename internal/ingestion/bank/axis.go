package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Axis implements BankParser for Axis Bank.
type Axis struct{}

func NewAxis() *Axis { return &Axis{} }

func (Axis) Name() string { return "Axis" }

func (Axis) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "axis")
}

func (Axis) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			// "INR 500.00 debited from A/c no. XX1234 on 01-01-26 towards CHAYA TEA STALL. Avl Bal INR 10000.00"
			Regex: regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)\s*debited\s*from\s*A/c\s*no\.?\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*towards\s*(.*?)\.\s*Avl\s*Bal\s*INR\s*([\d,]+\.?\d*)`),
			Confidence: 0.95,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "balance": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)\s*credited\s*to\s*A/c\s*no\.?\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.9,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
