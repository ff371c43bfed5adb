package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Kotak implements BankParser for Kotak Mahindra Bank.
type Kotak struct{}

func NewKotak() *Kotak { return &Kotak{} }

func (Kotak) Name() string { return "Kotak" }

func (Kotak) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "kotak")
}

func (Kotak) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*(?:your\s*)?Kotak\s*Bank\s*A/?c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*)`),
			Confidence: 0.94,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
		{
			Regex:      regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*credited\s*to\s*(?:your\s*)?Kotak\s*Bank\s*A/?c\s*[xX]+(\d+)\s*on\s*([\d-]+)\s*(?:from)?\s*(.*)`),
			Confidence: 0.9,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
