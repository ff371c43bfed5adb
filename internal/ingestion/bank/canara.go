package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Canara implements BankParser for Canara Bank.
type Canara struct{}

func NewCanara() *Canara { return &Canara{} }

func (Canara) Name() string { return "Canara" }

func (Canara) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "canara")
}

func (Canara) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			Regex:      regexp.MustCompile(`(?i)A/c\s*[xX]+(\d+)\s*debited\s*for\s*Rs\.?\s*([\d,]+\.?\d*)\s*on\s*([\d-]+)\s*(?:to|towards)\s*(.*?)\.?\s*Ref\s*No\.?\s*(\w+)`),
			Confidence: 0.9,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			Regex:      regexp.MustCompile(`(?i)A/c\s*[xX]+(\d+)\s*credited\s*for\s*Rs\.?\s*([\d,]+\.?\d*)\s*on\s*([\d-]+)\s*(.*)`),
			Confidence: 0.87,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
	}
}
