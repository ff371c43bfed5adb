package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// SBI implements BankParser for State Bank of India.
type SBI struct{}

func NewSBI() *SBI { return &SBI{} }

func (SBI) Name() string { return "SBI" }

func (SBI) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "sbi") || strings.Contains(combined, "state bank")
}

func (SBI) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			// "Dear Customer, A/C XX9911 debited by 500.00 on 01Jan26 trf to CHAYA TEA STALL Ref No 112233"
			Regex: regexp.MustCompile(`(?i)A/C\s*[xX]+(\d+)\s*debited\s*by\s*([\d,]+\.?\d*)\s*on\s*(\d{1,2}[A-Za-z]{3}\d{2,4})\s*trf\s*to\s*(.*?)\s*Ref\s*No\.?\s*(\w+)`),
			Confidence: 0.95,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			// "A/C XX9911 debited by 500.00 on 01Jan26 trf to CHAYA TEA STALL" (no ref)
			Regex: regexp.MustCompile(`(?i)A/C\s*[xX]+(\d+)\s*debited\s*by\s*([\d,]+\.?\d*)\s*on\s*(\d{1,2}[A-Za-z]{3}\d{2,4})\s*trf\s*to\s*(.*)`),
			Confidence: 0.88,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
		{
			// "Your A/C XX9911 credited by 5000.00 on 01Jan26 -Deposit"
			Regex: regexp.MustCompile(`(?i)A/C\s*[xX]+(\d+)\s*credited\s*by\s*([\d,]+\.?\d*)\s*on\s*(\d{1,2}[A-Za-z]{3}\d{2,4})\s*-?\s*(.*)`),
			Confidence: 0.9,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
	}
}
