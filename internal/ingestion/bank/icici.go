package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// ICICI implements BankParser for ICICI Bank SMS/email alerts.
type ICICI struct{}

func NewICICI() *ICICI { return &ICICI{} }

func (ICICI) Name() string { return "ICICI" }

func (ICICI) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "icici")
}

func (ICICI) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			// "INR 869.00 spent using ICICI Bank Card XX0004 on 23-Sep-24 on IND*Amazon. Avl Limit: INR 2,39,131.00"
			Regex: regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)\s*spent\s*using\s*ICICI\s*Bank\s*Card\s*[xX]+(\d+)\s*on\s*([\d]{1,2}-[A-Za-z]{3}-\d{2,4})\s*on\s*(?:IND\*)?([^.]+)\.\s*Avl\s*Limit:?\s*INR\s*([\d,]+\.?\d*)`),
			Confidence: 0.97,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "limit": 5},
		},
		{
			// "ICICI Bank Acct XX0004 debited with INR 500.00 on 01-Jan-26; Ref 887766"
			Regex: regexp.MustCompile(`(?i)ICICI\s*Bank\s*Acct\s*[xX]+(\d+)\s*debited\s*with\s*INR\s*([\d,]+\.?\d*)\s*on\s*([\d]{1,2}-[A-Za-z]{3}-\d{2,4})[;.]?\s*Ref\s*(\w+)`),
			Confidence: 0.95,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "ref_id": 4},
		},
		{
			// "ICICI Bank Acct XX0004 credited with INR 5,000.00 on 01-Jan-26 from SIDHARTHA SWAIN"
			Regex: regexp.MustCompile(`(?i)ICICI\s*Bank\s*Acct\s*[xX]+(\d+)\s*credited\s*with\s*INR\s*([\d,]+\.?\d*)\s*on\s*([\d]{1,2}-[A-Za-z]{3}-\d{2,4})\s*from\s*(.*)`),
			Confidence: 0.9,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"mask": 1, "amount": 2, "date": 3, "recipient": 4},
		},
	}
}
