package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// HDFC implements BankParser for HDFC Bank SMS/email alerts.
type HDFC struct{}

func NewHDFC() *HDFC { return &HDFC{} }

func (HDFC) Name() string { return "HDFC" }

func (HDFC) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	return strings.Contains(combined, "hdfc")
}

func (HDFC) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			// "Sent Rs.70.00 From HDFC Bank A/C *5244 To Mr SIDHARTHA SWAIN On 09/01/26 Ref 116929657356"
			Regex: regexp.MustCompile(`(?i)Sent\s*Rs\.?\s*([\d,]+\.?\d*)\s*From\s*HDFC\s*Bank\s*A/C\s*\*?(\d+)\s*To\s*(?:Mr|Mrs|Ms)?\.?\s*(.*?)\s*On\s*([\d/.-]+)\s*Ref\s*(\w+)`),
			Confidence: 1.0,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "recipient": 3, "date": 4, "ref_id": 5},
		},
		{
			// "Rs 2,500.00 debited from HDFC Bank A/C *1234 on 12-01-26 to AMAZON. Ref No 998877"
			Regex: regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*debited\s*from\s*HDFC\s*Bank\s*A/C\s*\*?(\d+)\s*on\s*([\d/.-]+)\s*to\s*(.*?)\.?\s*Ref\s*No\.?\s*(\w+)`),
			Confidence: 0.97,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "ref_id": 5},
		},
		{
			// "INR 869.00 spent using HDFC Bank Card XX0004 on 23-Sep-24 on IND*Amazon. Avl Limit: INR 2,39,131.00"
			Regex: regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)\s*spent\s*using\s*HDFC\s*Bank\s*Card\s*[xX]+(\d+)\s*on\s*([\d]{1,2}-[A-Za-z]{3}-\d{2,4})\s*on\s*(?:IND\*)?([^.]+)\.\s*Avl\s*Limit:?\s*INR\s*([\d,]+\.?\d*)`),
			Confidence: 0.95,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4, "limit": 5},
		},
		{
			// "Rs.50000.00 credited to HDFC Bank A/C *5244 on 01-01-26 SALARY123456"
			Regex: regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)\s*credited\s*to\s*HDFC\s*Bank\s*A/C\s*\*?(\d+)\s*on\s*([\d/.-]+)\s*(.*)`),
			Confidence: 0.9,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "mask": 2, "date": 3, "recipient": 4},
		},
	}
}
