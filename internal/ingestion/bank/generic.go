package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Generic is the low-confidence catch-all parser used when no bank-specific
// parser recognizes the sender/content. Its confidences are deliberately
// kept below the pipeline's AI-fallback threshold so that an unrecognized
// institution still routes to the AI parser instead of being accepted on a
// weak guess.
type Generic struct{}

func NewGeneric() *Generic { return &Generic{} }

func (Generic) Name() string { return "Generic" }

func (Generic) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	for _, kw := range []string{"debited", "credited", "spent", "spent at", "payment", "txn", "upi", "paid", "withdrawn"} {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

func (Generic) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			// "You paid Rs 250 to CHAYA TEA STALL via Foo Bank a/c 9911 ref FOO/99/21"
			Regex:      regexp.MustCompile(`(?i)paid\s*(?:Rs\.?|INR)\s*([\d,]+\.?\d*)\s*to\s*(.*?)\s*via\s*.*?a/c\s*(\d+)\s*ref\s*([\w/]+)`),
			Confidence: 0.6,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "recipient": 2, "mask": 3, "ref_id": 4},
		},
		{
			Regex:      regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s*([\d,]+\.?\d*)\s*debited\s*(?:from)?.*?(?:to|towards|at)\s*(.*)`),
			Confidence: 0.7,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "recipient": 2},
		},
		{
			Regex:      regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s*([\d,]+\.?\d*)\s*credited\s*(?:to)?.*?(?:from)\s*(.*)`),
			Confidence: 0.65,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "recipient": 2},
		},
		{
			Regex:      regexp.MustCompile(`(?i)(?:Rs\.?|INR)\s*([\d,]+\.?\d*)\s*spent\s*(?:at|on)\s*(.*)`),
			Confidence: 0.7,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "recipient": 2},
		},
	}
}
