package bank

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// GovSchemes implements BankParser for EPFO, PPF, and NPS contribution
// notifications.
type GovSchemes struct{}

func NewGovSchemes() *GovSchemes { return &GovSchemes{} }

func (GovSchemes) Name() string { return "GovernmentScheme" }

func (GovSchemes) CanHandle(sender, content string) bool {
	combined := strings.ToLower(sender + " " + content)
	for _, kw := range []string{"epfo", "epf", "ppf", "nps", "provident fund"} {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

func (GovSchemes) Patterns() []TransactionPattern {
	return []TransactionPattern{
		{
			// EPFO monthly contribution credit.
			Regex:      regexp.MustCompile(`(?i)(?:EPFO|EPF)\s*.*?\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:has been\s*)?credited\s*(?:to|in)\s*(?:your\s*)?(?:PF|EPF)\s*account\s*(?:on\s*([\d-]+))?`),
			Confidence: 0.88,
			TxnType:    common.Credit,
			FieldMap:   FieldMap{"amount": 1, "date": 2},
		},
		{
			// PPF deposit confirmation.
			Regex:      regexp.MustCompile(`(?i)PPF\s*.*?\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:has been\s*)?deposited\s*(?:on\s*([\d-]+))?`),
			Confidence: 0.86,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "date": 2},
		},
		{
			// NPS contribution.
			Regex:      regexp.MustCompile(`(?i)NPS\s*.*?\s*Rs\.?\s*([\d,]+\.?\d*)\s*(?:contribution\s*)?(?:received|credited)\s*(?:on\s*([\d-]+))?`),
			Confidence: 0.85,
			TxnType:    common.Debit,
			FieldMap:   FieldMap{"amount": 1, "date": 2},
		},
	}
}
