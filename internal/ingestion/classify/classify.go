// Package classify provides a pure keyword-bag predicate that rejects
// non-financial content before any parser runs.
package classify

import "strings"

var keywords = []string{
	"debited", "credited", "spent", "txn", "upi", "payment", "card", "a/c", "inr", "rs.",
}

// IsFinancial reports whether content looks like a financial notification.
// False-negatives are acceptable (a message that slips through); false
// positives simply fail to match further downstream. No allocation beyond
// the single lowercase copy of content.
func IsFinancial(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
