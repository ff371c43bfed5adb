package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Enrich applies date enrichment and returns non-fatal warnings. It mutates
// txn.Date in place when enrichment applies.
func Enrich(txn *common.Transaction, now time.Time) []string {
	var warnings []string

	if isMidnightToday(txn.Date, now) {
		txn.Date = time.Date(
			txn.Date.Year(), txn.Date.Month(), txn.Date.Day(),
			now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), txn.Date.Location(),
		)
	}

	if txn.Date.After(now.Add(24 * time.Hour)) {
		warnings = append(warnings, fmt.Sprintf("future-dated transaction: %s", txn.Date.Format(time.RFC3339)))
	}

	if currencyMismatch(txn) {
		warnings = append(warnings, "currency mismatch: transaction currency is INR but raw message references a foreign currency")
	}

	return warnings
}

func isMidnightToday(d, now time.Time) bool {
	return d.Year() == now.Year() && d.YearDay() == now.YearDay() &&
		d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0
}

func currencyMismatch(txn *common.Transaction) bool {
	if txn.Currency != "INR" {
		return false
	}
	raw := strings.ToUpper(txn.RawMessage)
	for _, marker := range []string{"USD", "$", "EUR", "EURO"} {
		if strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}
