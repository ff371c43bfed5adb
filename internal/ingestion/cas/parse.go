package cas

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TxnType is a mutual-fund transaction's direction.
type TxnType string

const (
	Buy  TxnType = "BUY"
	Sell TxnType = "SELL"
)

// Transaction is one flattened CAS row.
type Transaction struct {
	Date        time.Time
	SchemeName  string
	AMFI        string
	ISIN        string
	FolioNumber string
	Type        TxnType
	Amount      float64 // absolute
	Units       float64
	NAV         float64
	ExternalID  string
}

var (
	folioRe = regexp.MustCompile(`(?i)Folio\s*No\.?:?\s*([\w/\-]+)`)
	// schemeRe matches a scheme header line such as
	// "PPFAS Flexicap Fund - Direct Plan - Growth ISIN: INF879O01027 Amfi Code: 123456".
	schemeRe = regexp.MustCompile(`(?i)^(.*?)\s*ISIN:\s*([A-Z0-9]{12})(?:\s*Amfi\s*Code:\s*(\S+))?\s*$`)
	// txnRe matches a transaction row: date, free-text description, amount,
	// units, nav, closing balance - each of the last four numeric with
	// optional thousands separators and sign.
	txnRe = regexp.MustCompile(`^(\d{2}-[A-Za-z]{3}-\d{4})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s+(-?[\d,]+\.\d{3,4})\s+([\d,]+\.\d{2,4})\s+(-?[\d,]+\.\d{2,4})\s*$`)

	stampDutyWords = []string{"stamp duty", "stt", "tax"}
)

// Flatten parses extracted CAS text into a list of per-transaction rows,
// applying the description filter and BUY/SELL derivation below.
func Flatten(text string) []Transaction {
	var out []Transaction
	var folio, scheme, amfi, isin string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := folioRe.FindStringSubmatch(trimmed); m != nil {
			folio = m[1]
			continue
		}

		if m := schemeRe.FindStringSubmatch(trimmed); m != nil {
			scheme = strings.TrimSpace(m[1])
			isin = m[2]
			amfi = m[3]
			continue
		}

		if shouldDiscard(trimmed) {
			continue
		}

		m := txnRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		date, err := time.Parse("02-Jan-2006", m[1])
		if err != nil {
			continue
		}

		description := m[2]
		amount := parseFloat(m[3])
		units := parseFloat(m[4])
		nav := parseFloat(m[5])

		out = append(out, Transaction{
			Date:        date,
			SchemeName:  scheme,
			AMFI:        amfi,
			ISIN:        isin,
			FolioNumber: folio,
			Type:        deriveType(description, amount),
			Amount:      abs(amount),
			Units:       units,
			NAV:         nav,
		})
	}
	return out
}

// shouldDiscard reports whether a line is a non-investment row (stamp duty,
// STT, tax) to be filtered out.
func shouldDiscard(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range stampDutyWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// deriveType classifies a row as a buy or sell from its description and amount sign.
func deriveType(description string, amount float64) TxnType {
	upper := strings.ToUpper(description)
	switch {
	case strings.Contains(upper, "REDEMPTION") || strings.Contains(upper, "SWITCH OUT") || amount < 0:
		return Sell
	case strings.Contains(upper, "PURCHASE") || strings.Contains(upper, "SWITCH IN"):
		return Buy
	default:
		return Buy
	}
}

func parseFloat(raw string) float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	f, _ := strconv.ParseFloat(cleaned, 64)
	return f
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// looksLikeSummary heuristically detects a "Summary Statement" variant when
// no transaction rows were found.
func looksLikeSummary(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "summary statement") || strings.Contains(lower, "account summary") ||
		strings.Contains(lower, "statement summary")
}
