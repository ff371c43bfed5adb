// Package bank holds the bank-specific regex parsers, each declaring a
// can-handle predicate and an ordered list of patterns, plus the shared
// evaluator both the bank parser set and the pattern engine use to turn a
// regex match into a candidate Transaction.
package bank

import (
	"regexp"
	"strings"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/normalize"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/validate"
	"github.com/FACorreiaa/smart-finance-tracker/pkg/money"
)

// FieldMap maps a canonical field name to a 1-based regex capture-group index.
// Recognized names: amount, date, mask, recipient, ref_id, balance, type, limit.
type FieldMap map[string]int

// TransactionPattern is one ordered pattern belonging to a bank parser.
type TransactionPattern struct {
	Regex      *regexp.Regexp
	Confidence float64
	TxnType    common.TxnType
	FieldMap   FieldMap
}

// BankParser is implemented once per supported bank.
type BankParser interface {
	Name() string
	CanHandle(sender, content string) bool
	Patterns() []TransactionPattern
}

// Candidate is one evaluated match, carrying its own confidence and parser
// attribution so the orchestrator can arbitrate across every candidate from
// every source.
type Candidate struct {
	Transaction common.Transaction
	ParserName  string
	Confidence  float64
}

// EvaluateAll runs every parser whose CanHandle predicate passes against
// every one of its patterns, and returns one Candidate per non-empty match.
// A parser whose CanHandle is false contributes nothing; a regex that panics
// cannot occur (RE2 never backtracks/panics on match), but MatchString /
// FindStringSubmatch failures are treated as "no match", never an error.
func EvaluateAll(parsers []BankParser, source common.Source, sender, content string, dateHint, now time.Time) []Candidate {
	var candidates []Candidate
	for _, p := range parsers {
		if !p.CanHandle(sender, content) {
			continue
		}
		for _, pat := range p.Patterns() {
			if c, ok := EvaluatePattern(pat, p.Name(), source, content, dateHint, now); ok {
				candidates = append(candidates, c)
			}
		}
	}
	return candidates
}

// EvaluatePattern implements the per-pattern evaluation contract shared
// between the bank parsers and the user/AI-learned pattern engine.
func EvaluatePattern(pat TransactionPattern, parserName string, source common.Source, content string, dateHint, now time.Time) (Candidate, bool) {
	groupIdx, ok := pat.FieldMap["amount"]
	if !ok {
		return Candidate{}, false
	}

	match := pat.Regex.FindStringSubmatch(content)
	if match == nil {
		return Candidate{}, false
	}

	amountRaw := groupValue(match, groupIdx)
	if strings.TrimSpace(amountRaw) == "" {
		return Candidate{}, false
	}
	amount, err := money.ParseCommaDot(validate.StripThousandsSeparators(amountRaw))
	if err != nil || amount == 0 {
		return Candidate{}, false
	}

	txnType := pat.TxnType
	if idx, ok := pat.FieldMap["type"]; ok {
		if typeText := strings.ToLower(groupValue(match, idx)); typeText != "" {
			if strings.Contains(typeText, "credit") {
				txnType = common.Credit
			} else if strings.Contains(typeText, "debit") {
				txnType = common.Debit
			}
		}
	}

	var txnDate time.Time
	if idx, ok := pat.FieldMap["date"]; ok {
		txnDate, _ = validate.ParseDate(groupValue(match, idx), dateHint, now)
	} else {
		txnDate, _ = validate.ParseDate("", dateHint, now)
	}

	mask := ""
	if idx, ok := pat.FieldMap["mask"]; ok {
		mask = validate.NormalizeMask(groupValue(match, idx))
	}

	recipientRaw := ""
	if idx, ok := pat.FieldMap["recipient"]; ok {
		recipientRaw = groupValue(match, idx)
	}
	recipient := normalize.ExtractRecipient(recipientRaw)

	refID := ""
	if idx, ok := pat.FieldMap["ref_id"]; ok {
		refID = strings.TrimSpace(groupValue(match, idx))
	}

	var balance *money.Amount
	if idx, ok := pat.FieldMap["balance"]; ok {
		if raw := groupValue(match, idx); raw != "" {
			if b, err := money.ParseCommaDot(validate.StripThousandsSeparators(raw)); err == nil {
				balance = &b
			}
		}
	}

	var limit *money.Amount
	if idx, ok := pat.FieldMap["limit"]; ok {
		if raw := groupValue(match, idx); raw != "" {
			if l, err := money.ParseCommaDot(validate.StripThousandsSeparators(raw)); err == nil {
				limit = &l
			}
		}
	}

	txn := common.Transaction{
		Amount:      amount.Abs(),
		Type:        txnType,
		Date:        txnDate,
		Currency:    "INR",
		Account:     common.Account{Mask: mask, Provider: parserName},
		Merchant:    common.Merchant{Raw: recipientRaw, Cleaned: recipient},
		Description: content,
		Recipient:   recipient,
		RefID:       refID,
		Balance:     balance,
		CreditLimit: limit,
		RawMessage:  content,
		Confidence:  pat.Confidence,
	}

	return Candidate{Transaction: txn, ParserName: parserName, Confidence: pat.Confidence}, true
}

func groupValue(match []string, groupIdx int) string {
	if groupIdx <= 0 || groupIdx >= len(match) {
		return ""
	}
	return strings.TrimSpace(match[groupIdx])
}
