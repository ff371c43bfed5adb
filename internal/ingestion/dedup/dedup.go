// Package dedup implements the two-layer duplicate detector: Layer 1 is
// submission idempotency against RequestLog.input_hash, and Layer 2 is
// cross-source ref-id/fuzzy-composite matching against recent successful
// extractions. The fuzzy string match uses
// github.com/paul-mannino/go-fuzzywuzzy's PartialRatio.
package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

const (
	// Layer1Window is the submission-idempotency lookback.
	Layer1Window = 5 * time.Minute
	// Layer2Window is the cross-source lookback.
	Layer2Window = 15 * time.Minute
	// fuzzyThreshold is the minimum PartialRatio score for a composite match.
	fuzzyThreshold = 90
)

// CheckSubmission implements Layer 1: reports whether a RequestLog with the
// same input_hash was created within the last 5 minutes.
func CheckSubmission(ctx context.Context, repo store.Repository, inputHash string, now time.Time) (bool, error) {
	_, err := repo.FindRecentByHash(ctx, inputHash, now.Add(-Layer1Window))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CrossSourceMatch implements Layer 2: scans successful RequestLogs from the
// last 15 minutes (excluding the current submission's own hash) and reports
// whether txn duplicates a previously extracted transaction, per ref-id
// match (highest priority) or fuzzy composite match.
func CrossSourceMatch(ctx context.Context, repo store.Repository, currentHash string, txn common.Transaction, now time.Time) (bool, error) {
	logs, err := repo.ListRecentSuccessful(ctx, currentHash, now.Add(-Layer2Window))
	if err != nil {
		return false, err
	}

	for _, log := range logs {
		var item common.ParsedItem
		if jsonErr := json.Unmarshal([]byte(log.OutputPayload), &item); jsonErr != nil {
			continue
		}
		other := item.Transaction

		if refIDMatch(txn.RefID, other.RefID) {
			return true, nil
		}
		if fuzzyCompositeMatch(txn, other) {
			return true, nil
		}
	}
	return false, nil
}

// refIDMatch compares ref_ids with leading zeros stripped; both must be
// non-empty.
func refIDMatch(a, b string) bool {
	a = stripLeadingZeros(a)
	b = stripLeadingZeros(b)
	return a != "" && b != "" && a == b
}

func stripLeadingZeros(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "0")
}

// fuzzyCompositeMatch requires exact amount, exact type, matching last-4
// digit-only mask on both sides, and a PartialRatio >= 90 on merchant-cleaned
// (falling back to description) text.
func fuzzyCompositeMatch(a, b common.Transaction) bool {
	if a.Amount != b.Amount || a.Type != b.Type {
		return false
	}

	maskA := digitsOnly(a.Account.Mask)
	maskB := digitsOnly(b.Account.Mask)
	if maskA == "" || maskB == "" || maskA != maskB {
		return false
	}

	textA := compareText(a)
	textB := compareText(b)
	if textA == "" || textB == "" {
		return false
	}

	return fuzzy.PartialRatio(strings.ToLower(textA), strings.ToLower(textB)) >= fuzzyThreshold
}

func compareText(t common.Transaction) string {
	if t.Merchant.Cleaned != "" {
		return t.Merchant.Cleaned
	}
	return t.Description
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) <= 4 {
		return d
	}
	return d[len(d)-4:]
}
