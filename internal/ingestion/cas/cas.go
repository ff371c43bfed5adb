package cas

import (
	"fmt"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Result is the outcome of parsing one CAS PDF.
type Result struct {
	Transactions []Transaction
}

// Parse decrypts (if password is non-empty) and flattens a CAS PDF. If the
// fast extraction path yields zero folios, it retries once with the more
// expensive per-page rendering path. If still empty and the statement looks
// like a summary variant, it fails with ErrSummaryStatement; otherwise it
// returns an empty, non-error result — only a confirmed "SUMMARY" type
// statement is a hard failure.
func Parse(data []byte, password string) (*Result, error) {
	text, err := extractText(data, password)
	if err != nil {
		return nil, err
	}

	txns := Flatten(text)
	if len(txns) > 0 {
		return &Result{Transactions: txns}, nil
	}

	retryText, err := extractTextPerPage(data, password)
	if err == nil {
		if retryTxns := Flatten(retryText); len(retryTxns) > 0 {
			return &Result{Transactions: retryTxns}, nil
		}
		text = retryText
	}

	if looksLikeSummary(text) {
		return nil, fmt.Errorf("cas: %w", common.ErrSummaryStatement)
	}

	return &Result{Transactions: nil}, nil
}
