package file

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/validate"
	"github.com/FACorreiaa/smart-finance-tracker/pkg/money"
)

// Mapping names the canonical column indices a caller has confirmed (or that
// were remembered from a FileParsingConfig). Columns not in use are left at
// -1. Exactly one of Amount or (Debit, Credit) is set.
type Mapping struct {
	Date        int
	Description int
	Amount      int
	Debit       int
	Credit      int
	Reference   int
	Balance     int
}

// ParseResult is one successfully extracted row.
type ParseResult struct {
	RowIndex    int
	Transaction common.Transaction
}

// ParseOutcome is the full return of the Parse operation.
type ParseOutcome struct {
	Results     []ParseResult
	SkippedLogs []string
}

// Parse extracts transactions from rows[headerRowIndex+1:] per mapping,
// applying the shared date ladder and amount-sign rules. Rows with
// all-empty columns are dropped without a SkippedLogs entry; rows with
// unparseable dates or missing/invalid amounts are skipped and counted in
// SkippedLogs rather than failing the whole file.
func Parse(ctx context.Context, rows [][]string, headerRowIndex int, mapping Mapping, now time.Time) *ParseOutcome {
	dataRows := rows
	if headerRowIndex+1 < len(rows) {
		dataRows = rows[headerRowIndex+1:]
	} else {
		dataRows = nil
	}

	workerCount := runtime.GOMAXPROCS(0)
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > 8 {
		workerCount = 8
	}

	type job struct {
		idx int
		row []string
	}
	type res struct {
		idx int
		tx  *common.Transaction
		err error
	}

	jobs := make(chan job, workerCount*4)
	results := make(chan res, workerCount*4)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				tx, err := parseRow(j.row, mapping, now)
				select {
				case results <- res{idx: j.idx, tx: tx, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, row := range dataRows {
			select {
			case jobs <- job{idx: headerRowIndex + 1 + i, row: row}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	outcome := &ParseOutcome{}
	for r := range results {
		if r.err != nil {
			outcome.SkippedLogs = append(outcome.SkippedLogs, fmt.Sprintf("row %d: %v", r.idx, r.err))
			continue
		}
		if r.tx == nil {
			continue
		}
		outcome.Results = append(outcome.Results, ParseResult{RowIndex: r.idx, Transaction: *r.tx})
	}

	// The worker pool completes rows out of order; callers (and tests) expect
	// Results in source row order.
	sort.Slice(outcome.Results, func(i, j int) bool {
		return outcome.Results[i].RowIndex < outcome.Results[j].RowIndex
	})
	sort.Strings(outcome.SkippedLogs)
	return outcome
}

func parseRow(row []string, mapping Mapping, now time.Time) (*common.Transaction, error) {
	if isEmptyRow(row) {
		return nil, nil
	}

	desc := ""
	if mapping.Description >= 0 && mapping.Description < len(row) {
		desc = strings.TrimSpace(row[mapping.Description])
	}

	dateRaw := ""
	if mapping.Date >= 0 && mapping.Date < len(row) {
		dateRaw = row[mapping.Date]
	}
	date, ok := validate.ParseDate(dateRaw, time.Time{}, now)
	if !ok && strings.TrimSpace(dateRaw) != "" {
		return nil, fmt.Errorf("unparseable date %q", dateRaw)
	}
	if !ok && strings.TrimSpace(dateRaw) == "" {
		return nil, fmt.Errorf("missing date")
	}

	amt, txnType, err := resolveAmount(row, mapping)
	if err != nil {
		return nil, err
	}

	refID := ""
	if mapping.Reference >= 0 && mapping.Reference < len(row) {
		refID = strings.TrimSpace(row[mapping.Reference])
	}

	var balance *money.Amount
	if mapping.Balance >= 0 && mapping.Balance < len(row) {
		if b, err := money.ParseCommaDot(row[mapping.Balance]); err == nil {
			balance = &b
		}
	}

	return &common.Transaction{
		Amount:      amt,
		Type:        txnType,
		Date:        date,
		Currency:    "INR",
		Description: desc,
		Merchant:    common.Merchant{Raw: desc},
		Recipient:   desc,
		RefID:       refID,
		Balance:     balance,
		RawMessage:  strings.Join(row, " | "),
		Confidence:  1.0,
	}, nil
}

// resolveAmount derives the amount and its sign: either a single signed
// amount column, or whichever of debit/credit is non-zero. "1,250.00 Dr"/
// "500 Cr" suffixes are handled by money.ParseCommaDot's own Dr/Cr inversion.
func resolveAmount(row []string, mapping Mapping) (money.Amount, common.TxnType, error) {
	if mapping.Amount >= 0 {
		if mapping.Amount >= len(row) {
			return 0, "", fmt.Errorf("amount column out of bounds")
		}
		raw := strings.TrimSpace(row[mapping.Amount])
		if raw == "" {
			return 0, "", fmt.Errorf("missing amount")
		}
		amt, err := money.ParseCommaDot(raw)
		if err != nil {
			return 0, "", fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		if amt.IsZero() {
			return 0, "", fmt.Errorf("zero amount")
		}
		if amt.MinorUnits() < 0 {
			return amt.Abs(), common.Debit, nil
		}
		return amt, common.Credit, nil
	}

	if mapping.Debit >= 0 && mapping.Credit >= 0 {
		var debit, credit money.Amount
		if mapping.Debit < len(row) {
			if d, err := money.ParseCommaDot(row[mapping.Debit]); err == nil {
				debit = d.Abs()
			}
		}
		if mapping.Credit < len(row) {
			if c, err := money.ParseCommaDot(row[mapping.Credit]); err == nil {
				credit = c.Abs()
			}
		}
		switch {
		case !debit.IsZero():
			return debit, common.Debit, nil
		case !credit.IsZero():
			return credit, common.Credit, nil
		default:
			return 0, "", fmt.Errorf("both debit and credit are zero")
		}
	}

	return 0, "", fmt.Errorf("no amount mapping configured")
}

// isEmptyRow reports whether every column is blank; such rows are dropped.
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
