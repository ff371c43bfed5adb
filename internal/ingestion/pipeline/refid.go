package pipeline

import (
	"fmt"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// synthesizeRefID builds the GEN-<yyyymmddHHMMSS>-<mask>-<amount> identifier
// for a transaction that carries no bank-issued reference. It derives the
// timestamp component from the transaction's own parsed date rather than
// wall-clock time, so replaying the identical text through the identical
// code path always yields the identical id.
func synthesizeRefID(txn common.Transaction) string {
	mask := txn.Account.Mask
	if mask == "" {
		mask = "0000"
	}
	return fmt.Sprintf("GEN-%s-%s-%s", txn.Date.Format("20060102150405"), mask, txn.Amount.String())
}
