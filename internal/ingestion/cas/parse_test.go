package cas

import "testing"

const sampleCASText = `
CONSOLIDATED ACCOUNT STATEMENT

Folio No: 1234567 / 0
PPFAS Flexicap Fund - Direct Plan - Growth ISIN: INF879O01027 Amfi Code: 122639
01-Apr-2023 Purchase - Systematic Investment 5,000.00 123.4560 40.5000 123.4560
15-May-2023 Redemption -2,000.00 -45.6780 43.8000 77.7780
20-Jun-2023 Stamp Duty on Purchase 1.50 0.0030 50.0000 1234.000

Folio No: 9988776 / 1
Axis Bluechip Fund - Regular Plan - Growth ISIN: INF846K01131 Amfi Code: 120503
10-Feb-2024 Switch In from Axis Liquid Fund 10,000.00 500.0000 20.0000 500.0000
`

func TestFlatten_ExtractsTransactionsAcrossFolios(t *testing.T) {
	txns := Flatten(sampleCASText)
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions (stamp duty row discarded), got %d: %+v", len(txns), txns)
	}

	if txns[0].FolioNumber != "1234567" || txns[0].ISIN != "INF879O01027" || txns[0].Type != Buy {
		t.Errorf("unexpected first transaction: %+v", txns[0])
	}
	if txns[1].Type != Sell || txns[1].Amount != 2000.00 {
		t.Errorf("expected SELL with absolute amount 2000.00, got %+v", txns[1])
	}
	if txns[2].FolioNumber != "9988776" || txns[2].Type != Buy {
		t.Errorf("expected second folio's switch-in to resolve BUY, got %+v", txns[2])
	}
}

func TestFlatten_DiscardsStampDutySTTAndTaxRows(t *testing.T) {
	text := `Folio No: 1 / 0
Fund A ISIN: INF000A01011 Amfi Code: 1
01-Jan-2024 STT on sale -0.50 0.0000 10.0000 0.0000
02-Jan-2024 Tax Deducted -1.00 0.0000 10.0000 0.0000
03-Jan-2024 Purchase - Lumpsum 1,000.00 100.0000 10.0000 100.0000`

	txns := Flatten(text)
	if len(txns) != 1 {
		t.Fatalf("expected only the purchase row to survive, got %d: %+v", len(txns), txns)
	}
}

func TestDeriveType(t *testing.T) {
	cases := []struct {
		desc string
		amt  float64
		want TxnType
	}{
		{"Redemption - Systematic Withdrawal", 100, Sell},
		{"Switch Out to Liquid Fund", 100, Sell},
		{"Purchase - Lumpsum", 100, Buy},
		{"Switch In from Liquid Fund", 100, Buy},
		{"Dividend Reinvestment", -50, Sell},
		{"Dividend Reinvestment", 50, Buy},
	}
	for _, c := range cases {
		if got := deriveType(c.desc, c.amt); got != c.want {
			t.Errorf("deriveType(%q, %v) = %v, want %v", c.desc, c.amt, got, c.want)
		}
	}
}

func TestLooksLikeSummary(t *testing.T) {
	if !looksLikeSummary("This is a Portfolio Summary Statement with no transaction detail") {
		t.Errorf("expected summary text to be detected")
	}
	if looksLikeSummary(sampleCASText) {
		t.Errorf("detailed statement text must not be flagged as summary")
	}
}
