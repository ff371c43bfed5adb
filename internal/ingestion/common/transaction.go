package common

import (
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/pkg/money"
)

// Account identifies the bank account/card a transaction was posted against.
type Account struct {
	Mask     string `json:"mask,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// Merchant carries both the as-parsed and normalized merchant text.
type Merchant struct {
	Raw     string `json:"raw,omitempty"`
	Cleaned string `json:"cleaned,omitempty"`
}

// Transaction is the canonical output of the ingestion pipeline.
type Transaction struct {
	Amount      money.Amount `json:"amount"`
	Type        TxnType      `json:"type"`
	Date        time.Time    `json:"date"`
	Currency    string       `json:"currency"`
	Account     Account      `json:"account"`
	Merchant    Merchant     `json:"merchant"`
	Description string       `json:"description"`
	Recipient   string       `json:"recipient"`
	RefID       string       `json:"ref_id"`
	Balance     *money.Amount `json:"balance,omitempty"`
	CreditLimit *money.Amount `json:"credit_limit,omitempty"`
	Category    string       `json:"category,omitempty"`
	RawMessage  string       `json:"raw_message"`
	Confidence  float64      `json:"confidence"`
}

// Metadata is ParsedItem's companion metadata block.
type Metadata struct {
	ParserUsed     string  `json:"parser_used"`
	SourceOriginal Source  `json:"source_original"`
	Confidence     float64 `json:"confidence"`
}

// ParsedItem wraps a Transaction with its pipeline status and provenance.
type ParsedItem struct {
	Status      ItemStatus  `json:"status"`
	Transaction Transaction `json:"transaction"`
	Metadata    Metadata    `json:"metadata"`
}

// IngestionResult is the top-level response of every ingestion endpoint.
type IngestionResult struct {
	Status  ResultStatus `json:"status"`
	Results []ParsedItem `json:"results,omitempty"`
	Logs    []string     `json:"logs,omitempty"`

	// Analysis is populated only when Status == ResultAnalysisRequired.
	Analysis *FileAnalysis `json:"analysis,omitempty"`

	// CASItems is populated only by the CAS ingestion endpoint: a consolidated
	// account statement's output shape is a flat holdings-transaction row, not
	// a bank Transaction, so it is carried as its own slice rather than forced
	// into Results.
	CASItems []CASItem `json:"cas_items,omitempty"`
}

// FileAnalysis is the file-analysis operation's return payload.
type FileAnalysis struct {
	HeaderRowIndex int                 `json:"header_row_index"`
	Headers        []string            `json:"headers"`
	Preview        []map[string]string `json:"preview"`
}

// CASItem is one flattened row of a consolidated account statement.
type CASItem struct {
	Date        time.Time `json:"date"`
	SchemeName  string    `json:"scheme_name"`
	AMFI        string    `json:"amfi"`
	ISIN        string    `json:"isin"`
	FolioNumber string    `json:"folio_number"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Units       float64   `json:"units"`
	NAV         float64   `json:"nav"`
	ExternalID  string    `json:"external_id"`
}
