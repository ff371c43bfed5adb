// Package common holds sentinel errors and cross-cutting value types shared
// by every ingestion component.
package common

import "errors"

// Error kinds per the error-handling design: every component returns one of
// these (wrapped with context) instead of panicking or propagating an
// implementation-specific error across a component boundary.
var (
	// ErrInputRejected marks a malformed request body or an unsupported file type.
	ErrInputRejected = errors.New("input rejected")
	// ErrAnalysisRequired marks a file upload with no known fingerprint/mapping.
	ErrAnalysisRequired = errors.New("analysis required")
	// ErrDecryptionFailed marks a wrong password on an encrypted XLSX/CAS file.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrAIUnavailable marks a recoverable AI-provider failure (network, disabled, missing key).
	ErrAIUnavailable = errors.New("ai fallback unavailable")
	// ErrNotFound marks a missing persisted entity (pattern, alias, mapping, log row).
	ErrNotFound = errors.New("requested item not found")
	// ErrConflict marks a uniqueness violation (e.g. duplicate (source, regex) pattern).
	ErrConflict = errors.New("item already exists or conflict")
	// ErrInvalidPattern marks a PatternRule whose regex fails to compile or whose
	// field_mapping indices exceed the regex's capture-group count.
	ErrInvalidPattern = errors.New("pattern regex invalid or field mapping out of bounds")
	// ErrSummaryStatement marks a CAS PDF that is a summary variant with no
	// per-transaction detail.
	ErrSummaryStatement = errors.New("statement is a summary variant; upload the detailed transaction statement")
)

// Source identifies where a raw message originated.
type Source string

const (
	SourceSMS   Source = "SMS"
	SourceEmail Source = "EMAIL"
	SourceFile  Source = "FILE"
	SourceCAS   Source = "CAS"
)

// TxnType is the direction of a transaction.
type TxnType string

const (
	Debit  TxnType = "DEBIT"
	Credit TxnType = "CREDIT"
)

// ItemStatus is the status of a single ParsedItem within an IngestionResult.
type ItemStatus string

const (
	StatusExtracted            ItemStatus = "extracted"
	StatusCrossSourceDuplicate ItemStatus = "cross_source_duplicate"
	StatusFailed               ItemStatus = "failed"
)

// ResultStatus is the top-level status of an IngestionResult.
type ResultStatus string

const (
	ResultSuccess            ResultStatus = "success"
	ResultIgnored            ResultStatus = "ignored"
	ResultDuplicateSubmit    ResultStatus = "duplicate_submission"
	ResultAnalysisRequired   ResultStatus = "analysis_required"
	ResultFailed             ResultStatus = "failed"
)
