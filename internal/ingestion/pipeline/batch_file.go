package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/dedup"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/file"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

// FileMapping is the caller-supplied `mapping_override`: a canonical field
// name mapped to the source file's header text.
type FileMapping map[string]string

// IngestFile implements the file batch path: header detection and row
// extraction replace per-message classification and arbitration. Each row
// still goes through merchant/date normalization, but Layer-2 cross-source
// dedup is skipped since it isn't needed for bulk imports.
func (p *Pipeline) IngestFile(ctx context.Context, filename string, data []byte, password, accountFingerprint string, mappingOverride FileMapping, headerRowIndexOverride *int) (*common.IngestionResult, error) {
	now := p.now()
	content := string(data)
	hash := InputHash(common.SourceFile, content)

	dup, err := dedup.CheckSubmission(ctx, p.repo, hash, now)
	if err != nil {
		return nil, fmt.Errorf("pipeline: layer-1 dedup check: %w", err)
	}
	if dup {
		return &common.IngestionResult{Status: common.ResultDuplicateSubmit}, nil
	}

	log, err := p.repo.CreateRequestLog(ctx, common.SourceFile, hash, content)
	if err != nil {
		return nil, fmt.Errorf("pipeline: create request log: %w", err)
	}

	result, status, payload := p.runFile(ctx, filename, data, password, accountFingerprint, mappingOverride, headerRowIndexOverride, now)
	p.finalize(ctx, log.ID, status, payload)
	return result, nil
}

func (p *Pipeline) runFile(ctx context.Context, filename string, data []byte, password, accountFingerprint string, mappingOverride FileMapping, headerRowIndexOverride *int, now time.Time) (*common.IngestionResult, common.ResultStatus, string) {
	format := fileFormat(filename)
	rows, err := loadFileRows(format, data, password)
	if err != nil {
		return &common.IngestionResult{Status: common.ResultFailed, Logs: []string{err.Error()}},
			common.ResultFailed, fmt.Sprintf("%q", err.Error())
	}

	analysis := file.Analyze(rows)
	headerIdx := analysis.HeaderRowIndex
	headers := analysis.Headers
	fingerprint := accountFingerprint
	if fingerprint == "" {
		fingerprint = analysis.Fingerprint
	}

	var columns map[string]string
	switch {
	case len(mappingOverride) > 0:
		columns = mappingOverride
		if headerRowIndexOverride != nil {
			headerIdx = *headerRowIndexOverride
			if headerIdx >= 0 && headerIdx < len(rows) {
				headers = cleanHeaders(rows[headerIdx])
			}
		}
	case fingerprint != "":
		cfg, cfgErr := p.repo.GetFileConfigByFingerprint(ctx, fingerprint)
		if cfgErr != nil {
			if !errors.Is(cfgErr, store.ErrNotFound) {
				return &common.IngestionResult{Status: common.ResultFailed, Logs: []string{cfgErr.Error()}},
					common.ResultFailed, fmt.Sprintf("%q", cfgErr.Error())
			}
			return analysisRequiredResult(analysis)
		}
		headerIdx = cfg.HeaderRowIdx
		if headerIdx >= 0 && headerIdx < len(rows) {
			headers = cleanHeaders(rows[headerIdx])
		}
		columns = cfg.Columns
	default:
		return analysisRequiredResult(analysis)
	}

	mapping := buildMapping(headers, columns)

	if len(mappingOverride) > 0 && fingerprint != "" {
		_ = p.repo.UpsertFileConfig(ctx, &store.FileParsingConfig{
			Fingerprint:  fingerprint,
			Format:       format,
			HeaderRowIdx: headerIdx,
			Columns:      columns,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	outcome := file.Parse(ctx, rows, headerIdx, mapping, now)

	items := make([]common.ParsedItem, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		txn := r.Transaction
		p.normalize(ctx, &txn, now)
		items = append(items, common.ParsedItem{
			Status:      common.StatusExtracted,
			Transaction: txn,
			Metadata:    common.Metadata{ParserUsed: "file", SourceOriginal: common.SourceFile, Confidence: 1.0},
		})
	}

	result := &common.IngestionResult{Status: common.ResultSuccess, Results: items, Logs: outcome.SkippedLogs}
	payload, _ := json.Marshal(items)
	return result, common.ResultSuccess, string(payload)
}

func analysisRequiredResult(analysis *file.AnalyzeResult) (*common.IngestionResult, common.ResultStatus, string) {
	fa := &common.FileAnalysis{HeaderRowIndex: analysis.HeaderRowIndex, Headers: analysis.Headers, Preview: analysis.Preview}
	payload, _ := json.Marshal(fa)
	return &common.IngestionResult{Status: common.ResultAnalysisRequired, Analysis: fa}, common.ResultAnalysisRequired, string(payload)
}

func fileFormat(filename string) string {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return "EXCEL"
	}
	return "CSV"
}

func loadFileRows(format string, data []byte, password string) ([][]string, error) {
	if format == "EXCEL" {
		return file.ReadXLSXRows(data, password)
	}
	return file.ReadCSVRows(data)
}

func cleanHeaders(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// buildMapping resolves a canonical-field -> header-text map (the persisted
// or caller-supplied form) into column indices against the actual header row.
func buildMapping(headers []string, columns map[string]string) file.Mapping {
	idx := func(field string) int {
		target := strings.TrimSpace(columns[field])
		if target == "" {
			return -1
		}
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), target) {
				return i
			}
		}
		return -1
	}
	return file.Mapping{
		Date:        idx("date"),
		Description: idx("description"),
		Amount:      idx("amount"),
		Debit:       idx("debit"),
		Credit:      idx("credit"),
		Reference:   idx("reference"),
		Balance:     idx("balance"),
	}
}
