package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/cas"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/dedup"
)

// IngestCAS implements the consolidated-account-statement batch path: a
// single CAS parse replaces per-message classification and arbitration, and
// its row shape is carried on IngestionResult.CASItems rather than Results.
func (p *Pipeline) IngestCAS(ctx context.Context, data []byte, password string) (*common.IngestionResult, error) {
	now := p.now()
	content := string(data)
	hash := InputHash(common.SourceCAS, content)

	dup, err := dedup.CheckSubmission(ctx, p.repo, hash, now)
	if err != nil {
		return nil, fmt.Errorf("pipeline: layer-1 dedup check: %w", err)
	}
	if dup {
		return &common.IngestionResult{Status: common.ResultDuplicateSubmit}, nil
	}

	log, err := p.repo.CreateRequestLog(ctx, common.SourceCAS, hash, content)
	if err != nil {
		return nil, fmt.Errorf("pipeline: create request log: %w", err)
	}

	result, status, payload := p.runCAS(data, password, now)
	p.finalize(ctx, log.ID, status, payload)
	return result, nil
}

func (p *Pipeline) runCAS(data []byte, password string, now time.Time) (*common.IngestionResult, common.ResultStatus, string) {
	parsed, err := cas.Parse(data, password)
	if err != nil {
		return &common.IngestionResult{Status: common.ResultFailed, Logs: []string{err.Error()}},
			common.ResultFailed, fmt.Sprintf("%q", err.Error())
	}

	items := make([]common.CASItem, 0, len(parsed.Transactions))
	for _, t := range parsed.Transactions {
		items = append(items, common.CASItem{
			Date:        t.Date,
			SchemeName:  t.SchemeName,
			AMFI:        t.AMFI,
			ISIN:        t.ISIN,
			FolioNumber: t.FolioNumber,
			Type:        string(t.Type),
			Amount:      t.Amount,
			Units:       t.Units,
			NAV:         t.NAV,
			ExternalID:  t.ExternalID,
		})
	}

	result := &common.IngestionResult{Status: common.ResultSuccess, CASItems: items}
	payload, _ := json.Marshal(items)
	return result, common.ResultSuccess, string(payload)
}
