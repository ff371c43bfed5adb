// Package pipeline implements the orchestrator that wires classification,
// bank/pattern matching, the AI fallback, normalization/validation, and the
// two dedup layers into a single ingestion request, and persists the
// RequestLog audit trail around it (log-insert -> parse -> log-update) with
// a detached write on cancellation so the audit row always completes.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/ai"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/bank"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/classify"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/dedup"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/normalize"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/pattern"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/validate"
)

// aiThreshold is the minimum regex confidence below which the AI fallback is invoked.
const aiThreshold = 0.9

// aiSaveThreshold is the minimum AI confidence required to persist its
// suggested regex as a new PatternRule.
const aiSaveThreshold = 0.95

// finalizeTimeout bounds the detached audit write issued after the caller's
// context is cancelled.
const finalizeTimeout = 5 * time.Second

// Pipeline is constructed once at service startup and shared across
// requests; it holds no per-request mutable state.
type Pipeline struct {
	repo     store.Repository
	parsers  *bank.ParserRegistry
	patterns *pattern.Engine
	ai       *ai.Client
	now      func() time.Time
}

// New builds a Pipeline. aiClient may be nil: in that case the AI fallback
// is skipped and the pipeline falls back to the best regex candidate
// regardless of its confidence.
func New(repo store.Repository, parsers *bank.ParserRegistry, patterns *pattern.Engine, aiClient *ai.Client) *Pipeline {
	return &Pipeline{repo: repo, parsers: parsers, patterns: patterns, ai: aiClient, now: time.Now}
}

// Ingest runs the canonical message path for an SMS or email submission.
func (p *Pipeline) Ingest(ctx context.Context, source common.Source, sender, content string, receivedAt time.Time) (*common.IngestionResult, error) {
	now := p.now()
	hash := InputHash(source, content)

	dup, err := dedup.CheckSubmission(ctx, p.repo, hash, now)
	if err != nil {
		return nil, fmt.Errorf("pipeline: layer-1 dedup check: %w", err)
	}
	if dup {
		return &common.IngestionResult{Status: common.ResultDuplicateSubmit}, nil
	}

	log, err := p.repo.CreateRequestLog(ctx, source, hash, content)
	if err != nil {
		return nil, fmt.Errorf("pipeline: create request log: %w", err)
	}

	result, status, payload := p.runMessage(ctx, log, source, sender, content, receivedAt, now)
	p.finalize(ctx, log.ID, status, payload)
	return result, nil
}

// runMessage classifies, parses, arbitrates, normalizes, and dedups one
// message, and returns the caller-facing result alongside the
// status/payload to persist on the RequestLog.
func (p *Pipeline) runMessage(ctx context.Context, log *store.RequestLog, source common.Source, sender, content string, receivedAt, now time.Time) (*common.IngestionResult, common.ResultStatus, string) {
	if !classify.IsFinancial(content) {
		return &common.IngestionResult{Status: common.ResultIgnored}, common.ResultIgnored, "{}"
	}

	dateHint := receivedAt
	if dateHint.IsZero() {
		dateHint = now
	}

	var candidates []bank.Candidate
	if p.parsers != nil {
		candidates = append(candidates, bank.EvaluateAll(p.parsers.Parsers(), source, sender, content, dateHint, now)...)
	}
	if p.patterns != nil {
		if patCands, err := p.patterns.Evaluate(ctx, source, content, dateHint, now); err == nil {
			candidates = append(candidates, patCands...)
		}
	}

	best, hasBest := pickBest(candidates)
	winner, parserUsed := p.arbitrate(ctx, source, content, dateHint, now, best, hasBest)

	if winner == nil {
		return &common.IngestionResult{
			Status: common.ResultFailed,
			Logs:   []string{"no regex or AI candidate produced a transaction"},
		}, common.ResultFailed, `{"error":"no_match"}`
	}

	txn := winner.Transaction
	warnings := p.normalize(ctx, &txn, now)

	item := common.ParsedItem{
		Status:      common.StatusExtracted,
		Transaction: txn,
		Metadata:    common.Metadata{ParserUsed: parserUsed, SourceOriginal: source, Confidence: winner.Confidence},
	}

	if dup2, err := dedup.CrossSourceMatch(ctx, p.repo, log.InputHash, txn, now); err == nil && dup2 {
		item.Status = common.StatusCrossSourceDuplicate
		item.Metadata.ParserUsed = "Deduplicator"
	}

	payload, _ := json.Marshal(item)
	result := &common.IngestionResult{Status: common.ResultSuccess, Results: []common.ParsedItem{item}, Logs: warnings}
	return result, common.ResultSuccess, string(payload)
}

// arbitrate picks the best regex candidate; if it doesn't clear aiThreshold,
// it invokes the AI fallback and re-arbitrates by confidence, persisting the
// AI's suggested regex when it wins and clears aiSaveThreshold.
func (p *Pipeline) arbitrate(ctx context.Context, source common.Source, content string, dateHint, now time.Time, best bank.Candidate, hasBest bool) (*bank.Candidate, string) {
	if hasBest && best.Confidence >= aiThreshold {
		return &best, best.ParserName
	}
	if p.ai == nil {
		if hasBest {
			return &best, best.ParserName
		}
		return nil, ""
	}

	extraction := p.ai.Extract(ctx, content, source, dateHint)
	if extraction.Err != nil {
		if hasBest {
			return &best, best.ParserName
		}
		return nil, ""
	}

	aiCandidate := bank.Candidate{Transaction: extraction.Transaction, ParserName: "ai", Confidence: extraction.Confidence}
	if hasBest && best.Confidence >= aiCandidate.Confidence {
		return &best, best.ParserName
	}

	p.maybeSavePattern(ctx, source, extraction, now)
	return &aiCandidate, "ai"
}

// maybeSavePattern persists the AI's suggested regex as a new, de-duplicated
// PatternRule when it clears the save threshold and validates.
func (p *Pipeline) maybeSavePattern(ctx context.Context, source common.Source, ex ai.Extraction, now time.Time) {
	if ex.Confidence < aiSaveThreshold || ex.SuggestedRegex == "" {
		return
	}
	if err := pattern.ValidateRule(ex.SuggestedRegex, ex.FieldMapping); err != nil {
		return
	}
	if _, err := p.repo.FindPatternBySourceAndRegex(ctx, source, ex.SuggestedRegex); err == nil {
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		return
	}

	rule := &store.PatternRule{
		ID:            uuid.New(),
		Source:        source,
		Regex:         ex.SuggestedRegex,
		FieldMapping:  ex.FieldMapping,
		Confidence:    ex.Confidence,
		IsAIGenerated: true,
		IsActive:      true,
		CreatedAt:     now,
	}
	_ = p.repo.CreatePattern(ctx, rule)
}

// normalize applies merchant alias resolution, ref_id synthesis when absent,
// and date enrichment/validation warnings.
func (p *Pipeline) normalize(ctx context.Context, txn *common.Transaction, now time.Time) []string {
	if aliases, err := p.repo.ListAliases(ctx); err == nil && len(aliases) > 0 {
		converted := make([]normalize.MerchantAlias, 0, len(aliases))
		for _, a := range aliases {
			converted = append(converted, normalize.MerchantAlias{Pattern: a.Pattern, Alias: a.Alias})
		}
		subject := txn.Merchant.Cleaned
		if subject == "" {
			subject = txn.Merchant.Raw
		}
		if subject == "" {
			subject = txn.Recipient
		}
		if subject != "" {
			txn.Merchant.Cleaned = normalize.ResolveMerchant(subject, converted)
		}
	}

	if txn.RefID == "" {
		txn.RefID = synthesizeRefID(*txn)
	}

	warnings := validate.Enrich(txn, now)

	return warnings
}

// pickBest selects the highest-confidence candidate, ties broken by
// evaluation order.
func pickBest(candidates []bank.Candidate) (bank.Candidate, bool) {
	var best bank.Candidate
	found := false
	for _, c := range candidates {
		if !found || c.Confidence > best.Confidence {
			best = c
			found = true
		}
	}
	return best, found
}

// finalize writes the terminal RequestLog status. It runs on a context
// detached from ctx's cancellation so the audit row is always completed: if
// the caller already cancelled, the log is force-marked failed/cancelled
// regardless of whatever runMessage computed.
func (p *Pipeline) finalize(ctx context.Context, logID uuid.UUID, status common.ResultStatus, payload string) {
	if ctx.Err() != nil {
		status = common.ResultFailed
		payload = `{"error":"cancelled"}`
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()
	_ = p.repo.UpdateRequestLog(writeCtx, logID, status, payload)
}
