// Package pattern holds persisted user/AI-learned regex patterns, evaluated
// with the same contract as the bank parsers (via internal/ingestion/bank's
// shared evaluator) but with a confidence cap for operator-submitted rules.
package pattern

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/bank"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

// userPatternCap is the confidence ceiling for a pattern that was not
// AI-generated.
const userPatternCap = 0.70

// aiPatternCap is the confidence ceiling honored for an AI-generated rule.
const aiPatternCap = 0.95

// Engine loads active PatternRules for a source and evaluates them against a
// message using the same per-pattern contract as the bank parser set.
type Engine struct {
	repo store.Repository
}

func NewEngine(repo store.Repository) *Engine {
	return &Engine{repo: repo}
}

// Evaluate loads every active PatternRule for source and returns one
// bank.Candidate per match, with confidence clamped to the rule's ceiling.
func (e *Engine) Evaluate(ctx context.Context, source common.Source, content string, dateHint, now time.Time) ([]bank.Candidate, error) {
	rules, err := e.repo.ListActivePatterns(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("pattern: list active patterns: %w", err)
	}

	var candidates []bank.Candidate
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Regex)
		if err != nil {
			// A rule that no longer compiles is skipped, never fatal to the batch.
			continue
		}

		confidence := rule.Confidence
		ceiling := userPatternCap
		if rule.IsAIGenerated {
			ceiling = aiPatternCap
		}
		if confidence > ceiling || confidence <= 0 {
			confidence = ceiling
		}

		pat := bank.TransactionPattern{
			Regex:      re,
			Confidence: confidence,
			TxnType:    common.Debit,
			FieldMap:   bank.FieldMap(rule.FieldMapping),
		}

		if c, ok := bank.EvaluatePattern(pat, fmt.Sprintf("pattern:%s", rule.ID), source, content, dateHint, now); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// ValidateRule refuses a rule unless its regex compiles, the mapping includes
// "amount", and every mapped group index is within the regex's capture-group
// count.
func ValidateRule(regexSrc string, fieldMapping map[string]int) error {
	re, err := regexp.Compile(regexSrc)
	if err != nil {
		return fmt.Errorf("pattern: regex does not compile: %w", err)
	}
	groupCount := re.NumSubexp()
	for field, idx := range fieldMapping {
		if idx < 1 || idx > groupCount {
			return fmt.Errorf("pattern: field %q maps to group %d, out of bounds [1,%d]", field, idx, groupCount)
		}
	}
	if _, ok := fieldMapping["amount"]; !ok {
		return fmt.Errorf("pattern: field_mapping must include \"amount\"")
	}
	return nil
}

// TestRule evaluates regexSrc/fieldMapping against sampleText for the
// /v1/patterns/test management endpoint, returning the extracted named
// fields or the compile/match error.
func TestRule(regexSrc string, fieldMapping map[string]int, sampleText string, dateHint, now time.Time) (map[string]string, error) {
	if err := ValidateRule(regexSrc, fieldMapping); err != nil {
		return nil, err
	}
	re := regexp.MustCompile(regexSrc)
	pat := bank.TransactionPattern{
		Regex:      re,
		Confidence: userPatternCap,
		TxnType:    common.Debit,
		FieldMap:   bank.FieldMap(fieldMapping),
	}
	c, ok := bank.EvaluatePattern(pat, "test", common.SourceSMS, sampleText, dateHint, now)
	if !ok {
		return nil, fmt.Errorf("pattern: regex did not match sample text")
	}
	return map[string]string{
		"amount":    c.Transaction.Amount.String(),
		"type":      string(c.Transaction.Type),
		"mask":      c.Transaction.Account.Mask,
		"recipient": c.Transaction.Recipient,
		"ref_id":    c.Transaction.RefID,
	}, nil
}
