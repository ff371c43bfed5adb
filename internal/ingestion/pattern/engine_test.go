package pattern

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

type fakeRepo struct {
	store.Repository
	rules []*store.PatternRule
}

func (f *fakeRepo) ListActivePatterns(ctx context.Context, source common.Source) ([]*store.PatternRule, error) {
	return f.rules, nil
}

func TestValidateRule(t *testing.T) {
	if err := ValidateRule(`(?i)paid\s*Rs\.?\s*([\d.]+)\s*to\s*(.*)`, map[string]int{"amount": 1, "recipient": 2}); err != nil {
		t.Errorf("expected valid rule, got %v", err)
	}

	if err := ValidateRule(`(?i)paid\s*Rs\.?\s*([\d.]+)`, map[string]int{"amount": 1, "recipient": 5}); err == nil {
		t.Errorf("expected out-of-bounds group index to fail validation")
	}

	if err := ValidateRule(`(unterminated`, map[string]int{"amount": 1}); err == nil {
		t.Errorf("expected non-compiling regex to fail validation")
	}

	if err := ValidateRule(`(?i)some text (\d+)`, map[string]int{"mask": 1}); err == nil {
		t.Errorf("expected missing amount field to fail validation")
	}
}

func TestEngine_EvaluateCapsUserConfidence(t *testing.T) {
	repo := &fakeRepo{rules: []*store.PatternRule{
		{
			ID:            uuid.New(),
			Source:        common.SourceSMS,
			Regex:         `(?i)paid\s*Rs\.?\s*([\d.]+)\s*to\s*(.*?)\s*via`,
			FieldMapping:  map[string]int{"amount": 1, "recipient": 2},
			Confidence:    0.99,
			IsAIGenerated: false,
			IsActive:      true,
		},
	}}
	engine := NewEngine(repo)
	now := time.Now()
	candidates, err := engine.Evaluate(context.Background(), common.SourceSMS, "You paid Rs 250 to CHAYA TEA STALL via Foo Bank", time.Time{}, now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Confidence != userPatternCap {
		t.Errorf("confidence = %v, want capped at %v", candidates[0].Confidence, userPatternCap)
	}
}

func TestEngine_EvaluateHonorsAIConfidenceUpToCap(t *testing.T) {
	repo := &fakeRepo{rules: []*store.PatternRule{
		{
			ID:            uuid.New(),
			Source:        common.SourceSMS,
			Regex:         `(?i)paid\s*Rs\.?\s*([\d.]+)\s*to\s*(.*?)\s*via`,
			FieldMapping:  map[string]int{"amount": 1, "recipient": 2},
			Confidence:    0.95,
			IsAIGenerated: true,
			IsActive:      true,
		},
	}}
	engine := NewEngine(repo)
	now := time.Now()
	candidates, err := engine.Evaluate(context.Background(), common.SourceSMS, "You paid Rs 250 to CHAYA TEA STALL via Foo Bank", time.Time{}, now)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Confidence != 0.95 {
		t.Fatalf("expected AI-generated confidence 0.95 honored, got %+v", candidates)
	}
}

func TestTestRule(t *testing.T) {
	fields, err := TestRule(`(?i)paid\s*Rs\.?\s*([\d.]+)\s*to\s*(.*?)\s*via`, map[string]int{"amount": 1, "recipient": 2},
		"You paid Rs 250 to CHAYA TEA STALL via Foo Bank", time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("TestRule: %v", err)
	}
	if fields["amount"] != "250.00" {
		t.Errorf("amount = %s, want 250.00", fields["amount"])
	}
}
