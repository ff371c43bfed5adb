package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/bank"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

func TestIngestCAS_UnsupportedContentFailsGracefully(t *testing.T) {
	repo := newFakeRepo()
	pl := New(repo, bank.NewParserRegistry(), nil, nil)
	pl.now = func() time.Time { return time.Now() }

	result, err := pl.IngestCAS(context.Background(), []byte("not a real pdf"), "")
	if err != nil {
		t.Fatalf("IngestCAS: %v", err)
	}
	if result.Status != common.ResultFailed {
		t.Fatalf("status = %s, want failed for unparseable PDF bytes", result.Status)
	}
}

func TestIngestCAS_DuplicateSubmissionWithinWindow(t *testing.T) {
	repo := newFakeRepo()
	pl := New(repo, bank.NewParserRegistry(), nil, nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pl.now = func() time.Time { return now }

	data := []byte("identical CAS upload bytes")
	first, err := pl.IngestCAS(context.Background(), data, "")
	if err != nil {
		t.Fatalf("first IngestCAS: %v", err)
	}
	if first.Status == common.ResultDuplicateSubmit {
		t.Fatalf("first submission must not be a duplicate")
	}

	second, err := pl.IngestCAS(context.Background(), data, "")
	if err != nil {
		t.Fatalf("second IngestCAS: %v", err)
	}
	if second.Status != common.ResultDuplicateSubmit {
		t.Fatalf("second status = %s, want duplicate_submission", second.Status)
	}
}
