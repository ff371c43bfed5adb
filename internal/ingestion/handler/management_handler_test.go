package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

// fakeManagementRepo is a minimal in-memory store.Repository stand-in
// covering every call ManagementHandler makes.
type fakeManagementRepo struct {
	store.Repository

	aiConfig *store.AIConfig
	patterns map[uuid.UUID]*store.PatternRule
	aliases  map[uuid.UUID]*store.MerchantAlias
	logs     []*store.RequestLog
}

func newFakeManagementRepo() *fakeManagementRepo {
	return &fakeManagementRepo{
		patterns: map[uuid.UUID]*store.PatternRule{},
		aliases:  map[uuid.UUID]*store.MerchantAlias{},
	}
}

func (f *fakeManagementRepo) GetAIConfig(ctx context.Context) (*store.AIConfig, error) {
	if f.aiConfig == nil {
		return nil, store.ErrNotFound
	}
	return f.aiConfig, nil
}

func (f *fakeManagementRepo) UpsertAIConfig(ctx context.Context, cfg *store.AIConfig) error {
	f.aiConfig = cfg
	return nil
}

func (f *fakeManagementRepo) UpsertFileConfig(ctx context.Context, cfg *store.FileParsingConfig) error {
	return nil
}

func (f *fakeManagementRepo) ListPatterns(ctx context.Context, source *common.Source, isAIGenerated *bool, search string) ([]*store.PatternRule, error) {
	var out []*store.PatternRule
	for _, p := range f.patterns {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeManagementRepo) GetPattern(ctx context.Context, id uuid.UUID) (*store.PatternRule, error) {
	if p, ok := f.patterns[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeManagementRepo) FindPatternBySourceAndRegex(ctx context.Context, source common.Source, regex string) (*store.PatternRule, error) {
	for _, p := range f.patterns {
		if p.Source == source && p.Regex == regex {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeManagementRepo) CreatePattern(ctx context.Context, p *store.PatternRule) error {
	f.patterns[p.ID] = p
	return nil
}

func (f *fakeManagementRepo) UpdatePattern(ctx context.Context, p *store.PatternRule) error {
	f.patterns[p.ID] = p
	return nil
}

func (f *fakeManagementRepo) SoftDeletePattern(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.patterns[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.patterns, id)
	return nil
}

func (f *fakeManagementRepo) ListAliases(ctx context.Context) ([]*store.MerchantAlias, error) {
	var out []*store.MerchantAlias
	for _, a := range f.aliases {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeManagementRepo) CreateAlias(ctx context.Context, a *store.MerchantAlias) error {
	f.aliases[a.ID] = a
	return nil
}

func (f *fakeManagementRepo) DeleteAlias(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.aliases[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.aliases, id)
	return nil
}

func (f *fakeManagementRepo) ListLogs(ctx context.Context, limit, offset int) ([]*store.RequestLog, int64, error) {
	return f.logs, int64(len(f.logs)), nil
}

func (f *fakeManagementRepo) GetLogByID(ctx context.Context, id uuid.UUID) (*store.RequestLog, error) {
	for _, l := range f.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, store.ErrNotFound
}

func newTestManagementHandler(repo store.Repository) *ManagementHandler {
	return NewManagementHandler(repo, discardLogger())
}

func TestManagementHandler_GetAIConfig_DefaultsWhenUnset(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	req := httptest.NewRequest(http.MethodGet, "/v1/config/ai", nil)
	rec := httptest.NewRecorder()
	h.GetAIConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp aiConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", resp.Provider)
	}
}

func TestManagementHandler_UpsertAIConfig_NeverEchoesKey(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	body := `{"provider":"gemini","model_name":"gemini-1.5-flash","api_key":"secret-key-1234","is_enabled":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/config/ai", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpsertAIConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret-key-1234") {
		t.Fatalf("response leaked raw api key: %s", rec.Body.String())
	}
	var resp aiConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MaskedKeySuffix != "1234" {
		t.Errorf("masked_key_suffix = %q, want 1234", resp.MaskedKeySuffix)
	}
}

func TestManagementHandler_CreatePattern_InvalidRegexRejected(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	body := `{"source":"SMS","regex":"(unterminated","field_mapping":{"amount":1}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/patterns", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreatePattern(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestManagementHandler_CreatePattern_DuplicateIsConflict(t *testing.T) {
	repo := newFakeManagementRepo()
	h := newTestManagementHandler(repo)

	body := `{"source":"SMS","regex":"Rs\\.(\\d+) debited","field_mapping":{"amount":1},"confidence":0.5}`

	req1 := httptest.NewRequest(http.MethodPost, "/v1/patterns", strings.NewReader(body))
	rec1 := httptest.NewRecorder()
	h.CreatePattern(rec1, req1)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want %d (body=%s)", rec1.Code, http.StatusCreated, rec1.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodPost, "/v1/patterns", strings.NewReader(body))
	rec2 := httptest.NewRecorder()
	h.CreatePattern(rec2, req2)
	if rec2.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, want %d (body=%s)", rec2.Code, http.StatusConflict, rec2.Body.String())
	}
}

func TestManagementHandler_DeletePattern_NotFound(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	req := httptest.NewRequest(http.MethodDelete, "/v1/patterns/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	h.DeletePattern(rec, req, uuid.New().String())

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestManagementHandler_TestPattern_MatchAndNoMatch(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	t.Run("matches", func(t *testing.T) {
		body := `{"regex":"Rs\\.(\\d+) debited","field_mapping":{"amount":1},"sample_text":"Rs.500 debited"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/patterns/test", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.TestPattern(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if matched, _ := resp["matched"].(bool); !matched {
			t.Errorf("matched = %v, want true (body=%s)", resp["matched"], rec.Body.String())
		}
	})

	t.Run("no match", func(t *testing.T) {
		body := `{"regex":"Rs\\.(\\d+) debited","field_mapping":{"amount":1},"sample_text":"unrelated text"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/patterns/test", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.TestPattern(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if matched, _ := resp["matched"].(bool); matched {
			t.Errorf("matched = %v, want false", resp["matched"])
		}
	})
}

func TestManagementHandler_CreateAlias_RequiresPatternAndAlias(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	req := httptest.NewRequest(http.MethodPost, "/v1/config/aliases", strings.NewReader(`{"pattern":"","alias":""}`))
	rec := httptest.NewRecorder()
	h.CreateAlias(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestManagementHandler_CreateAlias_Success(t *testing.T) {
	h := newTestManagementHandler(newFakeManagementRepo())

	req := httptest.NewRequest(http.MethodPost, "/v1/config/aliases", strings.NewReader(`{"pattern":"AMZN","alias":"Amazon"}`))
	rec := httptest.NewRecorder()
	h.CreateAlias(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestManagementHandler_Stats_BreaksDownByStatusAndSource(t *testing.T) {
	repo := newFakeManagementRepo()
	item := common.ParsedItem{Metadata: common.Metadata{ParserUsed: "HDFC"}}
	payload, err := json.Marshal([]common.ParsedItem{item})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	repo.logs = []*store.RequestLog{
		{ID: uuid.New(), Source: common.SourceSMS, Status: common.ResultSuccess, OutputPayload: string(payload), CreatedAt: time.Now()},
		{ID: uuid.New(), Source: common.SourceSMS, Status: common.ResultFailed, CreatedAt: time.Now().Add(-48 * time.Hour)},
	}
	h := newTestManagementHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp map[string]map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status_breakdown"][string(common.ResultSuccess)] != 1 {
		t.Errorf("status_breakdown[success] = %d, want 1 (only the recent log should count)", resp["status_breakdown"][string(common.ResultSuccess)])
	}
	if resp["parser_performance"]["HDFC"] != 1 {
		t.Errorf("parser_performance[HDFC] = %d, want 1", resp["parser_performance"]["HDFC"])
	}
}
