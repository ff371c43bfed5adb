package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/bank"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/pipeline"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

// fakeRepo is a minimal in-memory store.Repository stand-in covering only
// the calls the pipeline makes during a request.
type fakeRepo struct {
	store.Repository

	byHash   map[string]*store.RequestLog
	fileCfgs map[string]*store.FileParsingConfig
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byHash: map[string]*store.RequestLog{}, fileCfgs: map[string]*store.FileParsingConfig{}}
}

func (f *fakeRepo) FindRecentByHash(ctx context.Context, inputHash string, since time.Time) (*store.RequestLog, error) {
	if log, ok := f.byHash[inputHash]; ok {
		return log, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) CreateRequestLog(ctx context.Context, source common.Source, inputHash, inputPayload string) (*store.RequestLog, error) {
	log := &store.RequestLog{ID: uuid.New(), Source: source, InputHash: inputHash, InputPayload: inputPayload, Status: "processing", CreatedAt: time.Now()}
	f.byHash[inputHash] = log
	return log, nil
}

func (f *fakeRepo) UpdateRequestLog(ctx context.Context, id uuid.UUID, status common.ResultStatus, outputPayload string) error {
	return nil
}

func (f *fakeRepo) ListRecentSuccessful(ctx context.Context, excludeHash string, since time.Time) ([]*store.RequestLog, error) {
	return nil, nil
}

func (f *fakeRepo) ListAliases(ctx context.Context) ([]*store.MerchantAlias, error) {
	return nil, nil
}

func (f *fakeRepo) GetFileConfigByFingerprint(ctx context.Context, fingerprint string) (*store.FileParsingConfig, error) {
	if cfg, ok := f.fileCfgs[fingerprint]; ok {
		return cfg, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) UpsertFileConfig(ctx context.Context, cfg *store.FileParsingConfig) error {
	f.fileCfgs[cfg.Fingerprint] = cfg
	return nil
}

// failingRepo returns a generic error from CreateRequestLog, forcing
// respondResult's internal-server-error branch.
type failingRepo struct {
	store.Repository
}

func (failingRepo) FindRecentByHash(ctx context.Context, inputHash string, since time.Time) (*store.RequestLog, error) {
	return nil, store.ErrNotFound
}

func (failingRepo) CreateRequestLog(ctx context.Context, source common.Source, inputHash, inputPayload string) (*store.RequestLog, error) {
	return nil, errors.New("database unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestIngestionHandler(repo store.Repository) *IngestionHandler {
	pl := pipeline.New(repo, bank.NewParserRegistry(), nil, nil)
	return NewIngestionHandler(pl, discardLogger())
}

func decodeIngestionResult(t *testing.T, rec *httptest.ResponseRecorder) common.IngestionResult {
	t.Helper()
	var result common.IngestionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response body: %v (body=%s)", err, rec.Body.String())
	}
	return result
}

func TestIngestionHandler_SMS_Success(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	body := `{"sender":"HDFCBK","body":"Sent Rs.70.00 From HDFC Bank A/C *5244 To Mr SIDHARTHA SWAIN On 09/01/26 Ref 116929657356"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/sms", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.SMS(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	result := decodeIngestionResult(t, rec)
	if result.Status != common.ResultSuccess {
		t.Fatalf("status = %s, want success", result.Status)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
}

func TestIngestionHandler_SMS_InvalidJSON(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/sms", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.SMS(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestIngestionHandler_Email_SubjectAndBodyJoined(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	body := `{"subject":"Alert","body_text":"INR 869.00 spent using ICICI Bank Card XX0004 on 23-Sep-24 on IND*Amazon. Avl Limit: INR 2,39,131.00","sender":"ICICIB"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/email", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Email(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	result := decodeIngestionResult(t, rec)
	if result.Status != common.ResultSuccess {
		t.Fatalf("status = %s, want success", result.Status)
	}
}

func TestIngestionHandler_RespondResult_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"input rejected", common.ErrInputRejected, http.StatusBadRequest},
		{"decryption failed", common.ErrDecryptionFailed, http.StatusBadRequest},
		{"summary statement", common.ErrSummaryStatement, http.StatusUnprocessableEntity},
		{"unmapped error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &IngestionHandler{logger: discardLogger()}
			rec := httptest.NewRecorder()
			h.respondResult(rec, common.SourceSMS, nil, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestIngestionHandler_RespondResult_AnalysisRequiredIs200(t *testing.T) {
	h := &IngestionHandler{logger: discardLogger()}
	rec := httptest.NewRecorder()

	result := &common.IngestionResult{Status: common.ResultAnalysisRequired}
	h.respondResult(rec, common.SourceFile, result, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestIngestionHandler_File_MissingFileField(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("password", "")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestIngestionHandler_File_InvalidMappingOverrideJSON(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("Date,Description,Amount\n01-01-2026,Coffee Shop,-150.00\n"))
	_ = w.WriteField("mapping_override", "{not json")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestIngestionHandler_File_InvalidHeaderRowIndex(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("Date,Description,Amount\n01-01-2026,Coffee Shop,-150.00\n"))
	_ = w.WriteField("mapping_override", `{"date":"Date","description":"Description","amount":"Amount"}`)
	_ = w.WriteField("header_row_index", "not-a-number")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestIngestionHandler_File_MappingOverrideSucceeds(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("Date,Description,Amount\n01-01-2026,Coffee Shop,-150.00\n"))
	_ = w.WriteField("mapping_override", `{"date":"Date","description":"Description","amount":"Amount"}`)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	result := decodeIngestionResult(t, rec)
	if result.Status != common.ResultSuccess {
		t.Fatalf("status = %s, want success (body=%s)", result.Status, rec.Body.String())
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
}

func TestIngestionHandler_File_NoMappingNoFingerprintRequiresAnalysis(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write([]byte("Date,Description,Amount\n01-01-2026,Coffee Shop,-150.00\n"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.File(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	result := decodeIngestionResult(t, rec)
	if result.Status != common.ResultAnalysisRequired {
		t.Fatalf("status = %s, want analysis_required", result.Status)
	}
	if result.Analysis == nil {
		t.Fatalf("expected Analysis to be populated")
	}
}

func TestIngestionHandler_CAS_MissingFileField(t *testing.T) {
	h := newTestIngestionHandler(newFakeRepo())

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/cas", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.CAS(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestIngestionHandler_SMS_RequestLogFailureIsInternalError(t *testing.T) {
	h := newTestIngestionHandler(failingRepo{})

	body := `{"sender":"HDFCBK","body":"Sent Rs.70.00 From HDFC Bank A/C *5244 To Mr SIDHARTHA SWAIN On 09/01/26"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/ingest/sms", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.SMS(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusInternalServerError, rec.Body.String())
	}
}
