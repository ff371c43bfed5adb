// Package handler implements the inbound ingestion API (this file) and the
// management API (management_handler.go) using plain JSON request/response
// structs over net/http.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/pipeline"
	"github.com/FACorreiaa/smart-finance-tracker/pkg/observability"
)

const maxUploadBytes = 25 << 20 // 25 MiB, generous headroom over a typical bank statement/CAS PDF

// IngestionHandler serves the four ingestion endpoints: SMS, email, file, and CAS.
type IngestionHandler struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// NewIngestionHandler constructs an IngestionHandler.
func NewIngestionHandler(pl *pipeline.Pipeline, logger *slog.Logger) *IngestionHandler {
	return &IngestionHandler{pipeline: pl, logger: logger}
}

type smsRequest struct {
	Sender     string     `json:"sender"`
	Body       string     `json:"body"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

type emailRequest struct {
	Subject    string     `json:"subject"`
	BodyText   string     `json:"body_text"`
	Sender     string     `json:"sender"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// SMS handles POST /v1/ingest/sms.
func (h *IngestionHandler) SMS(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.pipeline.Ingest(r.Context(), common.SourceSMS, req.Sender, req.Body, receivedAtOrNow(req.ReceivedAt))
	h.respondResult(w, common.SourceSMS, result, err)
}

// Email handles POST /v1/ingest/email. subject and body_text are joined into
// a single content string before parsing, since none of the bank parsers
// treat them as structurally distinct inputs — the regexes match narration
// text regardless of transport.
func (h *IngestionHandler) Email(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	content := req.Subject + "\n" + req.BodyText
	result, err := h.pipeline.Ingest(r.Context(), common.SourceEmail, req.Sender, content, receivedAtOrNow(req.ReceivedAt))
	h.respondResult(w, common.SourceEmail, result, err)
}

// File handles POST /v1/ingest/file (multipart).
func (h *IngestionHandler) File(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	data, filename, err := readMultipartFile(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	password := r.FormValue("password")
	fingerprint := r.FormValue("account_fingerprint")

	var mapping pipeline.FileMapping
	if raw := r.FormValue("mapping_override"); raw != "" {
		if jsonErr := json.Unmarshal([]byte(raw), &mapping); jsonErr != nil {
			writeError(w, http.StatusBadRequest, "invalid mapping_override: "+jsonErr.Error())
			return
		}
	}

	var headerIdx *int
	if raw := r.FormValue("header_row_index"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "invalid header_row_index: "+convErr.Error())
			return
		}
		headerIdx = &n
	}

	result, err := h.pipeline.IngestFile(r.Context(), filename, data, password, fingerprint, mapping, headerIdx)
	h.respondResult(w, common.SourceFile, result, err)
}

// CAS handles POST /v1/ingest/cas (multipart).
func (h *IngestionHandler) CAS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	data, _, err := readMultipartFile(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	password := r.FormValue("password")

	result, err := h.pipeline.IngestCAS(r.Context(), data, password)
	h.respondResult(w, common.SourceCAS, result, err)
}

func (h *IngestionHandler) respondResult(w http.ResponseWriter, source common.Source, result *common.IngestionResult, err error) {
	if err != nil {
		h.logger.Error("ingestion failed", "source", source, "error", err)
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, common.ErrInputRejected):
			status = http.StatusBadRequest
		case errors.Is(err, common.ErrDecryptionFailed):
			status = http.StatusBadRequest
		case errors.Is(err, common.ErrSummaryStatement):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	observability.IngestResultsTotal.WithLabelValues(string(source), string(result.Status)).Inc()

	writeJSON(w, http.StatusOK, result)
}

func receivedAtOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now()
	}
	return *t
}

func readMultipartFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", errors.New("missing multipart field " + field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
