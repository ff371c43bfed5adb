package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/pattern"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"
)

// ManagementHandler serves the configuration/inspection surface: AI config,
// remembered file mappings, pattern CRUD + test, merchant aliases, the
// request log, and summary stats.
type ManagementHandler struct {
	repo   store.Repository
	logger *slog.Logger
}

// NewManagementHandler constructs a ManagementHandler.
func NewManagementHandler(repo store.Repository, logger *slog.Logger) *ManagementHandler {
	return &ManagementHandler{repo: repo, logger: logger}
}

// --- AI config -------------------------------------------------------------

type aiConfigResponse struct {
	Provider        string `json:"provider"`
	ModelName       string `json:"model_name"`
	IsEnabled       bool   `json:"is_enabled"`
	MaskedKeySuffix string `json:"masked_key_suffix"`
}

// GetAIConfig handles GET /v1/config/ai.
func (h *ManagementHandler) GetAIConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.repo.GetAIConfig(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, aiConfigResponse{Provider: "gemini", ModelName: "gemini-1.5-flash"})
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aiConfigResponse{
		Provider:        cfg.Provider,
		ModelName:       cfg.ModelName,
		IsEnabled:       cfg.IsEnabled,
		MaskedKeySuffix: cfg.MaskedKeySuffix(),
	})
}

type upsertAIConfigRequest struct {
	Provider  string `json:"provider"`
	ModelName string `json:"model_name"`
	APIKey    string `json:"api_key"`
	IsEnabled bool   `json:"is_enabled"`
}

// UpsertAIConfig handles POST /v1/config/ai. The API key is accepted but
// never echoed back.
func (h *ManagementHandler) UpsertAIConfig(w http.ResponseWriter, r *http.Request) {
	var req upsertAIConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cfg := &store.AIConfig{Provider: req.Provider, ModelName: req.ModelName, APIKey: req.APIKey, IsEnabled: req.IsEnabled}
	if err := h.repo.UpsertAIConfig(r.Context(), cfg); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aiConfigResponse{
		Provider: cfg.Provider, ModelName: cfg.ModelName, IsEnabled: cfg.IsEnabled, MaskedKeySuffix: cfg.MaskedKeySuffix(),
	})
}

// --- File mapping ------------------------------------------------------------

type upsertMappingRequest struct {
	Fingerprint    string            `json:"fingerprint"`
	Format         string            `json:"format"`
	HeaderRowIndex int               `json:"header_row_index"`
	Columns        map[string]string `json:"columns"`
}

// UpsertMapping handles POST /v1/config/mapping.
func (h *ManagementHandler) UpsertMapping(w http.ResponseWriter, r *http.Request) {
	var req upsertMappingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Fingerprint == "" {
		writeError(w, http.StatusBadRequest, "fingerprint is required")
		return
	}
	now := time.Now()
	cfg := &store.FileParsingConfig{
		Fingerprint:  req.Fingerprint,
		Format:       req.Format,
		HeaderRowIdx: req.HeaderRowIndex,
		Columns:      req.Columns,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.UpsertFileConfig(r.Context(), cfg); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// --- Patterns ----------------------------------------------------------------

type patternRequest struct {
	Source        string         `json:"source"`
	Regex         string         `json:"regex"`
	FieldMapping  map[string]int `json:"field_mapping"`
	Confidence    float64        `json:"confidence"`
	IsAIGenerated bool           `json:"is_ai_generated"`
	IsActive      bool           `json:"is_active"`
}

// ListPatterns handles GET /v1/patterns?source=&is_ai_generated=&search=.
func (h *ManagementHandler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var source *common.Source
	if v := q.Get("source"); v != "" {
		s := common.Source(v)
		source = &s
	}

	var isAI *bool
	if v := q.Get("is_ai_generated"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid is_ai_generated")
			return
		}
		isAI = &b
	}

	patterns, err := h.repo.ListPatterns(r.Context(), source, isAI, q.Get("search"))
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patterns)
}

// GetPattern handles GET /v1/patterns/{id}.
func (h *ManagementHandler) GetPattern(w http.ResponseWriter, r *http.Request, id string) {
	patID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pattern id")
		return
	}
	p, err := h.repo.GetPattern(r.Context(), patID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pattern not found")
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreatePattern handles POST /v1/patterns.
func (h *ManagementHandler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	var req patternRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := pattern.ValidateRule(req.Regex, req.FieldMapping); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.repo.FindPatternBySourceAndRegex(r.Context(), common.Source(req.Source), req.Regex)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.internalError(w, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "pattern already exists for this source and regex")
		return
	}

	p := &store.PatternRule{
		ID:            uuid.New(),
		Source:        common.Source(req.Source),
		Regex:         req.Regex,
		FieldMapping:  req.FieldMapping,
		Confidence:    req.Confidence,
		IsAIGenerated: req.IsAIGenerated,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}
	if err := h.repo.CreatePattern(r.Context(), p); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePattern handles PUT /v1/patterns/{id}.
func (h *ManagementHandler) UpdatePattern(w http.ResponseWriter, r *http.Request, id string) {
	patID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pattern id")
		return
	}
	var req patternRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := pattern.ValidateRule(req.Regex, req.FieldMapping); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.repo.GetPattern(r.Context(), patID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pattern not found")
			return
		}
		h.internalError(w, err)
		return
	}

	existing.Source = common.Source(req.Source)
	existing.Regex = req.Regex
	existing.FieldMapping = req.FieldMapping
	existing.Confidence = req.Confidence
	existing.IsAIGenerated = req.IsAIGenerated
	existing.IsActive = req.IsActive

	if err := h.repo.UpdatePattern(r.Context(), existing); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// DeletePattern handles DELETE /v1/patterns/{id} (soft delete).
func (h *ManagementHandler) DeletePattern(w http.ResponseWriter, r *http.Request, id string) {
	patID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pattern id")
		return
	}
	if err := h.repo.SoftDeletePattern(r.Context(), patID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "pattern not found")
			return
		}
		h.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type testPatternRequest struct {
	Regex        string         `json:"regex"`
	FieldMapping map[string]int `json:"field_mapping"`
	SampleText   string         `json:"sample_text"`
}

// TestPattern handles POST /v1/patterns/test.
func (h *ManagementHandler) TestPattern(w http.ResponseWriter, r *http.Request) {
	var req testPatternRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	now := time.Now()
	fields, err := pattern.TestRule(req.Regex, req.FieldMapping, req.SampleText, now, now)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"matched": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matched": true, "fields": fields})
}

// --- Merchant aliases --------------------------------------------------------

// ListAliases handles GET /v1/config/aliases.
func (h *ManagementHandler) ListAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.repo.ListAliases(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aliases)
}

type aliasRequest struct {
	Pattern string `json:"pattern"`
	Alias   string `json:"alias"`
}

// CreateAlias handles POST /v1/config/aliases.
func (h *ManagementHandler) CreateAlias(w http.ResponseWriter, r *http.Request) {
	var req aliasRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Pattern == "" || req.Alias == "" {
		writeError(w, http.StatusBadRequest, "pattern and alias are required")
		return
	}
	a := &store.MerchantAlias{ID: uuid.New(), Pattern: req.Pattern, Alias: req.Alias, CreatedAt: time.Now()}
	if err := h.repo.CreateAlias(r.Context(), a); err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// DeleteAlias handles DELETE /v1/config/aliases/{id}.
func (h *ManagementHandler) DeleteAlias(w http.ResponseWriter, r *http.Request, id string) {
	aliasID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alias id")
		return
	}
	if err := h.repo.DeleteAlias(r.Context(), aliasID); err != nil {
		h.internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Logs & stats -------------------------------------------------------------

// ListLogs handles GET /v1/logs?limit=&offset=.
func (h *ManagementHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	logs, total, err := h.repo.ListLogs(r.Context(), limit, offset)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs, "total": total, "limit": limit, "offset": offset})
}

// GetLog handles GET /v1/logs/{id}.
func (h *ManagementHandler) GetLog(w http.ResponseWriter, r *http.Request, id string) {
	logID, err := uuid.Parse(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid log id")
		return
	}
	log, err := h.repo.GetLogByID(r.Context(), logID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "log not found")
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// Stats handles GET /v1/stats: last-24h status/source/parser breakdowns,
// derived by scanning the recent page of request logs rather than a
// dedicated SQL aggregation, since the repository contract exposes only
// ListLogs/ListRecentSuccessful and there is no materialized stats table.
func (h *ManagementHandler) Stats(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	logs, _, err := h.repo.ListLogs(r.Context(), 1000, 0)
	if err != nil {
		h.internalError(w, err)
		return
	}

	statusBreakdown := map[string]int{}
	sourceBreakdown := map[string]int{}
	parserPerformance := map[string]int{}

	for _, l := range logs {
		if l.CreatedAt.Before(since) {
			continue
		}
		statusBreakdown[string(l.Status)]++
		sourceBreakdown[string(l.Source)]++

		var items []common.ParsedItem
		if json.Unmarshal([]byte(l.OutputPayload), &items) != nil {
			var single common.ParsedItem
			if json.Unmarshal([]byte(l.OutputPayload), &single) == nil && single.Metadata.ParserUsed != "" {
				items = []common.ParsedItem{single}
			}
		}
		for _, item := range items {
			parserPerformance[item.Metadata.ParserUsed]++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status_breakdown":   statusBreakdown,
		"source_breakdown":   sourceBreakdown,
		"parser_performance": parserPerformance,
	})
}

func (h *ManagementHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("management request failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
