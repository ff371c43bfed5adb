// Package ai provides the external LLM fallback invoked when no regex
// candidate reaches the configured confidence threshold. No Gemini Go SDK
// is vendored here, so the request is issued with a plain net/http.Client
// against the Generative Language REST endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
	"github.com/FACorreiaa/smart-finance-tracker/pkg/money"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// Extraction models the AI's reply: a transaction plus an optional
// suggested pattern, or an error.
type Extraction struct {
	Transaction     common.Transaction
	SuggestedRegex  string
	FieldMapping    map[string]int
	Confidence      float64
	Err             error
}

// Client calls the configured AI provider to extract a transaction from raw
// message content. Outbound calls are throttled by a golang.org/x/time/rate
// limiter that admits MaxConcurrent calls per second (burst MaxConcurrent);
// the number of calls in flight at the same time is not bounded.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// Config controls Client construction.
type Config struct {
	APIKey        string
	Model         string // default "gemini-1.5-flash"
	Timeout       time.Duration // default 15s
	MaxConcurrent int           // rate limit in calls per second and burst size; default 2
}

func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   defaultEndpoint,
		apiKey:     cfg.APIKey,
		model:      model,
		timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Limit(maxConcurrent), maxConcurrent),
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// extractedPayload mirrors the JSON shape requested from the model in buildPrompt.
type extractedPayload struct {
	Transaction struct {
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Date        string  `json:"date"`
		AccountMask string  `json:"account_mask"`
		BankName    string  `json:"bank_name"`
		Merchant    string  `json:"merchant"`
		Description string  `json:"description"`
		RefID       string  `json:"ref_id"`
		Confidence  float64 `json:"confidence"`
	} `json:"transaction"`
	SuggestedRegex string         `json:"suggested_regex"`
	FieldMapping   map[string]any `json:"field_mapping"`
}

// Extract calls the provider and parses its reply into an Extraction.
// AI unavailability degrades silently and is reported only via
// Extraction.Err so the pipeline orchestrator can fall back to the best
// regex candidate instead of failing the whole request.
func (c *Client) Extract(ctx context.Context, content string, source common.Source, dateHint time.Time) Extraction {
	if c.apiKey == "" {
		return Extraction{Err: common.ErrAIUnavailable}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Extraction{Err: fmt.Errorf("%w: %v", common.ErrAIUnavailable, err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	refDate := dateHint
	if refDate.IsZero() {
		refDate = time.Now()
	}

	prompt := buildPrompt(content, string(source), refDate.Format("2006-01-02"))

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:      0.1,
			TopP:             1,
			TopK:             32,
			MaxOutputTokens:  1024,
			ResponseMimeType: "application/json",
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return Extraction{Err: fmt.Errorf("%w: %v", common.ErrAIUnavailable, err)}
	}

	url := fmt.Sprintf(c.endpoint, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Extraction{Err: fmt.Errorf("%w: %v", common.ErrAIUnavailable, err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Extraction{Err: fmt.Errorf("%w: %v", common.ErrAIUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Extraction{Err: fmt.Errorf("%w: provider returned status %d", common.ErrAIUnavailable, resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Extraction{Err: fmt.Errorf("%w: %v", common.ErrAIUnavailable, err)}
	}

	var gResp geminiResponse
	if err := json.Unmarshal(raw, &gResp); err != nil {
		return Extraction{Err: fmt.Errorf("%w: invalid provider response: %v", common.ErrAIUnavailable, err)}
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return Extraction{Err: fmt.Errorf("%w: empty provider response", common.ErrAIUnavailable)}
	}

	return parseExtraction(gResp.Candidates[0].Content.Parts[0].Text, content)
}

func buildPrompt(content, source, refDateStr string) string {
	return fmt.Sprintf(`You are a precise financial parser. Extract transaction details AND generate a reusable regex for this %s message.
Return ONLY valid JSON.

Input: %q

Required JSON Structure:
{
  "transaction": {
    "amount": float,
    "type": "DEBIT" or "CREDIT",
    "date": "YYYY-MM-DD",
    "account_mask": "1234 or null",
    "bank_name": "HDFC or null",
    "merchant": "clean entity name",
    "description": "raw description",
    "ref_id": "transaction reference or null",
    "confidence": float between 0.0 and 1.0
  },
  "suggested_regex": "a regex with capture groups matching this exact message format",
  "field_mapping": {"amount": group_index, "date": group_index, "recipient": group_index, "mask": group_index, "ref_id": group_index}
}

Rules:
1. If date is missing or relative, calculate it based on reference date %s and always return ISO format YYYY-MM-DD.
2. For merchant, extract the actual entity name.
3. If amount, type, or date cannot be confidently determined, set confidence to 0.5 or lower.
4. field_mapping uses 1-based indexing into suggested_regex's capture groups.
5. If unable to extract strictly, return a JSON object with an "error" key instead.`, source, content, refDateStr)
}

func parseExtraction(text, rawContent string) Extraction {
	cleaned := stripCodeFences(text)

	var payload extractedPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Extraction{Err: fmt.Errorf("%w: invalid JSON reply: %v", common.ErrAIUnavailable, err)}
	}

	txnDate := parseISOThenFallback(payload.Transaction.Date)

	confidence := payload.Transaction.Confidence
	if confidence <= 0 {
		confidence = 0.9
	}
	if confidence > 1 {
		confidence = 1
	}

	txnType := common.Debit
	if strings.EqualFold(payload.Transaction.Type, "CREDIT") {
		txnType = common.Credit
	}

	amount := common.Transaction{
		Amount:      amountFromFloat(payload.Transaction.Amount),
		Type:        txnType,
		Date:        txnDate,
		Currency:    "INR",
		Account:     common.Account{Mask: payload.Transaction.AccountMask, Provider: payload.Transaction.BankName},
		Merchant:    common.Merchant{Raw: payload.Transaction.Description, Cleaned: payload.Transaction.Merchant},
		Description: orDefault(payload.Transaction.Description, rawContent),
		Recipient:   orDefault(payload.Transaction.Merchant, "Unknown"),
		RefID:       payload.Transaction.RefID,
		RawMessage:  rawContent,
		Confidence:  confidence,
	}

	fieldMapping := make(map[string]int, len(payload.FieldMapping))
	for k, v := range payload.FieldMapping {
		if f, ok := v.(float64); ok {
			fieldMapping[k] = int(f)
		}
	}

	return Extraction{
		Transaction:    amount,
		SuggestedRegex: payload.SuggestedRegex,
		FieldMapping:   fieldMapping,
		Confidence:     confidence,
	}
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// parseISOThenFallback tries strict ISO date format first, then a short list
// of common alternative layouts.
func parseISOThenFallback(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	layouts := []string{"02-01-2006", "02-Jan-2006", "01/02/2006", "2006/01/02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}

func amountFromFloat(f float64) money.Amount {
	return money.FromMinorUnits(int64(f*100 + 0.5)).Abs()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
