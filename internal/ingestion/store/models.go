// Package store implements the persisted substrate the pipeline learns
// from and audits against: pattern rules, merchant aliases, file parsing
// configs, AI config, and the request log.
package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// PatternRule is a persisted, source-scoped regex pattern, either
// operator-submitted or AI-discovered.
type PatternRule struct {
	ID             uuid.UUID      `db:"id"`
	Source         common.Source  `db:"source"`
	Regex          string         `db:"regex"`
	FieldMapping   map[string]int `db:"field_mapping"`
	Confidence     float64        `db:"confidence"`
	IsAIGenerated  bool           `db:"is_ai_generated"`
	IsActive       bool           `db:"is_active"`
	CreatedAt      time.Time      `db:"created_at"`
}

// FileParsingConfig is a remembered column mapping for a recurring file
// shape, keyed by an opaque fingerprint.
type FileParsingConfig struct {
	Fingerprint   string            `db:"fingerprint"`
	Format        string            `db:"format"` // "CSV" or "EXCEL"
	HeaderRowIdx  int               `db:"header_row_index"`
	Columns       map[string]string `db:"columns_json"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

// MerchantAlias maps a recognized pattern to a canonical merchant name.
type MerchantAlias struct {
	ID        uuid.UUID `db:"id"`
	Pattern   string    `db:"pattern"`
	Alias     string    `db:"alias"`
	CreatedAt time.Time `db:"created_at"`
}

// AIConfig is the singleton row controlling the AI fallback provider.
// APIKey is never returned through the management API; callers should use
// MaskedKeySuffix instead.
type AIConfig struct {
	Provider  string `db:"provider"`
	ModelName string `db:"model_name"`
	APIKey    string `db:"api_key"`
	IsEnabled bool   `db:"is_enabled"`
}

// MaskedKeySuffix returns the last 4 characters of the API key, or "" if the
// key is 4 characters or shorter; the management API echoes only this.
func (c AIConfig) MaskedKeySuffix() string {
	if len(c.APIKey) <= 4 {
		return ""
	}
	return c.APIKey[len(c.APIKey)-4:]
}

// RequestLog is the append-only audit trail of every ingest. Retained 24h;
// pruned by a background sweeper.
type RequestLog struct {
	ID            uuid.UUID           `db:"id"`
	Source        common.Source       `db:"source"`
	InputHash     string              `db:"input_hash"`
	InputPayload  string              `db:"input_payload"`
	OutputPayload string              `db:"output_payload"`
	Status        common.ResultStatus `db:"status"`
	CreatedAt     time.Time           `db:"created_at"`
}
