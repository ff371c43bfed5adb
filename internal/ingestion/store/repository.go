package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// Repository defines data access for the ingestion pipeline's persisted
// substrate.
type Repository interface {
	// RequestLog
	FindRecentByHash(ctx context.Context, inputHash string, since time.Time) (*RequestLog, error)
	CreateRequestLog(ctx context.Context, source common.Source, inputHash, inputPayload string) (*RequestLog, error)
	UpdateRequestLog(ctx context.Context, id uuid.UUID, status common.ResultStatus, outputPayload string) error
	ListRecentSuccessful(ctx context.Context, excludeHash string, since time.Time) ([]*RequestLog, error)
	ListLogs(ctx context.Context, limit, offset int) ([]*RequestLog, int64, error)
	GetLogByID(ctx context.Context, id uuid.UUID) (*RequestLog, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// PatternRule
	ListActivePatterns(ctx context.Context, source common.Source) ([]*PatternRule, error)
	CreatePattern(ctx context.Context, p *PatternRule) error
	UpdatePattern(ctx context.Context, p *PatternRule) error
	SoftDeletePattern(ctx context.Context, id uuid.UUID) error
	ListPatterns(ctx context.Context, source *common.Source, isAIGenerated *bool, search string) ([]*PatternRule, error)
	GetPattern(ctx context.Context, id uuid.UUID) (*PatternRule, error)
	FindPatternBySourceAndRegex(ctx context.Context, source common.Source, regex string) (*PatternRule, error)

	// MerchantAlias
	ListAliases(ctx context.Context) ([]*MerchantAlias, error)
	CreateAlias(ctx context.Context, a *MerchantAlias) error
	DeleteAlias(ctx context.Context, id uuid.UUID) error

	// FileParsingConfig
	GetFileConfigByFingerprint(ctx context.Context, fingerprint string) (*FileParsingConfig, error)
	UpsertFileConfig(ctx context.Context, cfg *FileParsingConfig) error

	// AIConfig
	GetAIConfig(ctx context.Context) (*AIConfig, error)
	UpsertAIConfig(ctx context.Context, cfg *AIConfig) error
}
