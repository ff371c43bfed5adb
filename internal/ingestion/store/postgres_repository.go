package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// PgxPool abstracts the subset of pgxpool.Pool the repository needs, mirroring
// internal/domain/auth/repository's interface so tests can substitute pgxmock.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PostgresRepository implements Repository against a Postgres pool.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository constructs a Repository backed by pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var _ Repository = (*PostgresRepository)(nil)

// ErrNotFound mirrors common.ErrNotFound for store-local sentinel returns.
var ErrNotFound = common.ErrNotFound

type requestLogRow struct {
	ID            uuid.UUID `db:"id"`
	Source        string    `db:"source"`
	InputHash     string    `db:"input_hash"`
	InputPayload  string    `db:"input_payload"`
	OutputPayload string    `db:"output_payload"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r requestLogRow) toModel() *RequestLog {
	return &RequestLog{
		ID:            r.ID,
		Source:        common.Source(r.Source),
		InputHash:     r.InputHash,
		InputPayload:  r.InputPayload,
		OutputPayload: r.OutputPayload,
		Status:        common.ResultStatus(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

func (r *PostgresRepository) FindRecentByHash(ctx context.Context, inputHash string, since time.Time) (*RequestLog, error) {
	query := `
		SELECT id, source, input_hash, input_payload, output_payload, status, created_at
		FROM request_logs
		WHERE input_hash = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	rows, err := r.pool.Query(ctx, query, inputHash, since)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[requestLogRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *PostgresRepository) CreateRequestLog(ctx context.Context, source common.Source, inputHash, inputPayload string) (*RequestLog, error) {
	log := &RequestLog{
		ID:           uuid.New(),
		Source:       source,
		InputHash:    inputHash,
		InputPayload: inputPayload,
		Status:       "", // processing: no ResultStatus yet, set by caller via UpdateRequestLog
		CreatedAt:    time.Now(),
	}
	query := `
		INSERT INTO request_logs (id, source, input_hash, input_payload, output_payload, status, created_at)
		VALUES ($1, $2, $3, $4, '', 'processing', $5)
	`
	_, err := r.pool.Exec(ctx, query, log.ID, string(log.Source), log.InputHash, log.InputPayload, log.CreatedAt)
	if err != nil {
		return nil, err
	}
	return log, nil
}

func (r *PostgresRepository) UpdateRequestLog(ctx context.Context, id uuid.UUID, status common.ResultStatus, outputPayload string) error {
	query := `UPDATE request_logs SET status = $1, output_payload = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, string(status), outputPayload, id)
	return err
}

func (r *PostgresRepository) ListRecentSuccessful(ctx context.Context, excludeHash string, since time.Time) ([]*RequestLog, error) {
	query := `
		SELECT id, source, input_hash, input_payload, output_payload, status, created_at
		FROM request_logs
		WHERE status = 'success' AND input_hash != $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, excludeHash, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RequestLog
	for rows.Next() {
		var row requestLogRow
		if err := rows.Scan(&row.ID, &row.Source, &row.InputHash, &row.InputPayload, &row.OutputPayload, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row.toModel())
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListLogs(ctx context.Context, limit, offset int) ([]*RequestLog, int64, error) {
	query := `
		SELECT id, source, input_hash, input_payload, output_payload, status, created_at
		FROM request_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*RequestLog
	for rows.Next() {
		var row requestLogRow
		if err := rows.Scan(&row.ID, &row.Source, &row.InputHash, &row.InputPayload, &row.OutputPayload, &row.Status, &row.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, row.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM request_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresRepository) GetLogByID(ctx context.Context, id uuid.UUID) (*RequestLog, error) {
	query := `
		SELECT id, source, input_hash, input_payload, output_payload, status, created_at
		FROM request_logs
		WHERE id = $1
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[requestLogRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// PruneOlderThan deletes request_logs rows older than cutoff in chunks so the
// background sweeper never holds one large transaction.
func (r *PostgresRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	const chunkSize = 500
	total := 0
	for {
		tag, err := r.pool.Exec(ctx, `
			DELETE FROM request_logs
			WHERE id IN (SELECT id FROM request_logs WHERE created_at < $1 LIMIT $2)
		`, cutoff, chunkSize)
		if err != nil {
			return total, err
		}
		n := int(tag.RowsAffected())
		total += n
		if n < chunkSize {
			return total, nil
		}
	}
}

type patternRuleRow struct {
	ID            uuid.UUID `db:"id"`
	Source        string    `db:"source"`
	Regex         string    `db:"regex"`
	FieldMapping  []byte    `db:"field_mapping"`
	Confidence    float64   `db:"confidence"`
	IsAIGenerated bool      `db:"is_ai_generated"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r patternRuleRow) toModel() (*PatternRule, error) {
	var mapping map[string]int
	if len(r.FieldMapping) > 0 {
		if err := json.Unmarshal(r.FieldMapping, &mapping); err != nil {
			return nil, err
		}
	}
	return &PatternRule{
		ID:            r.ID,
		Source:        common.Source(r.Source),
		Regex:         r.Regex,
		FieldMapping:  mapping,
		Confidence:    r.Confidence,
		IsAIGenerated: r.IsAIGenerated,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func (r *PostgresRepository) ListActivePatterns(ctx context.Context, source common.Source) ([]*PatternRule, error) {
	return r.queryPatterns(ctx, `
		SELECT id, source, regex, field_mapping, confidence, is_ai_generated, is_active, created_at
		FROM pattern_rules
		WHERE source = $1 AND is_active = true
		ORDER BY confidence DESC
	`, source)
}

func (r *PostgresRepository) queryPatterns(ctx context.Context, query string, args ...any) ([]*PatternRule, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PatternRule
	for rows.Next() {
		var row patternRuleRow
		if err := rows.Scan(&row.ID, &row.Source, &row.Regex, &row.FieldMapping, &row.Confidence, &row.IsAIGenerated, &row.IsActive, &row.CreatedAt); err != nil {
			return nil, err
		}
		model, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, model)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreatePattern(ctx context.Context, p *PatternRule) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	mapping, err := json.Marshal(p.FieldMapping)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO pattern_rules (id, source, regex, field_mapping, confidence, is_ai_generated, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query, p.ID, string(p.Source), p.Regex, mapping, p.Confidence, p.IsAIGenerated, p.IsActive, p.CreatedAt)
	return err
}

func (r *PostgresRepository) UpdatePattern(ctx context.Context, p *PatternRule) error {
	mapping, err := json.Marshal(p.FieldMapping)
	if err != nil {
		return err
	}
	query := `
		UPDATE pattern_rules
		SET regex = $1, field_mapping = $2, confidence = $3, is_active = $4
		WHERE id = $5
	`
	_, err = r.pool.Exec(ctx, query, p.Regex, mapping, p.Confidence, p.IsActive, p.ID)
	return err
}

func (r *PostgresRepository) SoftDeletePattern(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pattern_rules SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListPatterns(ctx context.Context, source *common.Source, isAIGenerated *bool, search string) ([]*PatternRule, error) {
	query := `
		SELECT id, source, regex, field_mapping, confidence, is_ai_generated, is_active, created_at
		FROM pattern_rules
		WHERE ($1::text IS NULL OR source = $1)
		  AND ($2::bool IS NULL OR is_ai_generated = $2)
		  AND ($3 = '' OR regex ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
	`
	var sourceArg *string
	if source != nil {
		s := string(*source)
		sourceArg = &s
	}
	return r.queryPatterns(ctx, query, sourceArg, isAIGenerated, search)
}

func (r *PostgresRepository) GetPattern(ctx context.Context, id uuid.UUID) (*PatternRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, source, regex, field_mapping, confidence, is_ai_generated, is_active, created_at
		FROM pattern_rules WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[patternRuleRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *PostgresRepository) FindPatternBySourceAndRegex(ctx context.Context, source common.Source, regex string) (*PatternRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, source, regex, field_mapping, confidence, is_ai_generated, is_active, created_at
		FROM pattern_rules WHERE source = $1 AND regex = $2
	`, string(source), regex)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[patternRuleRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *PostgresRepository) ListAliases(ctx context.Context) ([]*MerchantAlias, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, pattern, alias, created_at FROM merchant_aliases ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MerchantAlias
	for rows.Next() {
		var a MerchantAlias
		if err := rows.Scan(&a.ID, &a.Pattern, &a.Alias, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateAlias(ctx context.Context, a *MerchantAlias) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO merchant_aliases (id, pattern, alias, created_at) VALUES ($1, $2, $3, $4)
	`, a.ID, a.Pattern, a.Alias, a.CreatedAt)
	return err
}

func (r *PostgresRepository) DeleteAlias(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM merchant_aliases WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) GetFileConfigByFingerprint(ctx context.Context, fingerprint string) (*FileParsingConfig, error) {
	var cfg FileParsingConfig
	var columns []byte
	err := r.pool.QueryRow(ctx, `
		SELECT fingerprint, format, header_row_index, columns_json, created_at, updated_at
		FROM file_parsing_configs WHERE fingerprint = $1
	`, fingerprint).Scan(&cfg.Fingerprint, &cfg.Format, &cfg.HeaderRowIdx, &columns, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if err := json.Unmarshal(columns, &cfg.Columns); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (r *PostgresRepository) UpsertFileConfig(ctx context.Context, cfg *FileParsingConfig) error {
	columns, err := json.Marshal(cfg.Columns)
	if err != nil {
		return err
	}
	now := time.Now()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	_, err = r.pool.Exec(ctx, `
		INSERT INTO file_parsing_configs (fingerprint, format, header_row_index, columns_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (fingerprint) DO UPDATE SET
			format = EXCLUDED.format,
			header_row_index = EXCLUDED.header_row_index,
			columns_json = EXCLUDED.columns_json,
			updated_at = EXCLUDED.updated_at
	`, cfg.Fingerprint, cfg.Format, cfg.HeaderRowIdx, columns, cfg.CreatedAt, cfg.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetAIConfig(ctx context.Context) (*AIConfig, error) {
	var cfg AIConfig
	err := r.pool.QueryRow(ctx, `SELECT provider, model_name, api_key, is_enabled FROM ai_config LIMIT 1`).
		Scan(&cfg.Provider, &cfg.ModelName, &cfg.APIKey, &cfg.IsEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *PostgresRepository) UpsertAIConfig(ctx context.Context, cfg *AIConfig) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ai_config (id, provider, model_name, api_key, is_enabled)
		VALUES (true, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			provider = EXCLUDED.provider,
			model_name = EXCLUDED.model_name,
			api_key = EXCLUDED.api_key,
			is_enabled = EXCLUDED.is_enabled
	`, cfg.Provider, cfg.ModelName, cfg.APIKey, cfg.IsEnabled)
	return err
}
