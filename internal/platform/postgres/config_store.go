package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// PostgresSystemConfigStore implements the store.SystemConfigStore interface
// using a PostgreSQL database as the storage backend. The table holds a
// single row keyed by domain.SystemConfigID.
type PostgresSystemConfigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSystemConfigStore creates a new PostgreSQL implementation of
// the SystemConfigStore interface.
func NewPostgresSystemConfigStore(db store.DBTX, logger *slog.Logger) *PostgresSystemConfigStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSystemConfigStore{
		db:     db,
		logger: logger.With(slog.String("component", "system_config_store")),
	}
}

// Ensure PostgresSystemConfigStore implements store.SystemConfigStore
var _ store.SystemConfigStore = (*PostgresSystemConfigStore)(nil)

const systemConfigColumns = `
	id, points_per_question, points_to_reward_ratio, max_reward_per_cycle,
	settlement_day, settlement_ready, zhipu_api_key, elevenlabs_api_key,
	gemini_api_key, created_at, updated_at
`

// Get implements store.SystemConfigStore.Get.
// The singleton row is created with default values on first access.
func (s *PostgresSystemConfigStore) Get(ctx context.Context) (*domain.SystemConfig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	defaults := domain.NewSystemConfig()

	insert := `
		INSERT INTO system_configs (id, points_per_question, points_to_reward_ratio,
		                            max_reward_per_cycle, settlement_ready, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, insert,
		domain.SystemConfigID,
		defaults.PointsPerQuestion,
		defaults.PointsToRewardRatio,
		defaults.MaxRewardPerCycle,
	)
	if err != nil {
		log.Error("failed to initialize system config", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return s.scanOne(ctx)
}

// Peek implements store.SystemConfigStore.Peek.
// Unlike Get it never creates the row; a missing row yields
// store.ErrSystemConfigNotFound.
func (s *PostgresSystemConfigStore) Peek(ctx context.Context) (*domain.SystemConfig, error) {
	return s.scanOne(ctx)
}

func (s *PostgresSystemConfigStore) scanOne(ctx context.Context) (*domain.SystemConfig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + systemConfigColumns + ` FROM system_configs WHERE id = $1`

	var cfg domain.SystemConfig
	var settlementDay sql.NullInt64
	var zhipuKey, elevenKey, geminiKey sql.NullString

	err := s.db.QueryRowContext(ctx, query, domain.SystemConfigID).Scan(
		&cfg.ID,
		&cfg.PointsPerQuestion,
		&cfg.PointsToRewardRatio,
		&cfg.MaxRewardPerCycle,
		&settlementDay,
		&cfg.SettlementReady,
		&zhipuKey,
		&elevenKey,
		&geminiKey,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrSystemConfigNotFound
		}
		log.Error("failed to get system config", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if settlementDay.Valid {
		day := int(settlementDay.Int64)
		cfg.SettlementDay = &day
	}
	cfg.ZhipuAPIKey = zhipuKey.String
	cfg.ElevenLabsAPIKey = elevenKey.String
	cfg.GeminiAPIKey = geminiKey.String

	return &cfg, nil
}

// Update implements store.SystemConfigStore.Update.
func (s *PostgresSystemConfigStore) Update(ctx context.Context, cfg *domain.SystemConfig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE system_configs
		SET points_per_question = $2,
		    points_to_reward_ratio = $3,
		    max_reward_per_cycle = $4,
		    settlement_day = $5,
		    settlement_ready = $6,
		    zhipu_api_key = NULLIF($7, ''),
		    elevenlabs_api_key = NULLIF($8, ''),
		    gemini_api_key = NULLIF($9, ''),
		    updated_at = NOW()
		WHERE id = $1
	`

	var settlementDay sql.NullInt64
	if cfg.SettlementDay != nil {
		settlementDay = sql.NullInt64{Int64: int64(*cfg.SettlementDay), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, query,
		cfg.ID,
		cfg.PointsPerQuestion,
		cfg.PointsToRewardRatio,
		cfg.MaxRewardPerCycle,
		settlementDay,
		cfg.SettlementReady,
		cfg.ZhipuAPIKey,
		cfg.ElevenLabsAPIKey,
		cfg.GeminiAPIKey,
	)
	if err != nil {
		log.Error("failed to update system config", slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "system config")
}
