package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// PostgresSettlementStore implements the store.SettlementStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSettlementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettlementStore creates a new PostgreSQL implementation of the
// SettlementStore interface.
func NewPostgresSettlementStore(db store.DBTX, logger *slog.Logger) *PostgresSettlementStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettlementStore{
		db:     db,
		logger: logger.With(slog.String("component", "settlement_store")),
	}
}

// Ensure PostgresSettlementStore implements store.SettlementStore
var _ store.SettlementStore = (*PostgresSettlementStore)(nil)

// Append implements store.SettlementStore.Append.
func (s *PostgresSettlementStore) Append(ctx context.Context, h *domain.SettlementHistory) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO settlement_histories (id, cycle_start, cycle_end, total_points,
		                                  total_reward, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.CycleStart,
		h.CycleEnd,
		h.TotalPoints,
		h.TotalReward,
		h.CreatedAt,
	)
	if err != nil {
		log.Error("failed to append settlement history", slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// Latest implements store.SettlementStore.Latest.
// It returns nil without error when no settlement has happened yet.
func (s *PostgresSettlementStore) Latest(ctx context.Context) (*domain.SettlementHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, cycle_start, cycle_end, total_points, total_reward, created_at
		FROM settlement_histories
		ORDER BY cycle_end DESC
		LIMIT 1
	`

	var h domain.SettlementHistory
	err := s.db.QueryRowContext(ctx, query).Scan(
		&h.ID,
		&h.CycleStart,
		&h.CycleEnd,
		&h.TotalPoints,
		&h.TotalReward,
		&h.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Error("failed to get latest settlement history", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return &h, nil
}

// WithTx implements store.SettlementStore.WithTx.
func (s *PostgresSettlementStore) WithTx(tx *sql.Tx) store.SettlementStore {
	return &PostgresSettlementStore{
		db:     tx,
		logger: s.logger,
	}
}
