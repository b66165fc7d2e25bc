package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// PostgresPointLogStore implements the store.PointLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPointLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPointLogStore creates a new PostgreSQL implementation of the
// PointLogStore interface.
func NewPostgresPointLogStore(db store.DBTX, logger *slog.Logger) *PostgresPointLogStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPointLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "point_log_store")),
	}
}

// Ensure PostgresPointLogStore implements store.PointLogStore
var _ store.PointLogStore = (*PostgresPointLogStore)(nil)

// Append implements store.PointLogStore.Append.
func (s *PostgresPointLogStore) Append(ctx context.Context, entry *domain.PointLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO point_logs (id, change_amount, balance_after,
		                        question_word, question_type, correct_word, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.ChangeAmount,
		entry.BalanceAfter,
		entry.QuestionWord,
		string(entry.QuestionType),
		entry.CorrectWord,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to append point log", slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// ListRecent implements store.PointLogStore.ListRecent.
// Entries come back newest first.
func (s *PostgresPointLogStore) ListRecent(ctx context.Context, limit int) ([]*domain.PointLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, change_amount, balance_after,
		       question_word, question_type, correct_word, created_at
		FROM point_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to list point logs", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.PointLog
	for rows.Next() {
		var entry domain.PointLog
		var questionWord, questionType, correctWord sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.ChangeAmount,
			&entry.BalanceAfter,
			&questionWord,
			&questionType,
			&correctWord,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}

		entry.QuestionWord = questionWord.String
		entry.QuestionType = domain.QuestionType(questionType.String)
		entry.CorrectWord = correctWord.String
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// WithTx implements store.PointLogStore.WithTx.
func (s *PostgresPointLogStore) WithTx(tx *sql.Tx) store.PointLogStore {
	return &PostgresPointLogStore{
		db:     tx,
		logger: s.logger,
	}
}
