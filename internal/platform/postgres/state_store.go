package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// PostgresUserStateStore implements the store.UserStateStore interface
// using a PostgreSQL database as the storage backend. The table holds a
// single row keyed by domain.UserStateID.
type PostgresUserStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStateStore creates a new PostgreSQL implementation of the
// UserStateStore interface.
func NewPostgresUserStateStore(db store.DBTX, logger *slog.Logger) *PostgresUserStateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_state_store")),
	}
}

// Ensure PostgresUserStateStore implements store.UserStateStore
var _ store.UserStateStore = (*PostgresUserStateStore)(nil)

// Get implements store.UserStateStore.Get.
// The singleton row is created with default values on first access, so
// callers never observe a missing state.
func (s *PostgresUserStateStore) Get(ctx context.Context) (*domain.UserState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	insert := `
		INSERT INTO user_states (id, current_points, current_reward, session_correct,
		                         session_wrong, is_learning, updated_at)
		VALUES ($1, 0, 0, 0, 0, FALSE, NOW())
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, insert, domain.UserStateID); err != nil {
		log.Error("failed to initialize user state", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return s.scanOne(ctx)
}

// Peek implements store.UserStateStore.Peek.
// Unlike Get it never creates the row; a missing row yields
// store.ErrUserStateNotFound.
func (s *PostgresUserStateStore) Peek(ctx context.Context) (*domain.UserState, error) {
	return s.scanOne(ctx)
}

func (s *PostgresUserStateStore) scanOne(ctx context.Context) (*domain.UserState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, current_points, current_reward, session_correct, session_wrong,
		       is_learning, current_question_id, question_type, updated_at
		FROM user_states
		WHERE id = $1
	`

	var st domain.UserState
	var questionID uuid.NullUUID
	var questionType sql.NullString

	err := s.db.QueryRowContext(ctx, query, domain.UserStateID).Scan(
		&st.ID,
		&st.CurrentPoints,
		&st.CurrentReward,
		&st.SessionCorrect,
		&st.SessionWrong,
		&st.IsLearning,
		&questionID,
		&questionType,
		&st.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserStateNotFound
		}
		log.Error("failed to get user state", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	st.CurrentQuestion = questionID.UUID
	st.QuestionType = domain.QuestionType(questionType.String)

	return &st, nil
}

// Update implements store.UserStateStore.Update.
func (s *PostgresUserStateStore) Update(ctx context.Context, state *domain.UserState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE user_states
		SET current_points = $2,
		    current_reward = $3,
		    session_correct = $4,
		    session_wrong = $5,
		    is_learning = $6,
		    current_question_id = $7,
		    question_type = NULLIF($8, ''),
		    updated_at = NOW()
		WHERE id = $1
	`

	questionID := uuid.NullUUID{UUID: state.CurrentQuestion, Valid: state.CurrentQuestion != uuid.Nil}

	result, err := s.db.ExecContext(ctx, query,
		state.ID,
		state.CurrentPoints,
		state.CurrentReward,
		state.SessionCorrect,
		state.SessionWrong,
		state.IsLearning,
		questionID,
		string(state.QuestionType),
	)
	if err != nil {
		log.Error("failed to update user state", slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "user state")
}

// WithTx implements store.UserStateStore.WithTx.
// It returns a copy of the store bound to the given transaction.
func (s *PostgresUserStateStore) WithTx(tx *sql.Tx) store.UserStateStore {
	return &PostgresUserStateStore{
		db:     tx,
		logger: s.logger,
	}
}
