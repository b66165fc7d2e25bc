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

// PostgresVocabularyStore implements the store.VocabularyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVocabularyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVocabularyStore creates a new PostgreSQL implementation of the
// VocabularyStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresVocabularyStore(db store.DBTX, logger *slog.Logger) *PostgresVocabularyStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVocabularyStore{
		db:     db,
		logger: logger.With(slog.String("component", "vocabulary_store")),
	}
}

// Ensure PostgresVocabularyStore implements store.VocabularyStore
var _ store.VocabularyStore = (*PostgresVocabularyStore)(nil)

// GetByID implements store.VocabularyStore.GetByID.
// It retrieves a vocabulary with its example sentences loaded.
// Returns store.ErrVocabularyNotFound if the vocabulary does not exist.
func (s *PostgresVocabularyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, word, image_path, audio_path, note, created_at
		FROM vocabularies
		WHERE id = $1
	`

	var v domain.Vocabulary
	var imagePath, audioPath, note sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.Word,
		&imagePath,
		&audioPath,
		&note,
		&v.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("vocabulary not found", slog.String("vocabulary_id", id.String()))
			return nil, store.ErrVocabularyNotFound
		}
		log.Error("failed to get vocabulary",
			slog.String("error", err.Error()),
			slog.String("vocabulary_id", id.String()))
		return nil, MapError(err)
	}

	v.ImagePath = imagePath.String
	v.AudioPath = audioPath.String
	v.Note = note.String

	sentences, err := s.sentencesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Sentences = sentences

	return &v, nil
}

// sentencesFor loads the example sentences owned by a vocabulary.
func (s *PostgresVocabularyStore) sentencesFor(ctx context.Context, vocabularyID uuid.UUID) ([]domain.ExampleSentence, error) {
	query := `
		SELECT id, vocabulary_id, sentence, audio_path, created_at
		FROM example_sentences
		WHERE vocabulary_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, vocabularyID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var sentences []domain.ExampleSentence
	for rows.Next() {
		var es domain.ExampleSentence
		var audioPath sql.NullString
		if err := rows.Scan(&es.ID, &es.VocabularyID, &es.Sentence, &audioPath, &es.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		es.AudioPath = audioPath.String
		sentences = append(sentences, es)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return sentences, nil
}

// ListTargets implements store.VocabularyStore.ListTargets.
// It returns the full target set with vocabularies and sentences loaded.
func (s *PostgresVocabularyStore) ListTargets(ctx context.Context) ([]*domain.TargetVocabulary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT tv.id, tv.vocabulary_id, tv.created_at,
		       v.word, v.image_path, v.audio_path, v.note, v.created_at
		FROM target_vocabularies tv
		JOIN vocabularies v ON v.id = tv.vocabulary_id
		ORDER BY tv.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list target vocabularies", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var targets []*domain.TargetVocabulary
	byVocab := make(map[uuid.UUID]*domain.Vocabulary)
	for rows.Next() {
		var t domain.TargetVocabulary
		var v domain.Vocabulary
		var imagePath, audioPath, note sql.NullString

		err := rows.Scan(
			&t.ID, &t.VocabularyID, &t.CreatedAt,
			&v.Word, &imagePath, &audioPath, &note, &v.CreatedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}

		v.ID = t.VocabularyID
		v.ImagePath = imagePath.String
		v.AudioPath = audioPath.String
		v.Note = note.String

		t.Vocabulary = &v
		byVocab[v.ID] = &v
		targets = append(targets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if len(targets) == 0 {
		return targets, nil
	}

	// Load every targeted vocabulary's sentences in one pass.
	sentenceQuery := `
		SELECT es.id, es.vocabulary_id, es.sentence, es.audio_path, es.created_at
		FROM example_sentences es
		JOIN target_vocabularies tv ON tv.vocabulary_id = es.vocabulary_id
		ORDER BY es.created_at ASC
	`

	srows, err := s.db.QueryContext(ctx, sentenceQuery)
	if err != nil {
		log.Error("failed to load target sentences", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = srows.Close() }()

	for srows.Next() {
		var es domain.ExampleSentence
		var audioPath sql.NullString
		if err := srows.Scan(&es.ID, &es.VocabularyID, &es.Sentence, &audioPath, &es.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		es.AudioPath = audioPath.String
		if v, ok := byVocab[es.VocabularyID]; ok {
			v.Sentences = append(v.Sentences, es)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, MapError(err)
	}

	return targets, nil
}

// AddTarget implements store.VocabularyStore.AddTarget.
// Returns store.ErrAlreadyTargeted if the vocabulary is already in the set.
func (s *PostgresVocabularyStore) AddTarget(ctx context.Context, vocabularyID uuid.UUID) (*domain.TargetVocabulary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	t := &domain.TargetVocabulary{
		ID:           uuid.New(),
		VocabularyID: vocabularyID,
	}

	query := `
		INSERT INTO target_vocabularies (id, vocabulary_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query, t.ID, t.VocabularyID).Scan(&t.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("vocabulary already targeted",
				slog.String("vocabulary_id", vocabularyID.String()))
			return nil, store.ErrAlreadyTargeted
		}
		log.Error("failed to add target vocabulary",
			slog.String("error", err.Error()),
			slog.String("vocabulary_id", vocabularyID.String()))
		return nil, MapError(err)
	}

	return t, nil
}

// CountVocabularies implements store.VocabularyStore.CountVocabularies.
func (s *PostgresVocabularyStore) CountVocabularies(ctx context.Context, missingImage bool) (int, int, error) {
	column := "audio_path"
	if missingImage {
		column = "image_path"
	}

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE ` + column + ` IS NULL OR ` + column + ` = '')
		FROM vocabularies
	`

	var total, missing int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total, &missing); err != nil {
		return 0, 0, MapError(err)
	}
	return total, missing, nil
}

// CountSentences implements store.VocabularyStore.CountSentences.
func (s *PostgresVocabularyStore) CountSentences(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE audio_path IS NULL OR audio_path = '')
		FROM example_sentences
	`

	var total, missing int
	if err := s.db.QueryRowContext(ctx, query).Scan(&total, &missing); err != nil {
		return 0, 0, MapError(err)
	}
	return total, missing, nil
}

// ListVocabulariesMissingImage implements store.VocabularyStore.ListVocabulariesMissingImage.
func (s *PostgresVocabularyStore) ListVocabulariesMissingImage(ctx context.Context) ([]store.AssetItem, error) {
	query := `
		SELECT id, word FROM vocabularies
		WHERE image_path IS NULL OR image_path = ''
		ORDER BY created_at ASC
	`
	return s.listItems(ctx, query)
}

// ListVocabulariesMissingAudio implements store.VocabularyStore.ListVocabulariesMissingAudio.
func (s *PostgresVocabularyStore) ListVocabulariesMissingAudio(ctx context.Context) ([]store.AssetItem, error) {
	query := `
		SELECT id, word FROM vocabularies
		WHERE audio_path IS NULL OR audio_path = ''
		ORDER BY created_at ASC
	`
	return s.listItems(ctx, query)
}

// ListSentencesMissingAudio implements store.VocabularyStore.ListSentencesMissingAudio.
func (s *PostgresVocabularyStore) ListSentencesMissingAudio(ctx context.Context) ([]store.AssetItem, error) {
	query := `
		SELECT id, sentence FROM example_sentences
		WHERE audio_path IS NULL OR audio_path = ''
		ORDER BY created_at ASC
	`
	return s.listItems(ctx, query)
}

// ListVocabulariesNeedingSentences implements store.VocabularyStore.ListVocabulariesNeedingSentences.
func (s *PostgresVocabularyStore) ListVocabulariesNeedingSentences(ctx context.Context, min int) ([]store.AssetItem, error) {
	query := `
		SELECT v.id, v.word
		FROM vocabularies v
		LEFT JOIN example_sentences es ON es.vocabulary_id = v.id
		GROUP BY v.id, v.word, v.created_at
		HAVING COUNT(es.id) < $1
		ORDER BY v.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, min)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanItems(rows)
}

func (s *PostgresVocabularyStore) listItems(ctx context.Context, query string) ([]store.AssetItem, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]store.AssetItem, error) {
	var items []store.AssetItem
	for rows.Next() {
		var item store.AssetItem
		if err := rows.Scan(&item.ID, &item.Text); err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

// AttachImagePath implements store.VocabularyStore.AttachImagePath.
func (s *PostgresVocabularyStore) AttachImagePath(ctx context.Context, id uuid.UUID, path string) error {
	return s.attach(ctx, "UPDATE vocabularies SET image_path = $1 WHERE id = $2", id, path, "vocabulary")
}

// AttachAudioPath implements store.VocabularyStore.AttachAudioPath.
func (s *PostgresVocabularyStore) AttachAudioPath(ctx context.Context, id uuid.UUID, path string) error {
	return s.attach(ctx, "UPDATE vocabularies SET audio_path = $1 WHERE id = $2", id, path, "vocabulary")
}

// AttachSentenceAudioPath implements store.VocabularyStore.AttachSentenceAudioPath.
func (s *PostgresVocabularyStore) AttachSentenceAudioPath(ctx context.Context, id uuid.UUID, path string) error {
	return s.attach(ctx, "UPDATE example_sentences SET audio_path = $1 WHERE id = $2", id, path, "example sentence")
}

func (s *PostgresVocabularyStore) attach(ctx context.Context, query string, id uuid.UUID, path, entity string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, path, id)
	if err != nil {
		log.Error("failed to attach asset path",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, entity)
}

// CreateSentence implements store.VocabularyStore.CreateSentence.
func (s *PostgresVocabularyStore) CreateSentence(ctx context.Context, sentence *domain.ExampleSentence) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sentence.Validate(); err != nil {
		log.Warn("example sentence validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO example_sentences (id, vocabulary_id, sentence, audio_path, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		sentence.ID,
		sentence.VocabularyID,
		sentence.Sentence,
		sentence.AudioPath,
		sentence.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create example sentence",
			slog.String("error", err.Error()),
			slog.String("vocabulary_id", sentence.VocabularyID.String()))
		return MapError(err)
	}

	return nil
}
