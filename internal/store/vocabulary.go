package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/domain"
)

// AssetItem is one unit of work for the asset generation pipeline: a record
// id plus the source text its asset is generated from.
type AssetItem struct {
	ID   uuid.UUID
	Text string
}

// VocabularyStore defines data access for vocabularies, their example
// sentences, and the target-vocabulary quiz pool.
type VocabularyStore interface {
	// GetByID retrieves a vocabulary with its example sentences loaded.
	// Returns ErrVocabularyNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vocabulary, error)

	// ListTargets returns the full target-vocabulary set with each entry's
	// vocabulary and example sentences loaded. The engine draws questions and
	// distractors from this set.
	ListTargets(ctx context.Context) ([]*domain.TargetVocabulary, error)

	// AddTarget marks a vocabulary as quiz-eligible.
	// Returns ErrAlreadyTargeted if it is already in the set.
	AddTarget(ctx context.Context, vocabularyID uuid.UUID) (*domain.TargetVocabulary, error)

	// CountVocabularies returns the total number of vocabularies and how many
	// are missing the asset of the given kind (image or audio path NULL/empty).
	CountVocabularies(ctx context.Context, missingImage bool) (total, missing int, err error)

	// CountSentences returns the total number of example sentences and how
	// many lack an audio asset.
	CountSentences(ctx context.Context) (total, missing int, err error)

	// ListVocabulariesMissingImage returns id+word work items for vocabularies
	// without an image, oldest first.
	ListVocabulariesMissingImage(ctx context.Context) ([]AssetItem, error)

	// ListVocabulariesMissingAudio returns id+word work items for vocabularies
	// without audio, oldest first.
	ListVocabulariesMissingAudio(ctx context.Context) ([]AssetItem, error)

	// ListSentencesMissingAudio returns id+sentence work items for example
	// sentences without audio, oldest first.
	ListSentencesMissingAudio(ctx context.Context) ([]AssetItem, error)

	// ListVocabulariesNeedingSentences returns id+word items for vocabularies
	// with fewer than min example sentences.
	ListVocabulariesNeedingSentences(ctx context.Context, min int) ([]AssetItem, error)

	// AttachImagePath records a generated image path on a vocabulary.
	AttachImagePath(ctx context.Context, id uuid.UUID, path string) error

	// AttachAudioPath records a generated audio path on a vocabulary.
	AttachAudioPath(ctx context.Context, id uuid.UUID, path string) error

	// AttachSentenceAudioPath records a generated audio path on an example sentence.
	AttachSentenceAudioPath(ctx context.Context, id uuid.UUID, path string) error

	// CreateSentence appends an example sentence to a vocabulary.
	CreateSentence(ctx context.Context, sentence *domain.ExampleSentence) error
}

