package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vocabulary-specific validation errors
var (
	// ErrVocabularyIDEmpty is returned when a vocabulary ID is empty or nil.
	ErrVocabularyIDEmpty = errors.New("vocabulary ID cannot be empty")

	// ErrSentenceVocabularyIDEmpty is returned when an example sentence's
	// owning vocabulary ID is empty or nil.
	ErrSentenceVocabularyIDEmpty = errors.New("example sentence vocabulary ID cannot be empty")
)

// Vocabulary is a word the learner drills on. Image and audio paths are
// filled in by the asset generation pipeline and may be empty until then.
type Vocabulary struct {
	ID        uuid.UUID `json:"id"`
	Word      string    `json:"word"`
	ImagePath string    `json:"image_path,omitempty"`
	AudioPath string    `json:"audio_path,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Sentences holds the vocabulary's example sentences when the caller
	// asked for them to be loaded. Not every query populates this.
	Sentences []ExampleSentence `json:"sentences,omitempty"`
}

// NewVocabulary creates a new Vocabulary for the given word.
// It generates a new UUID and sets the creation timestamp.
// Returns an error if validation fails.
func NewVocabulary(word string) (*Vocabulary, error) {
	v := &Vocabulary{
		ID:        uuid.New(),
		Word:      strings.TrimSpace(word),
		CreatedAt: time.Now().UTC(),
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}

	return v, nil
}

// Validate checks if the Vocabulary has valid data.
func (v *Vocabulary) Validate() error {
	if v.ID == uuid.Nil {
		return ErrVocabularyIDEmpty
	}

	if strings.TrimSpace(v.Word) == "" {
		return ErrEmptyWord
	}

	return nil
}

// HasImage reports whether an image asset has been attached.
func (v *Vocabulary) HasImage() bool {
	return v.ImagePath != ""
}

// HasAudio reports whether an audio asset has been attached.
func (v *Vocabulary) HasAudio() bool {
	return v.AudioPath != ""
}

// AudioSentences returns the example sentences that carry an audio asset.
// Only these are eligible as sentence-to-word quiz material.
func (v *Vocabulary) AudioSentences() []ExampleSentence {
	var out []ExampleSentence
	for _, s := range v.Sentences {
		if s.AudioPath != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExampleSentence is a short sentence demonstrating a vocabulary word.
type ExampleSentence struct {
	ID           uuid.UUID `json:"id"`
	VocabularyID uuid.UUID `json:"vocabulary_id"`
	Sentence     string    `json:"sentence"`
	AudioPath    string    `json:"audio_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewExampleSentence creates a new ExampleSentence owned by the given
// vocabulary. Returns an error if validation fails.
func NewExampleSentence(vocabularyID uuid.UUID, sentence string) (*ExampleSentence, error) {
	s := &ExampleSentence{
		ID:           uuid.New(),
		VocabularyID: vocabularyID,
		Sentence:     strings.TrimSpace(sentence),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the ExampleSentence has valid data.
func (s *ExampleSentence) Validate() error {
	if s.ID == uuid.Nil {
		return ErrInvalidID
	}

	if s.VocabularyID == uuid.Nil {
		return ErrSentenceVocabularyIDEmpty
	}

	if strings.TrimSpace(s.Sentence) == "" {
		return ErrEmptySentence
	}

	return nil
}

// TargetVocabulary marks a vocabulary as eligible for quizzing. A vocabulary
// appears at most once in the target set.
type TargetVocabulary struct {
	ID           uuid.UUID `json:"id"`
	VocabularyID uuid.UUID `json:"vocabulary_id"`
	CreatedAt    time.Time `json:"created_at"`

	// Vocabulary is populated when the target set is loaded with its words.
	Vocabulary *Vocabulary `json:"vocabulary,omitempty"`
}
