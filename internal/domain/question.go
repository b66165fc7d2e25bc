package domain

import (
	"regexp"

	"github.com/google/uuid"
)

// QuestionType identifies how a vocabulary is quizzed.
type QuestionType string

// The three supported question kinds. Sentence-to-word is only eligible for
// vocabularies with at least one audio-bearing example sentence.
const (
	QuestionImageToWord    QuestionType = "image-to-word"
	QuestionWordToImage    QuestionType = "word-to-image"
	QuestionSentenceToWord QuestionType = "sentence-to-word"
)

// BlankPlaceholder replaces the target word in a sentence-to-word prompt.
const BlankPlaceholder = "______"

// ValidQuestionType reports whether t is one of the supported kinds.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionImageToWord, QuestionWordToImage, QuestionSentenceToWord:
		return true
	default:
		return false
	}
}

// SentenceData is the display payload for a sentence-to-word question:
// the original sentence, the same sentence with the target word blanked,
// and the sentence's audio asset reference.
type SentenceData struct {
	SentenceID        uuid.UUID `json:"sentence_id"`
	OriginalSentence  string    `json:"original_sentence"`
	SentenceWithBlank string    `json:"sentence_with_blank"`
	AudioPath         string    `json:"audio_path"`
}

// Question is the full payload a client needs to render one quiz question
// without a second round trip.
type Question struct {
	Continuing   bool          `json:"continuing"`
	Vocabulary   *Vocabulary   `json:"question"`
	QuestionType QuestionType  `json:"question_type"`
	Options      []*Vocabulary `json:"options"`
	SentenceData *SentenceData `json:"sentence_data,omitempty"`
}

// BlankOutWord replaces whole-word, case-insensitive occurrences of word in
// sentence with the blank placeholder. "I see a Bee." with word "bee" yields
// "I see a ______.".
func BlankOutWord(sentence, word string) string {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return sentence
	}
	return re.ReplaceAllString(sentence, BlankPlaceholder)
}
