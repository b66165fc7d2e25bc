package domain_test

import (
	"testing"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBlankOutWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sentence string
		word     string
		want     string
	}{
		{
			name:     "simple replacement",
			sentence: "I see a bee.",
			word:     "bee",
			want:     "I see a ______.",
		},
		{
			name:     "case insensitive",
			sentence: "I see a Bee.",
			word:     "bee",
			want:     "I see a ______.",
		},
		{
			name:     "whole words only",
			sentence: "The beekeeper keeps a bee.",
			word:     "bee",
			want:     "The beekeeper keeps a ______.",
		},
		{
			name:     "multiple occurrences",
			sentence: "A bee is a bee.",
			word:     "bee",
			want:     "A ______ is a ______.",
		},
		{
			name:     "word absent leaves sentence untouched",
			sentence: "I like apples.",
			word:     "bee",
			want:     "I like apples.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.BlankOutWord(tt.sentence, tt.word))
		})
	}
}

func TestValidQuestionType(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.ValidQuestionType(domain.QuestionImageToWord))
	assert.True(t, domain.ValidQuestionType(domain.QuestionWordToImage))
	assert.True(t, domain.ValidQuestionType(domain.QuestionSentenceToWord))
	assert.False(t, domain.ValidQuestionType("word-to-sound"))
	assert.False(t, domain.ValidQuestionType(""))
}
