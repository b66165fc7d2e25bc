package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/lexidrill/lexidrill-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentences(t *testing.T) {
	t.Parallel()

	t.Run("plain JSON array", func(t *testing.T) {
		sentences, err := parseSentences(`["I see a bee.", "I like bees."]`, "bee", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"I see a bee.", "I like bees."}, sentences)
	})

	t.Run("markdown fence stripped", func(t *testing.T) {
		text := "```json\n[\"I see a bee.\"]\n```"
		sentences, err := parseSentences(text, "bee", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"I see a bee."}, sentences)
	})

	t.Run("sentences without the word are dropped", func(t *testing.T) {
		text := `["I like apples.", "A bee can fly.", "Hello there."]`
		sentences, err := parseSentences(text, "bee", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"A bee can fly."}, sentences)
	})

	t.Run("word match is case insensitive", func(t *testing.T) {
		sentences, err := parseSentences(`["Bee is small."]`, "bee", 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Bee is small."}, sentences)
	})

	t.Run("result capped at count", func(t *testing.T) {
		text := `["A bee.", "The bee.", "My bee."]`
		sentences, err := parseSentences(text, "bee", 2)
		require.NoError(t, err)
		assert.Len(t, sentences, 2)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := parseSentences("here are some sentences", "bee", 2)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("no usable sentences", func(t *testing.T) {
		_, err := parseSentences(`["I like apples."]`, "bee", 2)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}

func TestNewGenerator_Validation(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewGenerator(context.Background(), "", DefaultModel, log)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGenerator(context.Background(), "key", DefaultModel, nil)
	assert.Error(t, err)
}
