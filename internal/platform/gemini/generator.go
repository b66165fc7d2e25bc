// Package gemini implements the generation.SentenceGenerator interface using
// Google's Gemini API to write beginner-level example sentences.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lexidrill/lexidrill-api/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const promptTemplate = `You are writing example sentences for a first-grade English learner.
Write %d very short, simple example sentences using the word "%s".
Each sentence must contain the word itself, stay under six words, and use
only beginner vocabulary. Respond with a JSON array of strings and nothing
else, for example: ["I see a cat.", "I like cats."]`

// Generator asks Gemini for example sentences and validates the output.
type Generator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGenerator creates a Gemini-backed sentence generator.
func NewGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		client: client,
		model:  model,
		logger: logger.With(slog.String("component", "gemini_generator")),
	}, nil
}

// Ensure Generator implements generation.SentenceGenerator
var _ generation.SentenceGenerator = (*Generator)(nil)

// GenerateSentences implements generation.SentenceGenerator.
func (g *Generator) GenerateSentences(ctx context.Context, word string, count int) ([]string, error) {
	if strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("%w: word cannot be empty", generation.ErrGenerationFailed)
	}
	if count <= 0 {
		count = 2
	}

	prompt := fmt.Sprintf(promptTemplate, count, word)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.ErrorContext(ctx, "gemini call failed",
			slog.String("error", err.Error()),
			slog.String("word", word))
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty model response", generation.ErrInvalidResponse)
	}

	sentences, err := parseSentences(text, word, count)
	if err != nil {
		g.logger.WarnContext(ctx, "gemini returned unusable sentences",
			slog.String("word", word),
			slog.String("error", err.Error()))
		return nil, err
	}

	return sentences, nil
}

// parseSentences decodes the model's JSON array and keeps only sentences that
// actually contain the word.
func parseSentences(text, word string, count int) ([]string, error) {
	// Models sometimes wrap JSON in a markdown fence despite instructions.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse sentence list: %v",
			generation.ErrInvalidResponse, err)
	}

	lowerWord := strings.ToLower(word)
	var sentences []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || !strings.Contains(strings.ToLower(s), lowerWord) {
			continue
		}
		sentences = append(sentences, s)
		if len(sentences) == count {
			break
		}
	}

	if len(sentences) == 0 {
		return nil, fmt.Errorf("%w: no usable sentences for %q",
			generation.ErrInvalidResponse, word)
	}

	return sentences, nil
}
