package asset_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lexidrill/lexidrill-api/internal/asset"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/generation"
	"github.com/lexidrill/lexidrill-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceFixture struct {
	vocabs   *mocks.FakeVocabularyStore
	configs  *mocks.FakeSystemConfigStore
	images   *mocks.FakeImageGenerator
	speech   *mocks.FakeSpeechGenerator
	sentence *mocks.FakeSentenceGenerator
	service  *asset.Service
}

func newServiceFixture(t *testing.T, cfg *domain.SystemConfig) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		vocabs:   mocks.NewFakeVocabularyStore(),
		configs:  mocks.NewFakeSystemConfigStore(cfg),
		images:   &mocks.FakeImageGenerator{},
		speech:   &mocks.FakeSpeechGenerator{},
		sentence: &mocks.FakeSentenceGenerator{},
	}

	f.service = asset.NewService(
		f.vocabs,
		f.configs,
		asset.NewFileStore(t.TempDir(), "/uploads"),
		func(apiKey string) (generation.ImageGenerator, error) { return f.images, nil },
		func(apiKey string) (generation.SpeechGenerator, error) { return f.speech, nil },
		func(ctx context.Context, apiKey string) (generation.SentenceGenerator, error) {
			return f.sentence, nil
		},
		2,
		testLogger(),
	)
	return f
}

func configuredSystem() *domain.SystemConfig {
	cfg := domain.NewSystemConfig()
	cfg.ZhipuAPIKey = "zhipu-test-key-123"
	cfg.ElevenLabsAPIKey = "eleven-test-key-123"
	return cfg
}

func TestService_Stats(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())
	withImage := f.vocabs.AddWord("bee")
	withImage.ImagePath = "/uploads/generated/bee.png"
	f.vocabs.AddWord("cat")

	stats, err := f.service.Stats(context.Background(), asset.KindVocabularyImage)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Missing)

	stats, err = f.service.Stats(context.Background(), asset.KindVocabularyAudio)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Missing)

	_, err = f.service.Stats(context.Background(), "poster")
	assert.ErrorIs(t, err, asset.ErrUnknownKind)
}

func TestService_GenerateMissing_RequiresProviderKey(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, domain.NewSystemConfig())
	f.vocabs.AddWord("bee")

	_, err := f.service.GenerateMissing(context.Background(), asset.KindVocabularyImage)
	assert.ErrorIs(t, err, generation.ErrNotConfigured)

	_, err = f.service.GenerateMissing(context.Background(), asset.KindVocabularyAudio)
	assert.ErrorIs(t, err, generation.ErrNotConfigured)

	assert.Empty(t, f.images.Calls, "no provider call may happen without a key")
}

func TestService_GenerateMissing_EmptyWorkSet(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())

	report, err := f.service.GenerateMissing(context.Background(), asset.KindVocabularyImage)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.NotNil(t, report.Results)
	assert.Empty(t, f.images.Calls)
}

func TestService_GenerateMissing_Images(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())
	bee := f.vocabs.AddWord("bee")
	cat := f.vocabs.AddWord("cat")

	report, err := f.service.GenerateMissing(context.Background(), asset.KindVocabularyImage)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 0, report.Failed)

	assert.NotEmpty(t, bee.ImagePath)
	assert.NotEmpty(t, cat.ImagePath)
	assert.ElementsMatch(t, []string{"bee", "cat"}, f.images.Calls)
}

func TestService_GenerateMissing_PartialFailure(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())
	f.vocabs.AddWord("bee")
	f.vocabs.AddWord("cat")
	f.images.FailWords = map[string]error{"cat": errors.New("provider rejected prompt")}

	report, err := f.service.GenerateMissing(context.Background(), asset.KindVocabularyImage)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Generated)
	assert.Equal(t, 1, report.Failed)

	var failed *asset.Result
	for i := range report.Results {
		if !report.Results[i].Success {
			failed = &report.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "cat", failed.Text)
	assert.Contains(t, failed.Error, "provider rejected prompt")
}

func TestService_GenerateMissing_SentenceAudio(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())
	bee := f.vocabs.AddWord("bee")
	sentence, err := domain.NewExampleSentence(bee.ID, "I see a bee.")
	require.NoError(t, err)
	require.NoError(t, f.vocabs.CreateSentence(context.Background(), sentence))

	report, err := f.service.GenerateMissing(context.Background(), asset.KindSentenceAudio)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Generated)
	assert.NotEmpty(t, bee.Sentences[0].AudioPath)
	assert.Equal(t, []string{"I see a bee."}, f.speech.Calls)
}

func TestService_GenerateSentences_UsesModelWhenConfigured(t *testing.T) {
	t.Parallel()

	cfg := configuredSystem()
	cfg.GeminiAPIKey = "gemini-test-key-123"
	f := newServiceFixture(t, cfg)
	bee := f.vocabs.AddWord("bee")
	f.sentence.Sentences = map[string][]string{"bee": {"A bee can fly.", "I see a bee."}}

	report, err := f.service.GenerateSentences(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Generated)
	require.Len(t, bee.Sentences, 2)
	assert.Equal(t, "A bee can fly.", bee.Sentences[0].Sentence)
	assert.Equal(t, []string{"bee"}, f.sentence.Calls)
}

func TestService_GenerateSentences_FallsBackToTemplates(t *testing.T) {
	t.Parallel()

	cfg := configuredSystem()
	cfg.GeminiAPIKey = "gemini-test-key-123"
	f := newServiceFixture(t, cfg)
	bee := f.vocabs.AddWord("bee")
	f.sentence.Err = errors.New("model unavailable")

	report, err := f.service.GenerateSentences(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Generated)
	require.Len(t, bee.Sentences, 2)
	assert.Equal(t, "I see a bee.", bee.Sentences[0].Sentence)
}

func TestService_GenerateSentences_NoKeyUsesTemplates(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())
	bee := f.vocabs.AddWord("bee")

	report, err := f.service.GenerateSentences(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Generated)
	assert.Len(t, bee.Sentences, 2, "per-word default is two sentences")
	assert.Empty(t, f.sentence.Calls, "model factory must not be used without a key")
}

func TestService_GenerateSentences_SkipsCoveredWords(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, configuredSystem())
	bee := f.vocabs.AddWord("bee")
	for _, text := range []string{"I see a bee.", "I like bees."} {
		s, err := domain.NewExampleSentence(bee.ID, text)
		require.NoError(t, err)
		require.NoError(t, f.vocabs.CreateSentence(context.Background(), s))
	}

	report, err := f.service.GenerateSentences(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Len(t, bee.Sentences, 2)
}
