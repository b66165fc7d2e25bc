package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lexidrill/lexidrill-api/internal/api"
	"github.com/lexidrill/lexidrill-api/internal/asset"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/generation"
	"github.com/lexidrill/lexidrill-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAssetHandler builds a handler over an asset service wired to in-memory
// fakes, plus the vocab store for seeding.
func newAssetHandler(t *testing.T, cfg *domain.SystemConfig) (*api.AssetHandler, *mocks.FakeVocabularyStore) {
	t.Helper()

	vocabs := mocks.NewFakeVocabularyStore()
	configs := mocks.NewFakeSystemConfigStore(cfg)
	files := asset.NewFileStore(t.TempDir(), "/uploads")

	images := &mocks.FakeImageGenerator{}
	speech := &mocks.FakeSpeechGenerator{}
	sentences := &mocks.FakeSentenceGenerator{}

	svc := asset.NewService(vocabs, configs, files,
		func(string) (generation.ImageGenerator, error) { return images, nil },
		func(string) (generation.SpeechGenerator, error) { return speech, nil },
		func(context.Context, string) (generation.SentenceGenerator, error) { return sentences, nil },
		2, testLogger())

	return api.NewAssetHandler(svc, testLogger()), vocabs
}

// kindRequest builds a request carrying the {kind} chi route parameter.
func kindRequest(method, target, kind string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("kind", kind)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAssetHandler_Stats(t *testing.T) {
	t.Parallel()

	handler, vocabs := newAssetHandler(t, domain.NewSystemConfig())
	vocabs.AddWord("bee")
	withImage := vocabs.AddWord("cat")
	withImage.ImagePath = "/uploads/images/cat.png"

	rec := httptest.NewRecorder()
	handler.Stats(rec, kindRequest(http.MethodGet,
		"/api/admin/assets/vocabulary-image/stats", "vocabulary-image"))

	require.Equal(t, http.StatusOK, rec.Code)

	var got asset.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Missing)
}

func TestAssetHandler_Stats_UnknownKind(t *testing.T) {
	t.Parallel()

	handler, _ := newAssetHandler(t, domain.NewSystemConfig())

	rec := httptest.NewRecorder()
	handler.Stats(rec, kindRequest(http.MethodGet,
		"/api/admin/assets/video/stats", "video"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown asset kind")
}

func TestAssetHandler_Generate(t *testing.T) {
	t.Parallel()

	cfg := domain.NewSystemConfig()
	cfg.ZhipuAPIKey = "zhipu-key"
	handler, vocabs := newAssetHandler(t, cfg)
	vocabs.AddWord("bee")

	rec := httptest.NewRecorder()
	handler.Generate(rec, kindRequest(http.MethodPost,
		"/api/admin/assets/vocabulary-image/generate", "vocabulary-image"))

	require.Equal(t, http.StatusOK, rec.Code)

	var report asset.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Generated)
	assert.Zero(t, report.Failed)
}

func TestAssetHandler_Generate_MissingProviderKey(t *testing.T) {
	t.Parallel()

	handler, vocabs := newAssetHandler(t, domain.NewSystemConfig())
	vocabs.AddWord("bee")

	rec := httptest.NewRecorder()
	handler.Generate(rec, kindRequest(http.MethodPost,
		"/api/admin/assets/vocabulary-image/generate", "vocabulary-image"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Provider API key not configured")
}

func TestAssetHandler_GenerateSentences(t *testing.T) {
	t.Parallel()

	cfg := domain.NewSystemConfig()
	cfg.ElevenLabsAPIKey = "elevenlabs-key"
	handler, vocabs := newAssetHandler(t, cfg)
	vocabs.AddWord("bee")

	rec := httptest.NewRecorder()
	handler.GenerateSentences(rec, httptest.NewRequest(http.MethodPost,
		"/api/admin/sentences/generate?per_word=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var report asset.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Generated)
}

func TestAssetHandler_GenerateSentences_InvalidPerWord(t *testing.T) {
	t.Parallel()

	handler, _ := newAssetHandler(t, domain.NewSystemConfig())

	for _, raw := range []string{"0", "-2", "three"} {
		rec := httptest.NewRecorder()
		handler.GenerateSentences(rec, httptest.NewRequest(http.MethodPost,
			"/api/admin/sentences/generate?per_word="+raw, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "per_word=%s", raw)
	}
}
