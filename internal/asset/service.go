package asset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/generation"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// Kind identifies which asset family a pipeline run produces.
type Kind string

// The three asset kinds the pipeline generates.
const (
	KindVocabularyImage Kind = "vocabulary-image"
	KindVocabularyAudio Kind = "vocabulary-audio"
	KindSentenceAudio   Kind = "sentence-audio"
)

// Upload subdirectories, mirrored in the public paths stored on records.
const (
	imageSubdir = "generated"
	audioSubdir = "audio/generated"
)

// ErrUnknownKind is returned for an asset kind the pipeline does not produce.
var ErrUnknownKind = errors.New("unknown asset kind")

// ValidKind reports whether k names a producible asset kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindVocabularyImage, KindVocabularyAudio, KindSentenceAudio:
		return true
	}
	return false
}

// Stats summarizes asset coverage for one kind.
type Stats struct {
	Total   int `json:"total"`
	Missing int `json:"missing"`
}

// Result is the outcome for a single work item in a pipeline run.
type Result struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the fan-in summary of one pipeline run.
type Report struct {
	Total     int      `json:"total"`
	Generated int      `json:"generated"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// ImageGeneratorFactory builds an image generator bound to an API key.
type ImageGeneratorFactory func(apiKey string) (generation.ImageGenerator, error)

// SpeechGeneratorFactory builds a speech generator bound to an API key.
type SpeechGeneratorFactory func(apiKey string) (generation.SpeechGenerator, error)

// SentenceGeneratorFactory builds a sentence generator bound to an API key.
// Implementations may need the context to initialize a client.
type SentenceGeneratorFactory func(ctx context.Context, apiKey string) (generation.SentenceGenerator, error)

// Service orchestrates asset generation runs. API keys live in the system
// configuration row, so each run resolves its provider at call time.
type Service struct {
	vocabStore   store.VocabularyStore
	configStore  store.SystemConfigStore
	files        *FileStore
	newImageGen  ImageGeneratorFactory
	newSpeechGen SpeechGeneratorFactory
	newSentences SentenceGeneratorFactory
	fallback     generation.SentenceGenerator
	concurrency  int
	logger       *slog.Logger
}

// NewService creates the asset pipeline service.
func NewService(
	vocabStore store.VocabularyStore,
	configStore store.SystemConfigStore,
	files *FileStore,
	newImageGen ImageGeneratorFactory,
	newSpeechGen SpeechGeneratorFactory,
	newSentences SentenceGeneratorFactory,
	concurrency int,
	log *slog.Logger,
) *Service {
	if vocabStore == nil || configStore == nil || files == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("asset service dependencies cannot be nil")
	}
	if newImageGen == nil || newSpeechGen == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("generator factories cannot be nil")
	}
	if concurrency < 1 {
		concurrency = 3
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		vocabStore:   vocabStore,
		configStore:  configStore,
		files:        files,
		newImageGen:  newImageGen,
		newSpeechGen: newSpeechGen,
		newSentences: newSentences,
		fallback:     generation.NewTemplateSentenceGenerator(),
		concurrency:  concurrency,
		logger:       log.With(slog.String("component", "asset_service")),
	}
}

// Stats returns coverage numbers for the given asset kind.
func (s *Service) Stats(ctx context.Context, kind Kind) (*Stats, error) {
	var total, missing int
	var err error

	switch kind {
	case KindVocabularyImage:
		total, missing, err = s.vocabStore.CountVocabularies(ctx, true)
	case KindVocabularyAudio:
		total, missing, err = s.vocabStore.CountVocabularies(ctx, false)
	case KindSentenceAudio:
		total, missing, err = s.vocabStore.CountSentences(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}

	return &Stats{Total: total, Missing: missing}, nil
}

// GenerateMissing runs the pipeline for every record currently missing the
// given asset kind. A missing provider key fails the whole run with
// generation.ErrNotConfigured before any work starts; individual provider
// failures only mark their item failed.
func (s *Service) GenerateMissing(ctx context.Context, kind Kind) (*Report, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cfg, err := s.configStore.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindVocabularyImage:
		return s.generateImages(ctx, log, cfg)
	case KindVocabularyAudio:
		items, err := s.vocabStore.ListVocabulariesMissingAudio(ctx)
		if err != nil {
			return nil, err
		}
		return s.generateAudio(ctx, log, cfg, items, s.vocabStore.AttachAudioPath)
	case KindSentenceAudio:
		items, err := s.vocabStore.ListSentencesMissingAudio(ctx)
		if err != nil {
			return nil, err
		}
		return s.generateAudio(ctx, log, cfg, items, s.vocabStore.AttachSentenceAudioPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (s *Service) generateImages(ctx context.Context, log *slog.Logger, cfg *domain.SystemConfig) (*Report, error) {
	if cfg.ZhipuAPIKey == "" {
		return nil, fmt.Errorf("%w: zhipu API key missing", generation.ErrNotConfigured)
	}

	items, err := s.vocabStore.ListVocabulariesMissingImage(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Report{Results: []Result{}}, nil
	}

	gen, err := s.newImageGen(cfg.ZhipuAPIKey)
	if err != nil {
		return nil, err
	}

	log.Info("starting image generation run",
		slog.Int("items", len(items)),
		slog.Int("concurrency", s.concurrency))

	return s.run(ctx, items, func(ctx context.Context, item store.AssetItem) (string, error) {
		file, err := gen.GenerateImage(ctx, item.Text)
		if err != nil {
			return "", err
		}

		publicPath, err := s.files.Save(imageSubdir, item.ID, file.Ext, file.Data)
		if err != nil {
			return "", err
		}

		if err := s.vocabStore.AttachImagePath(ctx, item.ID, publicPath); err != nil {
			return "", err
		}
		return publicPath, nil
	}), nil
}

type attachFunc func(ctx context.Context, id uuid.UUID, path string) error

func (s *Service) generateAudio(
	ctx context.Context,
	log *slog.Logger,
	cfg *domain.SystemConfig,
	items []store.AssetItem,
	attach attachFunc,
) (*Report, error) {
	if cfg.ElevenLabsAPIKey == "" {
		return nil, fmt.Errorf("%w: elevenlabs API key missing", generation.ErrNotConfigured)
	}

	if len(items) == 0 {
		return &Report{Results: []Result{}}, nil
	}

	gen, err := s.newSpeechGen(cfg.ElevenLabsAPIKey)
	if err != nil {
		return nil, err
	}

	log.Info("starting audio generation run",
		slog.Int("items", len(items)),
		slog.Int("concurrency", s.concurrency))

	return s.run(ctx, items, func(ctx context.Context, item store.AssetItem) (string, error) {
		file, err := gen.GenerateSpeech(ctx, item.Text)
		if err != nil {
			return "", err
		}

		publicPath, err := s.files.Save(audioSubdir, item.ID, file.Ext, file.Data)
		if err != nil {
			return "", err
		}

		if err := attach(ctx, item.ID, publicPath); err != nil {
			return "", err
		}
		return publicPath, nil
	}), nil
}

// run fans items out to the worker pool and folds the outcomes into a Report.
func (s *Service) run(
	ctx context.Context,
	items []store.AssetItem,
	produce func(ctx context.Context, item store.AssetItem) (string, error),
) *Report {
	results := make([]Result, len(items))

	runPool(ctx, s.concurrency, len(items), func(ctx context.Context, i int) error {
		item := items[i]
		path, err := produce(ctx, item)
		if err != nil {
			results[i] = Result{
				ID:    item.ID.String(),
				Text:  item.Text,
				Error: err.Error(),
			}
			return err
		}

		results[i] = Result{
			ID:      item.ID.String(),
			Text:    item.Text,
			Success: true,
			Path:    path,
		}
		return nil
	})

	report := &Report{Total: len(items), Results: results}
	for _, r := range results {
		if r.Success {
			report.Generated++
		} else {
			report.Failed++
		}
	}
	return report
}

// GenerateSentences writes example sentences for vocabularies that have fewer
// than perWord of them. When a Gemini key is configured the sentences come
// from the model; otherwise the fixed beginner templates are used. A model
// failure for one word also falls back to templates rather than failing the
// run.
func (s *Service) GenerateSentences(ctx context.Context, perWord int) (*Report, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if perWord <= 0 {
		perWord = 2
	}

	cfg, err := s.configStore.Get(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.vocabStore.ListVocabulariesNeedingSentences(ctx, perWord)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Report{Results: []Result{}}, nil
	}

	gen := s.fallback
	if cfg.GeminiAPIKey != "" && s.newSentences != nil {
		if g, err := s.newSentences(ctx, cfg.GeminiAPIKey); err != nil {
			log.Warn("gemini unavailable, using sentence templates",
				slog.String("error", err.Error()))
		} else {
			gen = g
		}
	}

	log.Info("starting sentence generation run",
		slog.Int("items", len(items)),
		slog.Int("per_word", perWord))

	return s.run(ctx, items, func(ctx context.Context, item store.AssetItem) (string, error) {
		sentences, err := gen.GenerateSentences(ctx, item.Text, perWord)
		if err != nil {
			log.Warn("model sentences failed, using templates",
				slog.String("word", item.Text),
				slog.String("error", err.Error()))
			sentences, err = s.fallback.GenerateSentences(ctx, item.Text, perWord)
			if err != nil {
				return "", err
			}
		}

		for _, text := range sentences {
			sentence, err := domain.NewExampleSentence(item.ID, text)
			if err != nil {
				return "", err
			}
			if err := s.vocabStore.CreateSentence(ctx, sentence); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("%d sentences", len(sentences)), nil
	}), nil
}
