package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lexidrill/lexidrill-api/internal/asset"
	"github.com/lexidrill/lexidrill-api/internal/config"
	"github.com/lexidrill/lexidrill-api/internal/generation"
	"github.com/lexidrill/lexidrill-api/internal/platform/elevenlabs"
	"github.com/lexidrill/lexidrill-api/internal/platform/gemini"
	"github.com/lexidrill/lexidrill-api/internal/platform/postgres"
	"github.com/lexidrill/lexidrill-api/internal/platform/zhipu"
	"github.com/lexidrill/lexidrill-api/internal/service/auth"
	"github.com/lexidrill/lexidrill-api/internal/service/session"
	"github.com/lexidrill/lexidrill-api/internal/service/settlement"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// application holds the shared dependencies for the server. Handlers and
// services are constructed once here and reused across requests.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	vocabStore      store.VocabularyStore
	stateStore      store.UserStateStore
	configStore     store.SystemConfigStore
	pointLogStore   store.PointLogStore
	settlementStore store.SettlementStore

	settlementChecker *settlement.Checker
	sessionService    session.SessionService
	assetService      *asset.Service
	tokenService      auth.AdminTokenService
}

// newApplication wires the full dependency graph: database, stores,
// settlement checker, session service, asset pipeline, and admin auth.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
) (*application, error) {
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	vocabStore := postgres.NewPostgresVocabularyStore(db, log)
	stateStore := postgres.NewPostgresUserStateStore(db, log)
	configStore := postgres.NewPostgresSystemConfigStore(db, log)
	pointLogStore := postgres.NewPostgresPointLogStore(db, log)
	settlementStore := postgres.NewPostgresSettlementStore(db, log)

	checker := settlement.NewChecker(db, configStore, stateStore, settlementStore, log)

	sessionService := session.NewSessionService(
		db,
		stateStore,
		configStore,
		vocabStore,
		pointLogStore,
		checker,
		session.NewRand(),
		log,
	)

	files := asset.NewFileStore(cfg.Assets.UploadDir, cfg.Assets.PublicBasePath)
	providerClient := &http.Client{Timeout: cfg.Assets.ProviderTimeout}

	imageFactory := func(apiKey string) (generation.ImageGenerator, error) {
		return zhipu.NewClient(apiKey, log, zhipu.WithHTTPClient(providerClient))
	}
	speechFactory := func(apiKey string) (generation.SpeechGenerator, error) {
		return elevenlabs.NewClient(apiKey, log, elevenlabs.WithHTTPClient(providerClient))
	}
	sentenceFactory := func(ctx context.Context, apiKey string) (generation.SentenceGenerator, error) {
		return gemini.NewGenerator(ctx, apiKey, cfg.Assets.GeminiModel, log)
	}

	assetService := asset.NewService(
		vocabStore,
		configStore,
		files,
		imageFactory,
		speechFactory,
		sentenceFactory,
		cfg.Assets.Concurrency,
		log,
	)

	tokenService, err := auth.NewAdminTokenService(cfg.Auth)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create admin token service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            log,
		db:                db,
		vocabStore:        vocabStore,
		stateStore:        stateStore,
		configStore:       configStore,
		pointLogStore:     pointLogStore,
		settlementStore:   settlementStore,
		settlementChecker: checker,
		sessionService:    sessionService,
		assetService:      assetService,
		tokenService:      tokenService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

func closeDatabase(db *sql.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database connection", "error", err)
	}
}

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal before the server forces the connections closed.
const shutdownTimeout = 10 * time.Second
