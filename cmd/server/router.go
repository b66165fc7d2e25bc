package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lexidrill/lexidrill-api/internal/api"
	apiMiddleware "github.com/lexidrill/lexidrill-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Learner routes are open (single-learner design); admin
// routes sit behind the bearer-token middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	assetHandler := api.NewAssetHandler(app.assetService, app.logger)
	configHandler := api.NewConfigHandler(app.configStore, app.logger)
	settlementHandler := api.NewSettlementHandler(
		app.settlementChecker,
		app.settlementStore,
		app.logger,
	)
	adminAuth := apiMiddleware.NewAdminAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		// Learner endpoints
		r.Get("/session/state", sessionHandler.GetState)
		r.Post("/session/start", sessionHandler.Start)
		r.Post("/session/stop", sessionHandler.Stop)
		r.Post("/session/answer", sessionHandler.SubmitAnswer)
		r.Get("/session/point-logs", sessionHandler.GetPointLogs)

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth.Authenticate)

			r.Get("/assets/{kind}/stats", assetHandler.Stats)
			r.Post("/assets/{kind}/generate", assetHandler.Generate)
			r.Post("/sentences/generate", assetHandler.GenerateSentences)

			r.Get("/config", configHandler.Get)
			r.Put("/config", configHandler.Update)
			r.Put("/config/providers", configHandler.UpdateProviders)
			r.Post("/config/settlement", configHandler.InitSettlement)

			r.Post("/settlement/check", settlementHandler.Check)
		})
	})

	// Generated assets are served straight from the upload directory under
	// the configured public path.
	fileServer := http.StripPrefix(
		app.config.Assets.PublicBasePath,
		http.FileServer(http.Dir(app.config.Assets.UploadDir)),
	)
	r.Handle(app.config.Assets.PublicBasePath+"/*", fileServer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
