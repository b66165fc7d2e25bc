package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lexidrill/lexidrill-api/internal/api/shared"
	"github.com/lexidrill/lexidrill-api/internal/asset"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
)

// AssetHandler handles admin asset pipeline HTTP requests.
type AssetHandler struct {
	assets *asset.Service
	logger *slog.Logger
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets *asset.Service, log *slog.Logger) *AssetHandler {
	if assets == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("asset service cannot be nil for AssetHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AssetHandler")
	}

	return &AssetHandler{
		assets: assets,
		logger: log.With(slog.String("component", "asset_handler")),
	}
}

// kindFromPath extracts and validates the asset kind path parameter.
func kindFromPath(r *http.Request) (asset.Kind, bool) {
	kind := asset.Kind(chi.URLParam(r, "kind"))
	return kind, asset.ValidKind(kind)
}

// Stats handles GET /admin/assets/{kind}/stats requests.
func (h *AssetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromPath(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown asset kind")
		return
	}

	stats, err := h.assets.Stats(r.Context(), kind)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Generate handles POST /admin/assets/{kind}/generate requests. The run is
// synchronous: the response is the full fan-in report.
func (h *AssetHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	kind, ok := kindFromPath(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown asset kind")
		return
	}

	report, err := h.assets.GenerateMissing(r.Context(), kind)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("generation run finished",
		slog.String("kind", string(kind)),
		slog.Int("total", report.Total),
		slog.Int("generated", report.Generated),
		slog.Int("failed", report.Failed))

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GenerateSentences handles POST /admin/sentences/generate requests. The
// optional per_word query parameter sets the target sentence count per
// vocabulary (default 2).
func (h *AssetHandler) GenerateSentences(w http.ResponseWriter, r *http.Request) {
	perWord := 0
	if raw := r.URL.Query().Get("per_word"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid per_word parameter")
			return
		}
		perWord = parsed
	}

	report, err := h.assets.GenerateSentences(r.Context(), perWord)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
