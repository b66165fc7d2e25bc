package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lexidrill/lexidrill-api/internal/api/shared"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// SystemConfigResponse is the admin view of the system configuration. The
// provider keys are always masked.
type SystemConfigResponse struct {
	PointsPerQuestion   int       `json:"points_per_question"`
	PointsToRewardRatio float64   `json:"points_to_reward_ratio"`
	MaxRewardPerCycle   float64   `json:"max_reward_per_cycle"`
	SettlementDay       *int      `json:"settlement_day,omitempty"`
	SettlementReady     bool      `json:"settlement_initialized"`
	ZhipuAPIKey         string    `json:"zhipu_api_key"`
	ElevenLabsAPIKey    string    `json:"elevenlabs_api_key"`
	GeminiAPIKey        string    `json:"gemini_api_key"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateConfigRequest is the body of PUT /admin/config.
type UpdateConfigRequest struct {
	PointsPerQuestion   int     `json:"points_per_question" validate:"required,gt=0"`
	PointsToRewardRatio float64 `json:"points_to_reward_ratio" validate:"required,gt=0"`
	MaxRewardPerCycle   float64 `json:"max_reward_per_cycle" validate:"required,gt=0"`
}

// UpdateProvidersRequest is the body of PUT /admin/config/providers. Empty
// fields leave the stored key untouched so keys can be rotated one at a time.
type UpdateProvidersRequest struct {
	ZhipuAPIKey      string `json:"zhipu_api_key"`
	ElevenLabsAPIKey string `json:"elevenlabs_api_key"`
	GeminiAPIKey     string `json:"gemini_api_key"`
}

// InitSettlementRequest is the body of POST /admin/config/settlement.
type InitSettlementRequest struct {
	SettlementDay int `json:"settlement_day" validate:"required,min=1,max=31"`
}

// ConfigHandler handles admin configuration HTTP requests.
type ConfigHandler struct {
	configStore store.SystemConfigStore
	logger      *slog.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configStore store.SystemConfigStore, log *slog.Logger) *ConfigHandler {
	if configStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("config store cannot be nil for ConfigHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ConfigHandler")
	}

	return &ConfigHandler{
		configStore: configStore,
		logger:      log.With(slog.String("component", "config_handler")),
	}
}

func toConfigResponse(cfg *domain.SystemConfig) SystemConfigResponse {
	return SystemConfigResponse{
		PointsPerQuestion:   cfg.PointsPerQuestion,
		PointsToRewardRatio: cfg.PointsToRewardRatio,
		MaxRewardPerCycle:   cfg.MaxRewardPerCycle,
		SettlementDay:       cfg.SettlementDay,
		SettlementReady:     cfg.SettlementReady,
		ZhipuAPIKey:         domain.MaskSecret(cfg.ZhipuAPIKey),
		ElevenLabsAPIKey:    domain.MaskSecret(cfg.ElevenLabsAPIKey),
		GeminiAPIKey:        domain.MaskSecret(cfg.GeminiAPIKey),
		UpdatedAt:           cfg.UpdatedAt,
	}
}

// Get handles GET /admin/config requests. The configuration row is lazily
// created with defaults on first read.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.configStore.Get(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toConfigResponse(cfg))
}

// Update handles PUT /admin/config requests for the quiz economics.
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateConfigRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	cfg, err := h.configStore.Get(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	cfg.PointsPerQuestion = req.PointsPerQuestion
	cfg.PointsToRewardRatio = req.PointsToRewardRatio
	cfg.MaxRewardPerCycle = req.MaxRewardPerCycle

	if err := h.configStore.Update(r.Context(), cfg); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("quiz configuration updated",
		slog.Int("points_per_question", cfg.PointsPerQuestion),
		slog.Float64("points_to_reward_ratio", cfg.PointsToRewardRatio),
		slog.Float64("max_reward_per_cycle", cfg.MaxRewardPerCycle))

	shared.RespondWithJSON(w, r, http.StatusOK, toConfigResponse(cfg))
}

// UpdateProviders handles PUT /admin/config/providers requests. Keys are
// write-only through this endpoint and only ever read back masked.
func (h *ConfigHandler) UpdateProviders(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req UpdateProvidersRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := h.configStore.Get(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	updated := 0
	if req.ZhipuAPIKey != "" {
		cfg.ZhipuAPIKey = req.ZhipuAPIKey
		updated++
	}
	if req.ElevenLabsAPIKey != "" {
		cfg.ElevenLabsAPIKey = req.ElevenLabsAPIKey
		updated++
	}
	if req.GeminiAPIKey != "" {
		cfg.GeminiAPIKey = req.GeminiAPIKey
		updated++
	}

	if updated == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No provider keys supplied")
		return
	}

	if err := h.configStore.Update(r.Context(), cfg); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("provider keys updated", slog.Int("keys_changed", updated))

	shared.RespondWithJSON(w, r, http.StatusOK, toConfigResponse(cfg))
}

// InitSettlement handles POST /admin/config/settlement requests. The
// settlement day is write-once; re-initialization returns 409.
func (h *ConfigHandler) InitSettlement(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req InitSettlementRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	cfg, err := h.configStore.Get(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := cfg.InitializeSettlement(req.SettlementDay); err != nil {
		if errors.Is(err, domain.ErrSettlementInitialized) {
			log.Warn("settlement re-initialization rejected")
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.configStore.Update(r.Context(), cfg); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("settlement initialized", slog.Int("settlement_day", req.SettlementDay))

	shared.RespondWithJSON(w, r, http.StatusOK, toConfigResponse(cfg))
}
