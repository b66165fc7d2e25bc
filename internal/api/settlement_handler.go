package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/lexidrill/lexidrill-api/internal/api/shared"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// SettlementChecker triggers the opportunistic settlement check.
type SettlementChecker interface {
	CheckAndSettle(ctx context.Context)
}

// SettlementCheckResponse reports the state after a manual check.
type SettlementCheckResponse struct {
	Checked       bool                   `json:"checked"`
	LatestHistory *SettlementHistoryView `json:"latest_history,omitempty"`
}

// SettlementHistoryView is the client-facing shape of one settlement row.
type SettlementHistoryView struct {
	ID          string  `json:"id"`
	CycleStart  string  `json:"cycle_start"`
	CycleEnd    string  `json:"cycle_end"`
	TotalPoints int     `json:"total_points"`
	TotalReward float64 `json:"total_reward"`
}

// SettlementHandler exposes the manual settlement check and history lookup.
type SettlementHandler struct {
	checker         SettlementChecker
	settlementStore store.SettlementStore
	logger          *slog.Logger
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(
	checker SettlementChecker,
	settlementStore store.SettlementStore,
	log *slog.Logger,
) *SettlementHandler {
	if checker == nil || settlementStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("settlement handler dependencies cannot be nil")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SettlementHandler")
	}

	return &SettlementHandler{
		checker:         checker,
		settlementStore: settlementStore,
		logger:          log.With(slog.String("component", "settlement_handler")),
	}
}

// Check handles POST /admin/settlement/check requests. The check itself
// swallows failures, so this always reports the latest persisted history.
func (h *SettlementHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.checker.CheckAndSettle(r.Context())

	resp := SettlementCheckResponse{Checked: true}

	latest, err := h.settlementStore.Latest(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if latest != nil {
		resp.LatestHistory = &SettlementHistoryView{
			ID:          latest.ID.String(),
			CycleStart:  latest.CycleStart.Format("2006-01-02"),
			CycleEnd:    latest.CycleEnd.Format("2006-01-02"),
			TotalPoints: latest.TotalPoints,
			TotalReward: latest.TotalReward,
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
