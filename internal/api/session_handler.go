package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/api/shared"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/service/session"
)

// SubmitAnswerRequest is the body of POST /session/answer.
type SubmitAnswerRequest struct {
	QuestionID   string `json:"question_id" validate:"required,uuid"`
	Answer       string `json:"answer" validate:"required"`
	QuestionType string `json:"question_type" validate:"required"`
}

// StopSessionResponse acknowledges a stop request.
type StopSessionResponse struct {
	Success bool `json:"success"`
}

// SessionHandler handles learner-facing session HTTP requests.
type SessionHandler struct {
	sessions session.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions session.SessionService, log *slog.Logger) *SessionHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("session service cannot be nil for SessionHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "session_handler")),
	}
}

// GetState handles GET /session/state requests.
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.GetState(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// Start handles POST /session/start requests. Restarting with a pending
// question resumes it rather than drawing a new one.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.sessions.StartSession(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoTargetVocabulary) {
			log.Debug("start rejected: empty target set")
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Stop handles POST /session/stop requests.
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.StopSession(r.Context()); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StopSessionResponse{Success: true})
}

// SubmitAnswer handles POST /session/answer requests.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid question id")
		return
	}

	questionType := domain.QuestionType(req.QuestionType)
	if !domain.ValidQuestionType(questionType) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid question type")
		return
	}

	result, err := h.sessions.SubmitAnswer(r.Context(), session.SubmitAnswerRequest{
		QuestionID:   questionID,
		Answer:       req.Answer,
		QuestionType: questionType,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("answer processed",
		slog.Bool("correct", result.IsCorrect),
		slog.Int("new_points", result.NewPoints))

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetPointLogs handles GET /session/point-logs requests. The optional limit
// query parameter bounds the page; it defaults to 50.
func (h *SessionHandler) GetPointLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	logs, err := h.sessions.GetPointLogs(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, logs)
}
