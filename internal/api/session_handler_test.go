package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lexidrill/lexidrill-api/internal/api"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSessionService lets each test script the service layer.
type stubSessionService struct {
	state        *domain.UserState
	stateErr     error
	startResult  *session.StartResult
	startErr     error
	stopErr      error
	answerResult *session.SubmitAnswerResult
	answerErr    error
	answerReq    session.SubmitAnswerRequest
	logs         []*domain.PointLog
	logsErr      error
	logsLimit    int
}

var _ session.SessionService = (*stubSessionService)(nil)

func (s *stubSessionService) GetState(ctx context.Context) (*domain.UserState, error) {
	return s.state, s.stateErr
}

func (s *stubSessionService) StartSession(ctx context.Context) (*session.StartResult, error) {
	return s.startResult, s.startErr
}

func (s *stubSessionService) StopSession(ctx context.Context) error {
	return s.stopErr
}

func (s *stubSessionService) SubmitAnswer(
	ctx context.Context,
	req session.SubmitAnswerRequest,
) (*session.SubmitAnswerResult, error) {
	s.answerReq = req
	return s.answerResult, s.answerErr
}

func (s *stubSessionService) GetPointLogs(ctx context.Context, limit int) ([]*domain.PointLog, error) {
	s.logsLimit = limit
	return s.logs, s.logsErr
}

func TestSessionHandler_GetState(t *testing.T) {
	t.Parallel()

	state := domain.NewUserState()
	state.CurrentPoints = 7
	svc := &stubSessionService{state: state}
	handler := api.NewSessionHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	handler.GetState(rec, httptest.NewRequest(http.MethodGet, "/api/session/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.UserState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 7, got.CurrentPoints)
}

func TestSessionHandler_Start_NoTargets(t *testing.T) {
	t.Parallel()

	svc := &stubSessionService{startErr: session.ErrNoTargetVocabulary}
	handler := api.NewSessionHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	handler.Start(rec, httptest.NewRequest(http.MethodPost, "/api/session/start", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "target")
}

func TestSessionHandler_Stop(t *testing.T) {
	t.Parallel()

	handler := api.NewSessionHandler(&stubSessionService{}, testLogger())

	rec := httptest.NewRecorder()
	handler.Stop(rec, httptest.NewRequest(http.MethodPost, "/api/session/stop", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestSessionHandler_SubmitAnswer(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	svc := &stubSessionService{
		answerResult: &session.SubmitAnswerResult{
			IsCorrect:     true,
			CorrectAnswer: "bee",
			PointChange:   1,
			NewPoints:     1,
			NewReward:     1,
		},
	}
	handler := api.NewSessionHandler(svc, testLogger())

	body, err := json.Marshal(map[string]string{
		"question_id":   questionID.String(),
		"answer":        "bee",
		"question_type": "image-to-word",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/session/answer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.SubmitAnswer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, questionID, svc.answerReq.QuestionID)
	assert.Equal(t, "bee", svc.answerReq.Answer)
	assert.Equal(t, domain.QuestionImageToWord, svc.answerReq.QuestionType)
}

func TestSessionHandler_SubmitAnswer_BadRequests(t *testing.T) {
	t.Parallel()

	handler := api.NewSessionHandler(&stubSessionService{}, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{`},
		{name: "missing fields", body: `{}`},
		{name: "malformed uuid", body: `{"question_id":"not-a-uuid","answer":"bee","question_type":"image-to-word"}`},
		{name: "unknown question type", body: `{"question_id":"` + uuid.NewString() + `","answer":"bee","question_type":"word-to-sound"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/session/answer",
				bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			handler.SubmitAnswer(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSessionHandler_SubmitAnswer_Unconfigured(t *testing.T) {
	t.Parallel()

	svc := &stubSessionService{answerErr: session.ErrNotConfigured}
	handler := api.NewSessionHandler(svc, testLogger())

	body := `{"question_id":"` + uuid.NewString() + `","answer":"bee","question_type":"image-to-word"}`
	req := httptest.NewRequest(http.MethodPost, "/api/session/answer",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.SubmitAnswer(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration")
}

func TestSessionHandler_GetPointLogs(t *testing.T) {
	t.Parallel()

	svc := &stubSessionService{
		logs: []*domain.PointLog{domain.NewPointLog(1, 1, true, "", domain.QuestionImageToWord)},
	}
	handler := api.NewSessionHandler(svc, testLogger())

	t.Run("limit forwarded", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GetPointLogs(rec,
			httptest.NewRequest(http.MethodGet, "/api/session/point-logs?limit=5", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, svc.logsLimit)
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GetPointLogs(rec,
			httptest.NewRequest(http.MethodGet, "/api/session/point-logs?limit=-1", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
