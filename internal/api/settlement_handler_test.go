package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lexidrill/lexidrill-api/internal/api"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChecker struct {
	calls int
}

func (c *recordingChecker) CheckAndSettle(ctx context.Context) {
	c.calls++
}

func TestSettlementHandler_Check_NoHistory(t *testing.T) {
	t.Parallel()

	checker := &recordingChecker{}
	handler := api.NewSettlementHandler(checker, mocks.NewFakeSettlementStore(), testLogger())

	rec := httptest.NewRecorder()
	handler.Check(rec, httptest.NewRequest(http.MethodPost, "/api/admin/settlement/check", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, checker.calls)

	var resp api.SettlementCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Checked)
	assert.Nil(t, resp.LatestHistory)
}

func TestSettlementHandler_Check_ReportsLatest(t *testing.T) {
	t.Parallel()

	histories := mocks.NewFakeSettlementStore()
	old := domain.NewSettlementHistory(
		time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), 10, 10)
	latest := domain.NewSettlementHistory(
		time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), 40, 40)
	require.NoError(t, histories.Append(context.Background(), old))
	require.NoError(t, histories.Append(context.Background(), latest))

	handler := api.NewSettlementHandler(&recordingChecker{}, histories, testLogger())

	rec := httptest.NewRecorder()
	handler.Check(rec, httptest.NewRequest(http.MethodPost, "/api/admin/settlement/check", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SettlementCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.LatestHistory)
	assert.Equal(t, latest.ID.String(), resp.LatestHistory.ID)
	assert.Equal(t, "2026-02-15", resp.LatestHistory.CycleStart)
	assert.Equal(t, "2026-03-15", resp.LatestHistory.CycleEnd)
	assert.Equal(t, 40, resp.LatestHistory.TotalPoints)
	assert.Equal(t, 40.0, resp.LatestHistory.TotalReward)
}
