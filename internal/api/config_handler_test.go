package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexidrill/lexidrill-api/internal/api"
	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHandler_Get_MasksKeys(t *testing.T) {
	t.Parallel()

	cfg := domain.NewSystemConfig()
	cfg.ZhipuAPIKey = "zhipu-secret-key"
	handler := api.NewConfigHandler(mocks.NewFakeSystemConfigStore(cfg), testLogger())

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/admin/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got api.SystemConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "zhip****-key", got.ZhipuAPIKey)
	assert.Empty(t, got.ElevenLabsAPIKey)
	assert.NotContains(t, rec.Body.String(), "zhipu-secret-key")
}

func TestConfigHandler_Get_LazilyCreatesDefaults(t *testing.T) {
	t.Parallel()

	handler := api.NewConfigHandler(mocks.NewFakeSystemConfigStore(nil), testLogger())

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/admin/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got api.SystemConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.PointsPerQuestion)
	assert.False(t, got.SettlementReady)
	assert.Nil(t, got.SettlementDay)
}

func TestConfigHandler_Update(t *testing.T) {
	t.Parallel()

	configs := mocks.NewFakeSystemConfigStore(domain.NewSystemConfig())
	handler := api.NewConfigHandler(configs, testLogger())

	body := `{"points_per_question":2,"points_to_reward_ratio":0.5,"max_reward_per_cycle":200}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, configs.Cfg.PointsPerQuestion)
	assert.Equal(t, 0.5, configs.Cfg.PointsToRewardRatio)
	assert.Equal(t, 200.0, configs.Cfg.MaxRewardPerCycle)
}

func TestConfigHandler_Update_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	handler := api.NewConfigHandler(
		mocks.NewFakeSystemConfigStore(domain.NewSystemConfig()), testLogger())

	body := `{"points_per_question":0,"points_to_reward_ratio":1,"max_reward_per_cycle":100}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigHandler_UpdateProviders(t *testing.T) {
	t.Parallel()

	cfg := domain.NewSystemConfig()
	cfg.ElevenLabsAPIKey = "existing-elevenlabs-key"
	configs := mocks.NewFakeSystemConfigStore(cfg)
	handler := api.NewConfigHandler(configs, testLogger())

	body := `{"zhipu_api_key":"fresh-zhipu-key"}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/providers",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.UpdateProviders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh-zhipu-key", configs.Cfg.ZhipuAPIKey)
	assert.Equal(t, "existing-elevenlabs-key", configs.Cfg.ElevenLabsAPIKey,
		"omitted keys stay untouched")
	assert.NotContains(t, rec.Body.String(), "fresh-zhipu-key")
}

func TestConfigHandler_UpdateProviders_EmptyBody(t *testing.T) {
	t.Parallel()

	handler := api.NewConfigHandler(
		mocks.NewFakeSystemConfigStore(domain.NewSystemConfig()), testLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/config/providers",
		bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.UpdateProviders(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No provider keys supplied")
}

func TestConfigHandler_InitSettlement(t *testing.T) {
	t.Parallel()

	configs := mocks.NewFakeSystemConfigStore(domain.NewSystemConfig())
	handler := api.NewConfigHandler(configs, testLogger())

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/config/settlement",
			bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.InitSettlement(rec, req)
		return rec
	}

	rec := post(`{"settlement_day":15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, configs.Cfg.SettlementDay)
	assert.Equal(t, 15, *configs.Cfg.SettlementDay)
	assert.True(t, configs.Cfg.SettlementReady)

	rec = post(`{"settlement_day":20}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 15, *configs.Cfg.SettlementDay, "write-once day is preserved")

	rec = post(`{"settlement_day":32}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
