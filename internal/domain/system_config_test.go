package domain_test

import (
	"testing"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := domain.NewSystemConfig()

	assert.Equal(t, domain.SystemConfigID, cfg.ID)
	assert.Equal(t, domain.DefaultPointsPerQuestion, cfg.PointsPerQuestion)
	assert.Equal(t, domain.DefaultPointsToRewardRatio, cfg.PointsToRewardRatio)
	assert.Equal(t, domain.DefaultMaxRewardPerCycle, cfg.MaxRewardPerCycle)
	assert.False(t, cfg.SettlementReady)
	assert.Nil(t, cfg.SettlementDay)
}

func TestSystemConfig_RewardFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		points int
		ratio  float64
		cap    float64
		want   float64
	}{
		{name: "simple conversion", points: 10, ratio: 1.0, cap: 100, want: 10},
		{name: "fractional ratio", points: 10, ratio: 0.5, cap: 100, want: 5},
		{name: "clamped at cap", points: 150, ratio: 1.0, cap: 100, want: 100},
		{name: "negative balance floors at zero", points: -5, ratio: 1.0, cap: 100, want: 0},
		{name: "zero points", points: 0, ratio: 2.0, cap: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.NewSystemConfig()
			cfg.PointsToRewardRatio = tt.ratio
			cfg.MaxRewardPerCycle = tt.cap

			assert.Equal(t, tt.want, cfg.RewardFor(tt.points))
		})
	}
}

func TestSystemConfig_InitializeSettlement(t *testing.T) {
	t.Parallel()

	t.Run("sets day and marks ready", func(t *testing.T) {
		cfg := domain.NewSystemConfig()

		err := cfg.InitializeSettlement(15)

		require.NoError(t, err)
		assert.True(t, cfg.SettlementReady)
		require.NotNil(t, cfg.SettlementDay)
		assert.Equal(t, 15, *cfg.SettlementDay)
	})

	t.Run("write-once", func(t *testing.T) {
		cfg := domain.NewSystemConfig()
		require.NoError(t, cfg.InitializeSettlement(15))

		err := cfg.InitializeSettlement(20)

		assert.ErrorIs(t, err, domain.ErrSettlementInitialized)
		assert.Equal(t, 15, *cfg.SettlementDay)
	})

	t.Run("rejects out-of-range days", func(t *testing.T) {
		for _, day := range []int{0, -1, 32} {
			cfg := domain.NewSystemConfig()
			assert.ErrorIs(t, cfg.InitializeSettlement(day), domain.ErrInvalidSettlementDay)
			assert.False(t, cfg.SettlementReady)
		}
	})
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", domain.MaskSecret(""))
	assert.Equal(t, "*****", domain.MaskSecret("short"))
	assert.Equal(t, "********", domain.MaskSecret("12345678"))
	assert.Equal(t, "sk-a****wxyz", domain.MaskSecret("sk-abcdefghijklmnopqrstuvwxyz"))
}
