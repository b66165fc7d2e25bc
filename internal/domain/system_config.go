package domain

import (
	"strings"
	"time"
)

// SystemConfigID is the fixed key of the singleton system configuration row.
const SystemConfigID = "system"

// Defaults applied when the configuration row is lazily created.
const (
	DefaultPointsPerQuestion   = 1
	DefaultPointsToRewardRatio = 1.0
	DefaultMaxRewardPerCycle   = 100.0
)

// SystemConfig is the singleton quiz and settlement configuration. The
// provider API keys are opaque secrets and must never be returned to clients
// unmasked.
type SystemConfig struct {
	ID                  string    `json:"id"`
	PointsPerQuestion   int       `json:"points_per_question"`
	PointsToRewardRatio float64   `json:"points_to_reward_ratio"`
	MaxRewardPerCycle   float64   `json:"max_reward_per_cycle"`
	SettlementDay       *int      `json:"settlement_day,omitempty"`
	SettlementReady     bool      `json:"settlement_initialized"`
	ZhipuAPIKey         string    `json:"-"`
	ElevenLabsAPIKey    string    `json:"-"`
	GeminiAPIKey        string    `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewSystemConfig returns the default configuration used on lazy creation.
func NewSystemConfig() *SystemConfig {
	now := time.Now().UTC()
	return &SystemConfig{
		ID:                  SystemConfigID,
		PointsPerQuestion:   DefaultPointsPerQuestion,
		PointsToRewardRatio: DefaultPointsToRewardRatio,
		MaxRewardPerCycle:   DefaultMaxRewardPerCycle,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// RewardFor computes the reward a point balance is worth:
// clamp(points * ratio, 0, maxRewardPerCycle). The balance itself may be
// negative; the reward never is.
func (c *SystemConfig) RewardFor(points int) float64 {
	reward := float64(points) * c.PointsToRewardRatio
	if reward < 0 {
		return 0
	}
	if reward > c.MaxRewardPerCycle {
		return c.MaxRewardPerCycle
	}
	return reward
}

// InitializeSettlement sets the settlement day. The operation is write-once:
// once SettlementReady is true the day is immutable.
func (c *SystemConfig) InitializeSettlement(day int) error {
	if c.SettlementReady {
		return ErrSettlementInitialized
	}
	if day < 1 || day > 31 {
		return ErrInvalidSettlementDay
	}

	d := day
	c.SettlementDay = &d
	c.SettlementReady = true
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// MaskSecret renders an API key safe for display: the first and last four
// characters with the middle replaced, or all asterisks for short keys.
func MaskSecret(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "****" + key[len(key)-4:]
}
