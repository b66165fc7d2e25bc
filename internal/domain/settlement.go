package domain

import (
	"time"

	"github.com/google/uuid"
)

// SettlementHistory is one append-only row per completed settlement cycle:
// the cycle bounds and a snapshot of points and reward at closure time.
// At most one row exists per calendar month.
type SettlementHistory struct {
	ID          uuid.UUID `json:"id"`
	CycleStart  time.Time `json:"cycle_start"`
	CycleEnd    time.Time `json:"cycle_end"`
	TotalPoints int       `json:"total_points"`
	TotalReward float64   `json:"total_reward"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSettlementHistory snapshots a closing cycle.
func NewSettlementHistory(cycleStart, cycleEnd time.Time, points int, reward float64) *SettlementHistory {
	return &SettlementHistory{
		ID:          uuid.New(),
		CycleStart:  cycleStart,
		CycleEnd:    cycleEnd,
		TotalPoints: points,
		TotalReward: reward,
		CreatedAt:   time.Now().UTC(),
	}
}

// SameMonth reports whether the history's cycle end falls in the given
// calendar month. This is the settlement scheduler's true idempotency guard.
func (h *SettlementHistory) SameMonth(t time.Time) bool {
	return h.CycleEnd.Year() == t.Year() && h.CycleEnd.Month() == t.Month()
}
