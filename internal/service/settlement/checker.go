// Package settlement closes monthly reward cycles. The check runs
// opportunistically before user state reads rather than on a timer, so it is
// written to be cheap, idempotent, and never allowed to fail a caller.
package settlement

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lexidrill/lexidrill-api/internal/domain"
	"github.com/lexidrill/lexidrill-api/internal/platform/logger"
	"github.com/lexidrill/lexidrill-api/internal/store"
)

// Checker decides whether the current reward cycle should be closed and, if
// so, snapshots it and resets the learner's balance.
type Checker struct {
	db              *sql.DB
	configStore     store.SystemConfigStore
	stateStore      store.UserStateStore
	settlementStore store.SettlementStore
	logger          *slog.Logger

	// now is injectable for tests.
	now func() time.Time

	// mu guards lastChecked, the process-local performance memo. The real
	// idempotency guard is the persisted settlement history.
	mu          sync.Mutex
	lastChecked time.Time
}

// NewChecker creates a settlement checker.
func NewChecker(
	db *sql.DB,
	configStore store.SystemConfigStore,
	stateStore store.UserStateStore,
	settlementStore store.SettlementStore,
	log *slog.Logger,
) *Checker {
	if db == nil || configStore == nil || stateStore == nil || settlementStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("settlement checker dependencies cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		db:              db,
		configStore:     configStore,
		stateStore:      stateStore,
		settlementStore: settlementStore,
		logger:          log.With(slog.String("component", "settlement_checker")),
		now:             time.Now,
	}
}

// WithClock replaces the time source. Tests use this to walk across
// settlement days deterministically.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// ResetMemo clears the process-local daily memo so the next call re-evaluates
// the persisted guards.
func (c *Checker) ResetMemo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastChecked = time.Time{}
}

// CheckAndSettle closes the current cycle if today is the configured
// settlement day and this month has not been settled yet. All failures are
// logged and swallowed; settlement must never break a state read, and an
// aborted check simply reruns on the next read.
func (c *Checker) CheckAndSettle(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	today := c.now()

	if !c.claimDailyCheck(today) {
		return
	}

	cfg, err := c.configStore.Peek(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrSystemConfigNotFound) {
			log.Error("settlement check failed to load config", slog.String("error", err.Error()))
			c.releaseDailyClaim(today)
		}
		return
	}

	if !cfg.SettlementReady || cfg.SettlementDay == nil {
		return
	}

	if today.Day() != *cfg.SettlementDay {
		return
	}

	// A learner who has never appeared has nothing to settle. Peek, not Get:
	// the check must not create the state row.
	if _, err := c.stateStore.Peek(ctx); err != nil {
		if !errors.Is(err, store.ErrUserStateNotFound) {
			log.Error("settlement check failed to load user state", slog.String("error", err.Error()))
			c.releaseDailyClaim(today)
		}
		return
	}

	latest, err := c.settlementStore.Latest(ctx)
	if err != nil {
		log.Error("settlement check failed to load history", slog.String("error", err.Error()))
		c.releaseDailyClaim(today)
		return
	}
	if latest != nil && latest.SameMonth(today) {
		return
	}

	// Day values past a month's end normalize forward (Feb 31 -> Mar 2/3),
	// matching time.Date semantics.
	cycleEnd := time.Date(today.Year(), today.Month(), *cfg.SettlementDay,
		0, 0, 0, 0, today.Location())
	cycleStart := cycleEnd.AddDate(0, -1, 0)

	err = store.RunInTransaction(ctx, c.db, func(ctx context.Context, tx *sql.Tx) error {
		stateTx := c.stateStore.WithTx(tx)
		historyTx := c.settlementStore.WithTx(tx)

		state, err := stateTx.Peek(ctx)
		if err != nil {
			return err
		}

		history := domain.NewSettlementHistory(
			cycleStart, cycleEnd, state.CurrentPoints, state.CurrentReward)
		if err := historyTx.Append(ctx, history); err != nil {
			return err
		}

		state.ResetCycle()
		return stateTx.Update(ctx, state)
	})
	if err != nil {
		log.Error("settlement transaction failed", slog.String("error", err.Error()))
		c.releaseDailyClaim(today)
		return
	}

	log.Info("settled reward cycle",
		slog.Time("cycle_start", cycleStart),
		slog.Time("cycle_end", cycleEnd))
}

// claimDailyCheck returns true at most once per calendar day per process.
func (c *Checker) claimDailyCheck(today time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	y1, m1, d1 := c.lastChecked.Date()
	y2, m2, d2 := today.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return false
	}

	c.lastChecked = today
	return true
}

// releaseDailyClaim undoes today's claim after a store failure, so the next
// call this settlement day retries instead of waiting for tomorrow.
func (c *Checker) releaseDailyClaim(today time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastChecked.Equal(today) {
		c.lastChecked = time.Time{}
	}
}
