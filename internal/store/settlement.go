package store

import (
	"context"
	"database/sql"

	"github.com/lexidrill/lexidrill-api/internal/domain"
)

// SettlementStore defines access to the append-only settlement history.
// Version: 1.0
type SettlementStore interface {
	// Append inserts one settlement snapshot.
	Append(ctx context.Context, history *domain.SettlementHistory) error

	// Latest returns the most recent settlement row, or nil if none exists.
	// The scheduler reads this to decide whether the current month has
	// already been settled.
	Latest(ctx context.Context) (*domain.SettlementHistory, error)

	// WithTx returns a SettlementStore that uses the provided transaction.
	WithTx(tx *sql.Tx) SettlementStore
}
