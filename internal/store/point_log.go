package store

import (
	"context"
	"database/sql"

	"github.com/lexidrill/lexidrill-api/internal/domain"
)

// PointLogStore defines access to the append-only answer audit trail.
// Version: 1.0
type PointLogStore interface {
	// Append inserts one audit row. Rows are never mutated or deleted.
	Append(ctx context.Context, log *domain.PointLog) error

	// ListRecent returns the newest rows first, at most limit of them.
	ListRecent(ctx context.Context, limit int) ([]*domain.PointLog, error)

	// WithTx returns a PointLogStore that uses the provided transaction.
	WithTx(tx *sql.Tx) PointLogStore
}
