package store

import (
	"context"
	"database/sql"

	"github.com/lexidrill/lexidrill-api/internal/domain"
)

// UserStateStore defines access to the singleton user state row.
// Version: 1.0
type UserStateStore interface {
	// Get returns the user state, creating it with defaults if absent.
	Get(ctx context.Context) (*domain.UserState, error)

	// Peek returns the user state without creating it.
	// Returns ErrUserStateNotFound if the row is absent.
	Peek(ctx context.Context) (*domain.UserState, error)

	// Update persists the full user state row.
	// Returns ErrUserStateNotFound if the row is absent.
	Update(ctx context.Context, state *domain.UserState) error

	// WithTx returns a UserStateStore that uses the provided transaction.
	// Mutations of the singleton row should run inside
	// store.RunInTransaction to avoid lost updates between overlapping
	// requests.
	WithTx(tx *sql.Tx) UserStateStore
}
