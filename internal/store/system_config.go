package store

import (
	"context"

	"github.com/lexidrill/lexidrill-api/internal/domain"
)

// SystemConfigStore defines access to the singleton system configuration row.
// Version: 1.0
type SystemConfigStore interface {
	// Get returns the system configuration, creating it with defaults if absent.
	Get(ctx context.Context) (*domain.SystemConfig, error)

	// Peek returns the system configuration without creating it.
	// Returns ErrSystemConfigNotFound if the row is absent. The session
	// engine uses this: submitting an answer against an unconfigured system
	// is an error, not a trigger for lazy creation.
	Peek(ctx context.Context) (*domain.SystemConfig, error)

	// Update persists the full configuration row.
	Update(ctx context.Context, cfg *domain.SystemConfig) error
}
