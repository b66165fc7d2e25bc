// Package auth issues and validates the bearer tokens that gate the admin
// API surface. Learner routes are open by design (single-learner deployment);
// everything that can mutate configuration or trigger provider spend requires
// an admin token.
package auth

import (
	"context"
	"time"
)

// Claims holds the validated content of an admin token.
type Claims struct {
	// Subject identifies the token holder.
	Subject string `json:"sub,omitempty"`

	// TokenType is always "admin" for tokens this service issues. Validation
	// rejects any other value.
	TokenType string `json:"type,omitempty"`

	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// AdminTokenService defines operations for managing admin bearer tokens.
type AdminTokenService interface {
	// GenerateToken creates a signed admin token.
	GenerateToken(ctx context.Context) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken, ErrTokenNotYetValid, or
	// ErrInvalidToken on validation failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}
