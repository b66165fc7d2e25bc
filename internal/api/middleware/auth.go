package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lexidrill/lexidrill-api/internal/api/shared"
	"github.com/lexidrill/lexidrill-api/internal/redact"
	"github.com/lexidrill/lexidrill-api/internal/service/auth"
)

// AdminAuthMiddleware gates the admin API surface behind a bearer token.
type AdminAuthMiddleware struct {
	tokens auth.AdminTokenService
}

// NewAdminAuthMiddleware creates a new AdminAuthMiddleware.
func NewAdminAuthMiddleware(tokens auth.AdminTokenService) *AdminAuthMiddleware {
	if tokens == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("token service cannot be nil")
	}
	return &AdminAuthMiddleware{tokens: tokens}
}

// Authenticate validates the admin bearer token from the Authorization
// header before letting the request through.
func (m *AdminAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		if _, err := m.tokens.ValidateToken(r.Context(), parts[1]); err != nil {
			switch err {
			case auth.ErrExpiredToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case auth.ErrInvalidToken, auth.ErrTokenNotYetValid, auth.ErrMissingToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate admin token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}
