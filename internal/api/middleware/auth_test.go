package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexidrill/lexidrill-api/internal/api/middleware"
	"github.com/lexidrill/lexidrill-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

type stubTokenService struct {
	validateErr error
	seenToken   string
}

func (s *stubTokenService) GenerateToken(ctx context.Context) (string, error) {
	return "stub-token", nil
}

func (s *stubTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	s.seenToken = tokenString
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &auth.Claims{}, nil
}

func serveWithAuth(t *testing.T, tokens *stubTokenService, header string) (*httptest.ResponseRecorder, *bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/config", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	rec := httptest.NewRecorder()
	middleware.NewAdminAuthMiddleware(tokens).Authenticate(next).ServeHTTP(rec, req)
	return rec, &reached
}

func TestAdminAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tokens := &stubTokenService{}
	rec, reached := serveWithAuth(t, tokens, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
	assert.Equal(t, "good-token", tokens.seenToken)
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	rec, reached := serveWithAuth(t, &stubTokenService{}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization header required")
	assert.False(t, *reached)
}

func TestAdminAuth_BadScheme(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer a b"} {
		rec, reached := serveWithAuth(t, &stubTokenService{}, header)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.False(t, *reached, "header %q", header)
	}
}

func TestAdminAuth_RejectedTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "expired", err: auth.ErrExpiredToken, message: "Token expired"},
		{name: "invalid", err: auth.ErrInvalidToken, message: "Invalid token"},
		{name: "not yet valid", err: auth.ErrTokenNotYetValid, message: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &stubTokenService{validateErr: tt.err}
			rec, reached := serveWithAuth(t, tokens, "Bearer some-token")

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.False(t, *reached)
		})
	}
}
