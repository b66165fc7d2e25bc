package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lexidrill/lexidrill-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *hmacTokenService {
	t.Helper()

	svc, err := NewAdminTokenService(config.AuthConfig{
		AdminTokenSecret:     testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacTokenService)
}

func TestNewAdminTokenService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewAdminTokenService(config.AuthConfig{
		AdminTokenSecret:     "too-short",
		TokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "admin", claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx)
	require.NoError(t, err)

	// Jump past the lifetime plus clock skew.
	svc.timeFunc = func() time.Time {
		return time.Now().Add(svc.tokenLifetime + svc.clockSkew + time.Minute)
	}

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_NotYetValid(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	claims := adminClaims{
		TokenType: adminTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			NotBefore: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestTokenService_InvalidTokens(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other, err := NewAdminTokenService(config.AuthConfig{
			AdminTokenSecret:     strings.Repeat("x", 32),
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(ctx)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong token type", func(t *testing.T) {
		claims := adminClaims{
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "admin",
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
