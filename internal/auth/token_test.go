package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/authgate/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	token, expiresAt, err := tm.GenerateToken(domain.PublicUser{ID: "u-1", Email: "user@test.com"}, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := tm.ParseToken(token, now.Add(59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "user@test.com", claims.Email)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	token, _, err := tm.GenerateToken(domain.PublicUser{ID: "u-1"}, now)
	require.NoError(t, err)

	_, err = tm.ParseToken(token, now.Add(time.Hour))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	user := domain.PublicUser{ID: "u-1"}

	other, _, err := NewTokenManager("other-secret", time.Hour).GenerateToken(user, now)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).ParseToken(other, now)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenManager("secret", time.Hour).ParseToken(unsigned, now)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken("garbage", now)
	assert.Error(t, err)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, NewTokenManager("s", 0).TTL())
}
