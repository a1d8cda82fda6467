package jwtinfra

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/multiyo/banner-admin-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	assert.Error(t, err)
}

func TestSignAndVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t, 24*time.Hour)

	token, err := p.Sign("admin@example.com")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t, -time.Minute) // already expired at mint time

	token, err := p.Sign("admin@example.com")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	p1 := newTestProvider(t, time.Hour)
	p2, err := NewProvider(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour})
	require.NoError(t, err)

	token, err := p1.Sign("admin@example.com")
	require.NoError(t, err)

	_, err = p2.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_TamperedToken(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	token, err := p.Sign("admin@example.com")
	require.NoError(t, err)

	// Flip a byte in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = p.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	_, err := p.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsNoneAndWrongAlg(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	claims := Claims{
		Email: "admin@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
