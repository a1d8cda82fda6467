package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/multiyo/banner-admin-api/internal/config"
	jwtinfra "github.com/multiyo/banner-admin-api/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: 24 * time.Hour})
	require.NoError(t, err)
	return p
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true}, // scheme is case-insensitive
		{"BEARER abc.def.ghi", "abc.def.ghi", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer a b", "", false}, // must be exactly two tokens
		{"Basic abc.def.ghi", "", false},
		{"abc.def.ghi", "", false},
	}
	for _, c := range cases {
		token, ok := ExtractBearer(c.header)
		assert.Equal(t, c.ok, ok, c.header)
		assert.Equal(t, c.token, token, c.header)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	p := newTestProvider(t)

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		Auth(p)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)
	}
}

func TestAuth_BadToken(t *testing.T) {
	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired, err := jwtinfra.NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Hour})
	require.NoError(t, err)
	signed, err := expired.Sign("admin@example.com")
	require.NoError(t, err)

	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	Auth(p)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "expired")
}

func TestAuth_ValidToken_InjectsEmail(t *testing.T) {
	p := newTestProvider(t)

	signed, err := p.Sign("admin@example.com")
	require.NoError(t, err)

	var gotEmail string
	captureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+signed) // lower-case scheme accepted
	rr := httptest.NewRecorder()
	Auth(p)(captureHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin@example.com", gotEmail)
}
