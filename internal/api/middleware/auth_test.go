package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoice-dashboard/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testSecret = "testsecret"

func signedToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: testSecret}
	valid := jwt.MapClaims{"username": "alice", "exp": time.Now().Add(time.Hour).Unix()}

	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		cfg    config.AuthConfig
		header string
		want   int
	}{
		{"disabled passes through", config.AuthConfig{Enabled: false}, "", http.StatusOK},
		{"missing header", cfg, "", http.StatusUnauthorized},
		{"wrong scheme", cfg, "Basic abc", http.StatusUnauthorized},
		{"garbage token", cfg, "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", cfg, "Bearer " + signedToken(t, jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized},
		{"wrong algorithm", cfg, "Bearer " + signedToken(t, jwt.SigningMethodHS512, []byte(testSecret), valid), http.StatusUnauthorized},
		{"expired", cfg, "Bearer " + signedToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"username": "alice", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no expiry", cfg, "Bearer " + signedToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"username": "alice"}), http.StatusUnauthorized},
		{"valid", cfg, "bearer " + signedToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.cfg, testLogger)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}

	t.Run("username reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.SigningMethodHS256, []byte(testSecret), valid))
		rec := httptest.NewRecorder()

		AuthMiddleware(cfg, testLogger)(next).ServeHTTP(rec, req)

		assert.Equal(t, "alice", seenUser)
	})
}
