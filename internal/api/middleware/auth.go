package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"invoice-dashboard/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const usernameKey contextKey = "username"

// UsernameFromContext returns the username claim of an authenticated request.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok
}

// AuthMiddleware requires a valid HS256 bearer token on every request.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := validateJWT(r, cfg.JWTSecret, logger)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateJWT(r *http.Request, secret string, logger *slog.Logger) (string, bool) {
	ctx := r.Context()
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.WarnContext(ctx, "AuthMiddleware: Missing Authorization header")
		return "", false
	}

	scheme, tokenString, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
		logger.WarnContext(ctx, "AuthMiddleware: Invalid Authorization header format")
		return "", false
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		logger.WarnContext(ctx, "AuthMiddleware: Invalid token", "error", err)
		return "", false
	}

	username, _ := claims["username"].(string)
	logger.DebugContext(ctx, "AuthMiddleware: Authenticated request", "username", username)
	return username, true
}
