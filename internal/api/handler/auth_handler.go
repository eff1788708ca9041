package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"invoice-dashboard/internal/api/handler/dto"
	"invoice-dashboard/internal/config"
	"invoice-dashboard/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
		now:    time.Now,
	}
}

// GenerateBearerToken handles POST /auth/token. It signs an HS256 token for
// the given username with the configured secret.
//
// @Summary Generate a JWT bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "username"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode token request", "error", err)
		respondError(w, &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: "Invalid request body.", Cause: fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)})
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, &apperrors.AppError{Code: "INVALID_ARGUMENT", Message: err.Error(), Cause: apperrors.ErrInvalidArgument})
		return
	}
	if h.cfg.JWTSecret == "" {
		h.logger.ErrorContext(r.Context(), "Token requested but no signing secret is configured")
		respondError(w, &apperrors.AppError{Code: "CONFIG_ERROR", Message: msgUnexpected, Cause: errors.New("jwt secret not configured")})
		return
	}

	expiresAt := h.now().Add(tokenLifetime).UTC()
	claims := jwt.MapClaims{
		"username": req.Username,
		"iat":      h.now().Unix(),
		"exp":      expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", "error", err)
		respondError(w, fmt.Errorf("%w: %w", apperrors.ErrInternalServer, err))
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", "username", req.Username)
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: "Bearer " + signed, ExpiresAt: expiresAt.Truncate(time.Second)})
}
