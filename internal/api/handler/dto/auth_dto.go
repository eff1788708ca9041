package dto

import (
	"errors"
	"strings"
	"time"
)

type TokenRequest struct {
	Username string `json:"username"`
}

func (r *TokenRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	return nil
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
