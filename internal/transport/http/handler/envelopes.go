package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/multiyo/banner-admin-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// OTPRequestEnvelope wraps /auth/request-otp responses.
type OTPRequestEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Email     string `json:"email,omitempty"` // masked
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// LoginEnvelope wraps /auth/verify-otp responses.
type LoginEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Token     string `json:"token,omitempty"`
	Email     string `json:"email,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// TokenEnvelope wraps /auth/verify-token responses.
type TokenEnvelope struct {
	Valid     bool   `json:"valid"`
	Message   string `json:"message,omitempty"`
	Email     string `json:"email,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

// BannerEnvelope wraps banner write responses.
type BannerEnvelope struct {
	Message string         `json:"message,omitempty"`
	Banner  *domain.Banner `json:"banner,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// BannerListEnvelope wraps banner list responses.
type BannerListEnvelope struct {
	Banners []domain.Banner `json:"banners"`
}

// CollectionListEnvelope wraps collection list responses.
type CollectionListEnvelope struct {
	Collections []domain.Collection `json:"collections"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP statuses.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
