package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/multiyo/banner-admin-api/internal/application/auth"
	"github.com/multiyo/banner-admin-api/internal/domain"
	jwtinfra "github.com/multiyo/banner-admin-api/internal/infrastructure/jwt"
	"github.com/multiyo/banner-admin-api/internal/pkg/validate"
	"github.com/multiyo/banner-admin-api/internal/transport/http/middleware"
)

type RequestOTPBody struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPBody struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// TokenVerifier validates session bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// AuthHandler handles the OTP login flow endpoints.
type AuthHandler struct {
	svc      auth.Service
	verifier TokenVerifier
}

func NewAuthHandler(svc auth.Service, verifier TokenVerifier) *AuthHandler {
	return &AuthHandler{svc: svc, verifier: verifier}
}

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var body RequestOTPBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.RequestOTP(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			writeJSON(w, http.StatusForbidden, OTPRequestEnvelope{
				Success: false,
				Message: "This email is not registered as an admin",
			})
			return
		}
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, OTPRequestEnvelope{
		Success:   true,
		Message:   "OTP sent to " + result.MaskedEmail,
		Email:     result.MaskedEmail,
		ExpiresIn: result.ExpiresIn,
	})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body VerifyOTPBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Email) == "" || strings.TrimSpace(body.OTP) == "" {
		writeError(w, http.StatusBadRequest, "email and OTP are required")
		return
	}
	if err := validate.Struct(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.VerifyOTP(r.Context(), body.Email, body.OTP)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, LoginEnvelope{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		httpError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginEnvelope{
		Success:   true,
		Message:   "Login successful",
		Token:     result.Token,
		Email:     result.Email,
		ExpiresIn: result.ExpiresIn,
	})
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.ExtractBearer(r.Header.Get("Authorization"))
	if !ok {
		writeJSON(w, http.StatusUnauthorized, TokenEnvelope{Valid: false, Message: "No token provided"})
		return
	}

	claims, err := h.verifier.Verify(token)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, TokenEnvelope{Valid: false, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, TokenEnvelope{
		Valid:     true,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}
