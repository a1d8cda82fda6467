package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// OTP verification outcomes. All carry their wire-level reason as the message
// surfaced on /auth/verify-otp; handlers treat them as 401s via ErrUnauthorized.
var (
	ErrOTPNotFound        = &otpError{"OTP not found or expired"}
	ErrOTPExpired         = &otpError{"OTP expired"}
	ErrOTPTooManyAttempts = &otpError{"Too many attempts"}
	ErrOTPInvalid         = &otpError{"Invalid OTP"}
)

type otpError struct{ msg string }

func (e *otpError) Error() string { return e.msg }

// Unwrap lets errors.Is(err, ErrUnauthorized) hold for every OTP failure.
func (e *otpError) Unwrap() error { return ErrUnauthorized }
