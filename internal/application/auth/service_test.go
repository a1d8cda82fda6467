package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/multiyo/banner-admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// memOTPStore is an in-memory OTPStore so flow tests can exercise the full
// issue/verify lifecycle.
type memOTPStore struct {
	records map[string]*domain.OTPRecord
	failPut error
	failGet error
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{records: make(map[string]*domain.OTPRecord)}
}

func (m *memOTPStore) Upsert(_ context.Context, rec *domain.OTPRecord) error {
	if m.failPut != nil {
		return m.failPut
	}
	cp := *rec
	m.records[rec.Email] = &cp
	return nil
}

func (m *memOTPStore) Get(_ context.Context, email string) (*domain.OTPRecord, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	rec, ok := m.records[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memOTPStore) IncrementAttempts(_ context.Context, email string) error {
	rec, ok := m.records[email]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Attempts++
	return nil
}

func (m *memOTPStore) Delete(_ context.Context, email string) error {
	delete(m.records, email)
	return nil
}

// captureMailer records the last email instead of sending it.
type captureMailer struct {
	to, subject, body string
	sendErr           error
	calls             int
}

func (m *captureMailer) SendEmail(to, subject, htmlBody string) error {
	m.calls++
	m.to, m.subject, m.body = to, subject, htmlBody
	return m.sendErr
}

var codeRe = regexp.MustCompile(`\d{6}`)

// sentCode extracts the plaintext code from the captured email. Only the
// outbound email ever carries it; the store holds a bcrypt hash.
func (m *captureMailer) sentCode(t *testing.T) string {
	t.Helper()
	code := codeRe.FindString(m.body)
	require.NotEmpty(t, code, "no 6-digit code in email body")
	return code
}

type stubSigner struct {
	token   string
	signErr error
}

func (s *stubSigner) Sign(string) (string, error) { return s.token, s.signErr }
func (s *stubSigner) Expiry() time.Duration       { return 24 * time.Hour }

func newTestService(store *memOTPStore, mailer *captureMailer) Service {
	return NewService(
		[]string{"Admin@Example.com", "ops@example.com"},
		store, mailer, &stubSigner{token: "bearer-token"},
		Config{CodeLength: 6, TTL: 5 * time.Minute, MaxAttempts: 3},
	)
}

// --- IsAdmin ---

func TestIsAdmin_CaseInsensitive(t *testing.T) {
	svc := newTestService(newMemOTPStore(), &captureMailer{})
	assert.True(t, svc.IsAdmin("admin@example.com"))
	assert.True(t, svc.IsAdmin("ADMIN@EXAMPLE.COM"))
	assert.True(t, svc.IsAdmin("  ops@example.com  "))
	assert.False(t, svc.IsAdmin("stranger@example.com"))
}

func TestIsAdmin_EmptyAllowList(t *testing.T) {
	svc := NewService(nil, newMemOTPStore(), &captureMailer{}, &stubSigner{}, Config{CodeLength: 6, TTL: 5 * time.Minute, MaxAttempts: 3})
	assert.False(t, svc.IsAdmin("admin@example.com"))
}

// --- RequestOTP ---

func TestRequestOTP_NonAdmin_NoRecordCreated(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)

	_, err := svc.RequestOTP(context.Background(), "stranger@example.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Empty(t, store.records)
	assert.Zero(t, mailer.calls)
}

func TestRequestOTP_NormalizesAndMasks(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)

	result, err := svc.RequestOTP(context.Background(), "  Admin@Example.com  ")

	require.NoError(t, err)
	assert.Equal(t, "ad***@example.com", result.MaskedEmail)
	assert.Equal(t, 300, result.ExpiresIn)

	rec, ok := store.records["admin@example.com"]
	require.True(t, ok, "record keyed by normalized email")
	assert.Equal(t, 0, rec.Attempts)
	assert.InDelta(t, time.Now().Add(5*time.Minute).Unix(), rec.ExpiresAt, 2)
	assert.Equal(t, "admin@example.com", mailer.to)
}

func TestRequestOTP_StoresHashNotPlaintext(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)

	_, err := svc.RequestOTP(context.Background(), "admin@example.com")
	require.NoError(t, err)

	code := mailer.sentCode(t)
	assert.NotContains(t, store.records["admin@example.com"].CodeHash, code)
}

func TestRequestOTP_DeliveryFailureIsSwallowed(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{sendErr: errors.New("smtp: connection refused")}
	svc := newTestService(store, mailer)

	result, err := svc.RequestOTP(context.Background(), "admin@example.com")

	// delivery_failed is logged, never surfaced: the code stays valid.
	require.NoError(t, err)
	assert.Equal(t, "ad***@example.com", result.MaskedEmail)
	assert.Contains(t, store.records, "admin@example.com")
}

func TestRequestOTP_PersistFailurePropagates(t *testing.T) {
	store := newMemOTPStore()
	store.failPut = errors.New("dynamo unavailable")
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)

	_, err := svc.RequestOTP(context.Background(), "admin@example.com")

	require.Error(t, err)
	assert.Zero(t, mailer.calls, "no email for an unpersisted code")
}

func TestRequestOTP_ReissueReplacesOldCode(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	oldCode := mailer.sentCode(t)

	// Burn an attempt so we can tell the counter was reset too.
	_, err = svc.VerifyOTP(ctx, "admin@example.com", "000000")
	if oldCode == "000000" {
		t.Skip("guessed the code")
	}
	require.ErrorIs(t, err, domain.ErrOTPInvalid)

	_, err = svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	newCode := mailer.sentCode(t)
	assert.Equal(t, 0, store.records["admin@example.com"].Attempts)

	if oldCode != newCode {
		_, err = svc.VerifyOTP(ctx, "admin@example.com", oldCode)
		require.ErrorIs(t, err, domain.ErrOTPInvalid, "old code must not verify")
	}
	result, err := svc.VerifyOTP(ctx, "admin@example.com", newCode)
	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Token)
}

// --- VerifyOTP ---

func TestVerifyOTP_NoRecord(t *testing.T) {
	svc := newTestService(newMemOTPStore(), &captureMailer{})
	_, err := svc.VerifyOTP(context.Background(), "admin@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyOTP_StoreOutage_IsNotALoginRejection(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	code := mailer.sentCode(t)

	store.failGet = errors.New("dynamo unavailable")
	_, err = svc.VerifyOTP(ctx, "admin@example.com", code)

	// An unreachable store is an internal failure, not a 401 reason.
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrOTPNotFound)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorContains(t, err, "dynamo unavailable")

	// The record survives: once the store is back, the code still verifies.
	store.failGet = nil
	result, err := svc.VerifyOTP(ctx, "admin@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Token)
}

func TestVerifyOTP_HappyPath_ConsumesRecord(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "Admin@Example.com")
	require.NoError(t, err)
	code := mailer.sentCode(t)

	result, err := svc.VerifyOTP(ctx, "ADMIN@example.com", " "+code+" ")
	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Token)
	assert.Equal(t, "admin@example.com", result.Email)
	assert.Equal(t, 86400, result.ExpiresIn)

	// Exactly once: the same code must not verify again.
	_, err = svc.VerifyOTP(ctx, "admin@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestVerifyOTP_Expired_DeletesRecord(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	code := mailer.sentCode(t)
	store.records["admin@example.com"].ExpiresAt = time.Now().Add(-time.Second).Unix()

	// Correct code, but past expiry: must still fail and purge the record.
	_, err = svc.VerifyOTP(ctx, "admin@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
	assert.NotContains(t, store.records, "admin@example.com")

	_, err = svc.VerifyOTP(ctx, "admin@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestVerifyOTP_WrongCode_IncrementsAttempts(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	code := mailer.sentCode(t)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err = svc.VerifyOTP(ctx, "admin@example.com", wrong)
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	assert.Equal(t, 1, store.records["admin@example.com"].Attempts)

	// A wrong guess doesn't consume the record: the right code still works.
	result, err := svc.VerifyOTP(ctx, "admin@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "bearer-token", result.Token)
}

func TestVerifyOTP_AttemptCeiling_LocksOutCorrectCode(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)
	code := mailer.sentCode(t)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		_, err = svc.VerifyOTP(ctx, "admin@example.com", wrong)
		assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	}

	// 4th attempt, even with the correct code, hits the ceiling and purges.
	_, err = svc.VerifyOTP(ctx, "admin@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPTooManyAttempts)
	assert.NotContains(t, store.records, "admin@example.com")

	_, err = svc.VerifyOTP(ctx, "admin@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestVerifyOTP_SignFailurePropagates(t *testing.T) {
	store := newMemOTPStore()
	mailer := &captureMailer{}
	svc := NewService(
		[]string{"admin@example.com"},
		store, mailer, &stubSigner{signErr: errors.New("no secret")},
		Config{CodeLength: 6, TTL: 5 * time.Minute, MaxAttempts: 3},
	)
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "admin@example.com")
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, "admin@example.com", mailer.sentCode(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

// --- helpers ---

func TestGenerateCode_LengthAndCharset(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := generateCode(6)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "codes should vary")
}

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"admin@example.com":   "ad***@example.com",
		"a@b.com":             "a@b.com",
		"ab@example.com":      "a*@example.com",
		"operator@corp.co.uk": "ope*****@corp.co.uk",
	}
	for in, want := range cases {
		assert.Equal(t, want, maskEmail(in), in)
	}
}
