package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/config"
	"warden/internal/domain/service"
)

const testSigningSecret = "test_signing_secret_key_very_long_for_testing"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestSignerConfig(secret string) *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{Issuer: "warden-test"},
	}
	cfg.SecretKey.Signing = secret

	return cfg
}

func newTestSigner(t *testing.T, clock *fakeClock) service.TokenSigner {
	t.Helper()

	signer, err := NewJWTSigner(newTestSignerConfig(testSigningSecret), WithClock(clock.Now))
	require.NoError(t, err)

	return signer
}

func TestJWTSigner_IssueAndVerify(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	signer := newTestSigner(t, clock)

	userID := uuid.New()
	token, err := signer.Issue(service.TokenKindAccess, userID, 15*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := signer.Verify(service.TokenKindAccess, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.SubjectID)
	assert.Equal(t, service.TokenKindAccess, claims.Kind)
	assert.True(t, claims.ExpiresAt.Equal(clock.Now().Add(15*time.Minute)))
}

func accessClaims(subject string, expiresAt time.Time) tokenClaims {
	return tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "warden-test",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type: service.TokenKindAccess,
	}
}

func TestJWTSigner_KindsAreNotInterchangeable(t *testing.T) {
	signer := newTestSigner(t, newFakeClock(time.Now()))
	userID := uuid.New()

	access, err := signer.Issue(service.TokenKindAccess, userID, time.Minute)
	require.NoError(t, err)
	refresh, err := signer.Issue(service.TokenKindRefresh, userID, time.Hour)
	require.NoError(t, err)

	_, err = signer.Verify(service.TokenKindRefresh, access)
	assert.ErrorIs(t, err, service.ErrTokenKind)

	_, err = signer.Verify(service.TokenKindAccess, refresh)
	assert.ErrorIs(t, err, service.ErrTokenKind)

	claims, err := signer.Verify(service.TokenKindRefresh, refresh)
	require.NoError(t, err)
	assert.Equal(t, service.TokenKindRefresh, claims.Kind)
}

func TestJWTSigner_IssueRejectsUnknownKind(t *testing.T) {
	signer := newTestSigner(t, newFakeClock(time.Now()))

	_, err := signer.Issue(service.TokenKind("session"), uuid.New(), time.Hour)
	assert.Error(t, err)
}

func TestJWTSigner_RejectsShortSecret(t *testing.T) {
	signer, err := NewJWTSigner(newTestSignerConfig("too-short"))
	assert.Error(t, err)
	assert.Nil(t, signer)
}

func TestJWTSigner_IssueRejectsNonPositiveTTL(t *testing.T) {
	signer := newTestSigner(t, newFakeClock(time.Now()))

	_, err := signer.Issue(service.TokenKindAccess, uuid.New(), 0)
	assert.Error(t, err)
}

func TestJWTSigner_ConsecutiveTokensDiffer(t *testing.T) {
	signer := newTestSigner(t, newFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	userID := uuid.New()

	first, err := signer.Issue(service.TokenKindRefresh, userID, time.Hour)
	require.NoError(t, err)
	second, err := signer.Issue(service.TokenKindRefresh, userID, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestJWTSigner_ExpiryBoundary(t *testing.T) {
	// Issuance mid-second: expiry is anchored on the whole second.
	start := time.Date(2026, 1, 2, 3, 4, 5, 400*int(time.Millisecond), time.UTC)
	ttl := 10 * time.Minute

	tests := []struct {
		name    string
		advance time.Duration
		wantErr error
	}{
		{name: "just issued", advance: 0},
		{name: "one second before expiry", advance: ttl - time.Second - 400*time.Millisecond},
		{name: "one second after expiry", advance: ttl + time.Second, wantErr: service.ErrTokenExpired},
		{name: "long after expiry", advance: 24 * time.Hour, wantErr: service.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock(start)
			signer := newTestSigner(t, clock)

			token, err := signer.Issue(service.TokenKindAccess, uuid.New(), ttl)
			require.NoError(t, err)

			clock.Advance(tt.advance)
			_, err = signer.Verify(service.TokenKindAccess, token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestJWTSigner_VerifyFailures(t *testing.T) {
	clock := newFakeClock(time.Now())
	signer := newTestSigner(t, clock)

	valid, err := signer.Issue(service.TokenKindAccess, uuid.New(), time.Hour)
	require.NoError(t, err)

	otherCfg := newTestSignerConfig(strings.Repeat("x", 48))
	otherSigner, err := NewJWTSigner(otherCfg, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := otherSigner.Issue(service.TokenKindAccess, uuid.New(), time.Hour)
	require.NoError(t, err)

	refresh, err := signer.Issue(service.TokenKindRefresh, uuid.New(), time.Hour)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, accessClaims(uuid.NewString(), clock.Now().Add(time.Hour)))
	wrongAlg, err := hs512.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	notUUID := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims("user-42", clock.Now().Add(time.Hour)))
	badSubject, err := notUUID.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: uuid.NewString(),
		Issuer:  "warden-test",
	})
	missingExp, err := noExpiry.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	untyped := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "warden-test",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	})
	missingKind, err := untyped.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "clearly-not-a-jwt-token-format", wantErr: service.ErrTokenMalformed},
		{name: "empty", token: "", wantErr: service.ErrTokenMalformed},
		{name: "tampered payload", token: tamper(valid), wantErr: service.ErrTokenSignature},
		{name: "foreign secret", token: foreign, wantErr: service.ErrTokenSignature},
		{name: "unexpected algorithm", token: wrongAlg, wantErr: service.ErrTokenSignature},
		{name: "subject not an id", token: badSubject, wantErr: service.ErrTokenMalformed},
		{name: "missing expiry", token: missingExp, wantErr: service.ErrTokenMalformed},
		{name: "refresh token where access expected", token: refresh, wantErr: service.ErrTokenKind},
		{name: "missing kind", token: missingKind, wantErr: service.ErrTokenKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := signer.Verify(service.TokenKindAccess, tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// tamper replaces the first character of the signature segment.
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 1
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}

	return token[:i] + string(replacement) + token[i+1:]
}
