package impl

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"warden/config"
	"warden/internal/domain/service"
	"warden/internal/infra/auth"
	"warden/internal/infra/persistence/memory"
	"warden/internal/usecase"
)

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			Issuer:          "warden-test",
			AccessTokenTTL:  testAccessTTL,
			RefreshTokenTTL: testRefreshTTL,
			Hasher:          config.HasherBcrypt,
			BcryptCost:      bcrypt.MinCost,
		},
		PasswordPolicy: &config.PasswordPolicyConfig{
			MinLength: 1,
			MaxLength: 64,
		},
	}
	cfg.SecretKey.Signing = strings.Repeat("k", config.MinSigningKeyLength)

	return cfg
}

// testClock is a settable clock shared by the signer under test.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// authFixture wires the real hasher, signer and in-memory store.
type authFixture struct {
	service usecase.AuthUsecase
	store   *memory.Store
	hasher  service.PasswordHasher
	signer  service.TokenSigner
	clock   *testClock
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	cfg := newTestConfig()
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	signer, err := auth.NewJWTSigner(cfg, auth.WithClock(clock.Now))
	require.NoError(t, err)

	hasher, err := auth.NewPasswordHasher(cfg)
	require.NoError(t, err)

	store := memory.NewStore()

	srv := NewAuthService(AuthServiceParams{
		TxManager: memory.NewTransactionManager(store),
		UserRepo:  memory.NewUserRepository(store),
		Hasher:    hasher,
		Signer:    signer,
		Config:    cfg,
		Logger:    newDiscardLogger(),
	})

	return authFixture{
		service: srv,
		store:   store,
		hasher:  hasher,
		signer:  signer,
		clock:   clock,
	}
}
