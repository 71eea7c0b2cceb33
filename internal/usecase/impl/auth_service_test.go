package impl

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/service"
	"warden/internal/errors"
	"warden/internal/usecase"
)

func registerAlice(t *testing.T, f authFixture) *usecase.AuthOutput {
	t.Helper()

	out, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw123",
	})
	require.NoError(t, err)

	return out
}

func TestAuthService_Register_ReturnsTokensAndPublicUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out := registerAlice(t, f)

	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, "alice@x.com", out.User.Email)
	assert.NotEmpty(t, out.Tokens.AccessToken)
	assert.NotEmpty(t, out.Tokens.RefreshToken)
	assert.NotEqual(t, out.Tokens.AccessToken, out.Tokens.RefreshToken)

	stored, err := f.store.FindByID(ctx, out.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, f.hasher.Check("pw123", stored.PasswordHash))
	assert.True(t, f.hasher.Check(out.Tokens.RefreshToken, stored.RefreshTokenHash))
	assert.NotEqual(t, out.Tokens.RefreshToken, stored.RefreshTokenHash)

	accessClaims, err := f.signer.Verify(service.TokenKindAccess, out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, accessClaims.SubjectID)
	assert.Equal(t, f.clock.Now().Add(testAccessTTL), accessClaims.ExpiresAt.UTC())

	refreshClaims, err := f.signer.Verify(service.TokenKindRefresh, out.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(testRefreshTTL), refreshClaims.ExpiresAt.UTC())
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out, err := f.service.Register(ctx, &usecase.RegisterInput{
		Username: "alice",
		Email:    "  Alice@X.com ",
		Password: "pw123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", out.User.Email)

	_, err = f.service.Login(ctx, &usecase.LoginInput{Email: "ALICE@x.com", Password: "pw123"})
	assert.NoError(t, err)
}

func TestAuthService_Register_DuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)

	registerAlice(t, f)

	_, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: "alice2",
		Email:    "Alice@x.com",
		Password: "other",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.HTTPCode())
	assert.Equal(t, 1, f.store.Len())
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RegisterInput
	}{
		{name: "missing email", input: usecase.RegisterInput{Username: "a", Password: "pw"}},
		{name: "missing username", input: usecase.RegisterInput{Email: "a@x.com", Password: "pw"}},
		{name: "empty password", input: usecase.RegisterInput{Username: "a", Email: "a@x.com"}},
		{name: "password too long", input: usecase.RegisterInput{Username: "a", Email: "a@x.com", Password: strings.Repeat("p", 65)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			_, err := f.service.Register(context.Background(), &tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
			assert.Equal(t, 0, f.store.Len())
		})
	}
}

func TestAuthService_NilInputs(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out, err := f.service.Register(ctx, nil)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Equal(t, 0, f.store.Len())

	out, err = f.service.Login(ctx, nil)
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_SupersedesRegistrationToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User, login.User)
	assert.NotEqual(t, reg.Tokens.RefreshToken, login.Tokens.RefreshToken)

	_, err = f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	_, err = f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: login.Tokens.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registerAlice(t, f)

	_, wrongPassword := f.service.Login(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "nope"})
	_, unknownEmail := f.service.Login(ctx, &usecase.LoginInput{Email: "bob@x.com", Password: "pw123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.True(t, errors.Is(wrongPassword, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(unknownEmail, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Refresh_SucceedsExactlyOnce(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	first, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.Tokens.RefreshToken, first.RefreshToken)

	_, err = f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	second, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestAuthService_Refresh_RejectsInvalidTokensUniformly(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)
	rotated, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "garbage-not-a-token"},
		{name: "rotated", token: reg.Tokens.RefreshToken},
		{name: "access token", token: rotated.AccessToken},
		{name: "tampered", token: rotated.RefreshToken + "x"},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: tt.token})
			assert.Nil(t, tokens)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
			messages = append(messages, err.Error())
		})
	}

	for _, msg := range messages {
		assert.Equal(t, messages[0], msg)
	}
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	f.clock.Advance(testRefreshTTL + time.Second)

	_, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Refresh_AfterAccessExpiryStillWorks(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	f.clock.Advance(testAccessTTL + time.Second)
	_, err := f.signer.Verify(service.TokenKindAccess, reg.Tokens.AccessToken)
	assert.ErrorIs(t, err, service.ErrTokenExpired)

	tokens, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	require.NoError(t, err)

	_, err = f.signer.Verify(service.TokenKindAccess, tokens.AccessToken)
	assert.NoError(t, err)
}

func TestAuthService_Refresh_ConcurrentAtMostOneWins(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	const workers = 8
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken}); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestAuthService_Logout_RevokesAndIsIdempotent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: reg.Tokens.RefreshToken})
	f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: reg.Tokens.RefreshToken})
	f.service.Logout(ctx, &usecase.LogoutInput{})
	f.service.Logout(ctx, nil)

	stored, err := f.store.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasActiveSession())

	_, err = f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))

	// A fresh login opens a new session.
	login, err := f.service.Login(ctx, &usecase.LoginInput{Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	_, err = f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: login.Tokens.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthService_Logout_IgnoresUnverifiableTokens(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "garbage-not-a-token"})

	f.clock.Advance(testRefreshTTL + time.Second)
	f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: reg.Tokens.RefreshToken})

	stored, err := f.store.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasActiveSession())
}

func TestAuthService_Logout_AccessTokenRevokesNothing(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	f.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: reg.Tokens.AccessToken})

	stored, err := f.store.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasActiveSession())

	_, err = f.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: reg.Tokens.RefreshToken})
	assert.NoError(t, err)
}

func TestAuthService_CurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg := registerAlice(t, f)

	user, err := f.service.CurrentUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.User, user)
}
