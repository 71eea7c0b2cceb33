// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"warden/config"
	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/errors"
	"warden/internal/usecase"
)

const (
	// issueMaxAttempts bounds reload-and-retry when Save loses a version race.
	issueMaxAttempts = 3

	// dummyPassword is hashed once and checked against when login hits an unknown email.
	dummyPassword = "warden-login-timing-equalizer"

	defaultPasswordMinLength = 1
	defaultPasswordMaxLength = 1024
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	signer    service.TokenSigner
	metrics   service.AuthMetrics
	logger    *slog.Logger

	accessTTL         time.Duration
	refreshTTL        time.Duration
	passwordMinLength int
	passwordMaxLength int

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Signer    service.TokenSigner
	Metrics   service.AuthMetrics `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	srv := &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		hasher:            params.Hasher,
		signer:            params.Signer,
		metrics:           params.Metrics,
		logger:            params.Logger,
		passwordMinLength: defaultPasswordMinLength,
		passwordMaxLength: defaultPasswordMaxLength,
	}
	if srv.metrics == nil {
		srv.metrics = service.NopAuthMetrics{}
	}
	if srv.logger == nil {
		srv.logger = slog.Default()
	}

	if params.Config != nil {
		if params.Config.Auth != nil {
			srv.accessTTL = params.Config.Auth.AccessTokenTTL
			srv.refreshTTL = params.Config.Auth.RefreshTokenTTL
		}
		if policy := params.Config.PasswordPolicy; policy != nil {
			if policy.MinLength > 0 {
				srv.passwordMinLength = policy.MinLength
			}
			if policy.MaxLength > 0 {
				srv.passwordMaxLength = policy.MaxLength
			}
		}
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the account and its first session in one unit of work.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	start := time.Now()
	out, err := srv.register(ctx, input)
	srv.observe(service.OperationRegister, start, err)

	return out, err
}

func (srv *authService) register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	if input == nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "registration input is required")
	}

	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "username and email are required")
	}

	if err := srv.checkPasswordPolicy(input.Password); err != nil {
		srv.log(ctx).Warn("Password rejected by policy", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	var (
		registered *entity.User
		tokens     *entity.TokenPair
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, email)
		switch {
		case findErr == nil:
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		case !errors.Is(findErr, repository.ErrUserNotFound):
			return errors.Wrap(findErr, "failed to check existing user")
		}

		user := &entity.User{
			Email:        email,
			Username:     username,
			PasswordHash: hashedPassword,
		}
		if createErr := userRepo.Create(ctx, user); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		issued, issueErr := srv.issue(ctx, userRepo, user)
		if issueErr != nil {
			return issueErr
		}

		registered, tokens = user, issued

		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
			srv.log(ctx).Warn("Registration rejected, email taken", slog.String("email", email))
		} else {
			srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", email), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Info("Registration completed", slog.Any("userID", registered.ID))

	return &usecase.AuthOutput{Tokens: *tokens, User: registered.Public()}, nil
}

// Login verifies the password and opens a new session.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	start := time.Now()
	out, err := srv.login(ctx, input)
	srv.observe(service.OperationLogin, start, err)

	return out, err
}

func (srv *authService) login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	if input == nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	email := normalizeEmail(input.Email)

	for attempt := 1; attempt <= issueMaxAttempts; attempt++ {
		user, err := srv.userRepo.FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same hashing work as a wrong password.
			srv.hasher.Check(input.Password, srv.dummyPasswordHash())
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
		if err != nil {
			srv.log(ctx).Error("Failed to load user for login", slog.String("email", email), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to load user for login")
		}

		if !srv.hasher.Check(input.Password, user.PasswordHash) {
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		tokens, err := srv.issue(ctx, srv.userRepo, user)
		if errors.Is(err, repository.ErrStaleUser) {
			srv.log(ctx).Debug("Login lost a concurrent update, retrying", slog.Any("userID", user.ID), slog.Int("attempt", attempt))

			continue
		}
		if err != nil {
			srv.log(ctx).Error("Failed to issue tokens for login", slog.Any("userID", user.ID), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to issue tokens for login")
		}

		srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

		return &usecase.AuthOutput{Tokens: *tokens, User: user.Public()}, nil
	}

	srv.log(ctx).Error("Login gave up after concurrent updates", slog.String("email", email))

	return nil, errors.Wrap(domainerrors.ErrInternalError, "login retries exhausted")
}

// Refresh rotates a valid refresh token. The caller only ever learns that it failed.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*entity.TokenPair, error) {
	start := time.Now()
	tokens, err := srv.refresh(ctx, input)
	srv.observe(service.OperationRefresh, start, err)

	return tokens, err
}

func (srv *authService) refresh(ctx context.Context, input *usecase.RefreshInput) (*entity.TokenPair, error) {
	if input == nil || input.RefreshToken == "" {
		return nil, srv.rejectRefresh(ctx, "missing refresh token", nil)
	}
	presented := input.RefreshToken

	claims, err := srv.signer.Verify(service.TokenKindRefresh, presented)
	if err != nil {
		return nil, srv.rejectRefresh(ctx, "token verification failed", err)
	}

	user, err := srv.userRepo.FindByID(ctx, claims.SubjectID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, srv.rejectRefresh(ctx, "subject no longer exists", nil)
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user for refresh", slog.Any("userID", claims.SubjectID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load user for refresh")
	}

	if !user.HasActiveSession() {
		return nil, srv.rejectRefresh(ctx, "no active session", nil)
	}
	if !srv.hasher.Check(presented, user.RefreshTokenHash) {
		return nil, srv.rejectRefresh(ctx, "token superseded", nil)
	}

	tokens, err := srv.issue(ctx, srv.userRepo, user)
	if errors.Is(err, repository.ErrStaleUser) || errors.Is(err, repository.ErrUserNotFound) {
		// A concurrent refresh, login or logout won the race for this session.
		return nil, srv.rejectRefresh(ctx, "session changed concurrently", err)
	}
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens for refresh", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue tokens for refresh")
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.Any("userID", user.ID))

	return tokens, nil
}

// rejectRefresh logs the internal reason and returns the single error refresh exposes.
func (srv *authService) rejectRefresh(ctx context.Context, reason string, cause error) error {
	attrs := []any{slog.String("reason", reason)}
	if cause != nil {
		attrs = append(attrs, slog.Any("error", cause))
	}
	srv.log(ctx).Warn("Refresh rejected", attrs...)

	return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
}

// Logout clears the stored refresh hash of the token's subject. Failures are logged, never returned.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) {
	start := time.Now()
	outcome := srv.logout(ctx, input)
	srv.metrics.Observe(service.OperationLogout, outcome, time.Since(start))
}

func (srv *authService) logout(ctx context.Context, input *usecase.LogoutInput) string {
	if input == nil || input.RefreshToken == "" {
		return service.OutcomeSuccess
	}

	claims, err := srv.signer.Verify(service.TokenKindRefresh, input.RefreshToken)
	if err != nil {
		srv.log(ctx).Debug("Logout with unverifiable token ignored", slog.Any("error", err))

		return service.OutcomeSuccess
	}

	for attempt := 1; attempt <= issueMaxAttempts; attempt++ {
		user, err := srv.userRepo.FindByID(ctx, claims.SubjectID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return service.OutcomeSuccess
		}
		if err != nil {
			srv.log(ctx).Warn("Logout could not load user", slog.Any("userID", claims.SubjectID), slog.Any("error", err))

			return service.OutcomeError
		}

		if !user.HasActiveSession() {
			return service.OutcomeSuccess
		}

		user.RevokeSession()
		err = srv.userRepo.Save(ctx, user)
		switch {
		case err == nil:
			srv.log(ctx).Info("Session revoked", slog.Any("userID", user.ID))

			return service.OutcomeSuccess
		case errors.Is(err, repository.ErrStaleUser):
			continue
		case errors.Is(err, repository.ErrUserNotFound):
			return service.OutcomeSuccess
		default:
			srv.log(ctx).Warn("Logout could not revoke session", slog.Any("userID", user.ID), slog.Any("error", err))

			return service.OutcomeError
		}
	}

	srv.log(ctx).Warn("Logout gave up after concurrent updates", slog.Any("userID", claims.SubjectID))

	return service.OutcomeError
}

// CurrentUser loads the public profile for an authenticated subject.
func (srv *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "current user not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load current user")
	}

	return user.Public(), nil
}

// issue is the single rotation point: it signs a new pair, stores the refresh
// token hash on user and persists it. Save errors are returned unwrapped so
// callers can tell a lost race from a failure.
func (srv *authService) issue(ctx context.Context, userRepo repository.UserRepository, user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := srv.signer.Issue(service.TokenKindAccess, user.ID, srv.accessTTL)
	if err != nil {
		srv.log(ctx).Error("Failed to sign access token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, "failed to sign access token")
	}

	refreshToken, err := srv.signer.Issue(service.TokenKindRefresh, user.ID, srv.refreshTTL)
	if err != nil {
		srv.log(ctx).Error("Failed to sign refresh token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, "failed to sign refresh token")
	}

	refreshHash, err := srv.hasher.Hash(refreshToken)
	if err != nil {
		srv.log(ctx).Error("Failed to hash refresh token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash refresh token")
	}

	user.RefreshTokenHash = refreshHash
	if err := userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (srv *authService) checkPasswordPolicy(password string) error {
	n := utf8.RuneCountInString(password)
	if n < srv.passwordMinLength {
		return errors.Wrapf(domainerrors.ErrValidationFailed, "password must be at least %d characters", srv.passwordMinLength)
	}
	if n > srv.passwordMaxLength {
		return errors.Wrapf(domainerrors.ErrValidationFailed, "password must be at most %d characters", srv.passwordMaxLength)
	}

	return nil
}

func (srv *authService) dummyPasswordHash() string {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			srv.logger.Error("Failed to prepare login timing hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	return srv.dummyHash
}

func (srv *authService) observe(operation string, start time.Time, err error) {
	srv.metrics.Observe(operation, outcomeOf(err), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return service.OutcomeSuccess
	case errors.Is(err, domainerrors.ErrUserAlreadyExists):
		return service.OutcomeConflict
	case errors.Is(err, domainerrors.ErrInvalidCredentials),
		errors.Is(err, domainerrors.ErrRefreshTokenInvalid):
		return service.OutcomeUnauthorized
	case errors.Is(err, domainerrors.ErrValidationFailed):
		return service.OutcomeInvalid
	default:
		return service.OutcomeError
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
