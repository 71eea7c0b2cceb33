// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"warden/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the refresh token presented by the caller.
type RefreshInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token to revoke. An empty token is allowed.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// AuthOutput is returned by register and login.
type AuthOutput struct {
	Tokens entity.TokenPair
	User   *entity.PublicUser
}

// AuthUsecase is the session credential lifecycle consumed by the delivery layer.
type AuthUsecase interface {
	// Register creates an account and opens its first session.
	// A taken email fails with ErrUserAlreadyExists.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login opens a new session, superseding any previous refresh token.
	// Unknown email and wrong password both fail with ErrInvalidCredentials.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Refresh rotates the presented refresh token into a new pair.
	// Every credential failure is ErrRefreshTokenInvalid.
	Refresh(ctx context.Context, input *RefreshInput) (*entity.TokenPair, error)

	// Logout revokes the session owning the presented refresh token, if any.
	// It never fails.
	Logout(ctx context.Context, input *LogoutInput)

	// CurrentUser returns the public view of an authenticated user.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.PublicUser, error)
}
