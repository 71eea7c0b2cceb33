// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"warden/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrStaleUser is returned by Save when the stored record changed since it was read.
	ErrStaleUser = errors.New("user record was modified concurrently")
)

// UserRepository is the credential store consumed by the auth use case.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user, assigning its ID, version and timestamps.
	// A duplicate email yields domainerrors.ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// Save writes the mutable fields of an existing user if user.Version still
	// matches the stored version, then bumps the version on the entity.
	// It returns ErrStaleUser on a version mismatch and ErrUserNotFound for an unknown ID.
	Save(ctx context.Context, user *entity.User) error
}
