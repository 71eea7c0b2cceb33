// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record owned by the credential store.
// At most one refresh token is valid per user: the one whose digest is in RefreshTokenHash.
type User struct {
	ID               uuid.UUID // Assigned by the store on Create, immutable afterwards.
	Email            string    // Lower-cased login key, unique across users.
	Username         string    // Display name, not unique.
	PasswordHash     string    // One-way hash of the account password.
	RefreshTokenHash string    // One-way hash of the current refresh token; empty when no session is active.
	Version          int64     // Optimistic concurrency counter, bumped by every successful Save.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasActiveSession reports whether a refresh token digest is stored for the user.
func (u *User) HasActiveSession() bool {
	return u.RefreshTokenHash != ""
}

// RevokeSession clears the stored refresh token digest.
func (u *User) RevokeSession() {
	u.RefreshTokenHash = ""
}

// Public returns the view of the user that is safe to hand to callers.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// PublicUser is the user view returned by register and login.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}
