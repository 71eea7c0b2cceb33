// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"

	"warden/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// Input is SHA-256 digested first so secrets longer than bcrypt's 72-byte
// limit (refresh tokens are) keep every byte significant.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher with the default cost.
func NewBcryptHasher() service.PasswordHasher {
	return NewBcryptHasherWithCost(bcrypt.DefaultCost)
}

// NewBcryptHasherWithCost returns a bcrypt hasher with the given cost.
// Costs outside bcrypt's accepted range are clamped.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext secret using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// Check compares a plaintext secret with a bcrypt hash.
func (h *bcryptHasher) Check(plaintext, hash string) bool {
	// err is nil if the secret and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plaintext)) == nil
}

func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])

	return out
}
