// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for one-way secret hashing and verification.
// It is used for account passwords and for refresh tokens kept at rest.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext secret.
	// Two calls with the same input return different hashes.
	Hash(plaintext string) (string, error)

	// Check compares a plaintext secret with a hash in constant time.
	// A malformed hash is reported as a mismatch.
	Check(plaintext, hash string) bool
}
