package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token verification failures. Callers that must not leak the cause collapse them.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenKind      = errors.New("token kind mismatch")
)

// TokenKind separates short-lived access tokens from refresh tokens.
// The kind is signed into the token, so one can never stand in for the other.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the verified content of a token.
type Claims struct {
	SubjectID uuid.UUID
	Kind      TokenKind
	ExpiresAt time.Time
}

// TokenSigner creates and verifies signed, expiring tokens for a subject.
type TokenSigner interface {
	// Issue returns a token of the given kind for subjectID that expires ttl after issuance.
	Issue(kind TokenKind, subjectID uuid.UUID, ttl time.Duration) (string, error)

	// Verify checks signature, expiry and kind and returns the embedded claims.
	// Failures wrap ErrTokenExpired, ErrTokenSignature, ErrTokenMalformed or ErrTokenKind.
	Verify(kind TokenKind, token string) (*Claims, error)
}
