package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"warden/internal/domain/service"
	"warden/internal/errors"
)

// Argon2idParams controls the cost of an Argon2id hash.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams follows the OWASP baseline for interactive logins.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Verification refuses hashes whose cost exceeds these bounds.
const (
	maxArgon2MemoryKiB  = 1024 * 1024
	maxArgon2Iterations = 16
	maxArgon2Threads    = 16
	maxArgon2KeyLength  = 128
)

var errInvalidArgon2Hash = errors.New("invalid argon2id hash format")

type argon2idHasher struct {
	params Argon2idParams
}

// NewArgon2idHasher returns a PasswordHasher producing PHC-encoded Argon2id hashes.
// Zero fields in p fall back to DefaultArgon2idParams.
func NewArgon2idHasher(p Argon2idParams) service.PasswordHasher {
	def := DefaultArgon2idParams()
	if p.MemoryKiB < 8*1024 {
		p.MemoryKiB = def.MemoryKiB
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.SaltLength < 8 {
		p.SaltLength = def.SaltLength
	}
	if p.KeyLength < 16 {
		p.KeyLength = def.KeyLength
	}

	return &argon2idHasher{params: p}
}

// Hash encodes as $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>.
func (h *argon2idHasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generate argon2id salt")
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)

	b64 := base64.RawStdEncoding

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func (h *argon2idHasher) Check(plaintext, hash string) bool {
	p, salt, key, err := decodeArgon2id(hash)
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)

	return subtle.ConstantTimeCompare(got, key) == 1
}

func decodeArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	var p Argon2idParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, errInvalidArgon2Hash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errInvalidArgon2Hash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, errInvalidArgon2Hash
	}
	if p.MemoryKiB == 0 || p.MemoryKiB > maxArgon2MemoryKiB ||
		p.Iterations == 0 || p.Iterations > maxArgon2Iterations ||
		p.Parallelism == 0 || p.Parallelism > maxArgon2Threads {
		return p, nil, nil, errInvalidArgon2Hash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errInvalidArgon2Hash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxArgon2KeyLength {
		return p, nil, nil, errInvalidArgon2Hash
	}

	p.SaltLength = uint32(len(salt)) // #nosec G115 -- bounded by the encoded hash length.
	p.KeyLength = uint32(len(key))   // #nosec G115 -- bounded by maxArgon2KeyLength.

	return p, salt, key, nil
}
