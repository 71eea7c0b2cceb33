package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArgon2idHasher() *argon2idHasher {
	h, _ := NewArgon2idHasher(Argon2idParams{
		MemoryKiB:   8 * 1024,
		Iterations:  1,
		Parallelism: 1,
	}).(*argon2idHasher)

	return h
}

func TestArgon2idHasher_HashAndCheck(t *testing.T) {
	hasher := newTestArgon2idHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("correct horse battery stapler", hash))
}

func TestArgon2idHasher_HashIsSalted(t *testing.T) {
	hasher := newTestArgon2idHasher()

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestArgon2idHasher_DefaultsFillZeroParams(t *testing.T) {
	h, ok := NewArgon2idHasher(Argon2idParams{}).(*argon2idHasher)
	require.True(t, ok)
	assert.Equal(t, DefaultArgon2idParams(), h.params)
}

func TestArgon2idHasher_RejectsMalformedHashes(t *testing.T) {
	hasher := newTestArgon2idHasher()

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "bcrypt hash", hash: "$2a$10$abcdefghijklmnopqrstuu"},
		{name: "wrong version", hash: "$argon2id$v=16$m=8192,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5"},
		{name: "bad params", hash: "$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5"},
		{name: "memory above bound", hash: "$argon2id$v=19$m=99999999,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5a2V5"},
		{name: "bad salt encoding", hash: "$argon2id$v=19$m=8192,t=1,p=1$!!!$a2V5a2V5a2V5a2V5a2V5a2V5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, hasher.Check("secret", tt.hash))
		})
	}
}
