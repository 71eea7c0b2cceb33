package auth

import (
	"warden/config"
	"warden/internal/domain/service"
	"warden/internal/errors"
)

// NewPasswordHasher selects the hasher named by auth.hasher.
func NewPasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	if cfg.Auth == nil {
		return nil, errors.New("auth config must be provided")
	}

	switch cfg.Auth.Hasher {
	case config.HasherBcrypt, "":
		return NewBcryptHasherWithCost(cfg.Auth.BcryptCost), nil
	case config.HasherArgon2id:
		a := cfg.Auth.Argon2

		return NewArgon2idHasher(Argon2idParams{
			MemoryKiB:   a.MemoryKiB,
			Iterations:  a.Iterations,
			Parallelism: a.Parallelism,
			SaltLength:  a.SaltLength,
			KeyLength:   a.KeyLength,
		}), nil
	default:
		return nil, errors.Errorf("unknown password hasher %q", cfg.Auth.Hasher)
	}
}
