package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidConfig() *Config {
	cfg := &Config{}
	cfg.SecretKey.Signing = strings.Repeat("s", MinSigningKeyLength)
	cfg.ApplyDefaults()

	return cfg
}

func TestNew_LoadsYAMLWithEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_ACCESSTOKENTTL", "5m")
	t.Setenv("HTTP_TOKENDELIVERY", "cookie")
	t.Setenv("SECRETKEY_SIGNING", strings.Repeat("k", 40))

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "warden", cfg.Env.ServiceName)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, TokenDeliveryCookie, cfg.HTTP.TokenDelivery)
	assert.Equal(t, strings.Repeat("k", 40), cfg.SecretKey.Signing)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "warden", cfg.Postgres.Master.UserName)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.ConnMaxLifetime)
}

func TestNew_ReplicasFromEnv(t *testing.T) {
	t.Setenv("POSTGRES_REPLICAS_0_HOST", "replica-0")
	t.Setenv("POSTGRES_REPLICAS_0_PORT", "5433")
	t.Setenv("POSTGRES_REPLICAS_1_HOST", "replica-1")
	t.Setenv("POSTGRES_REPLICAS_1_PORT", "5434")

	cfg, err := New()
	require.NoError(t, err)
	require.Len(t, cfg.Postgres.Replicas, 2)
	assert.Equal(t, "replica-1", cfg.Postgres.Replicas[1].Host)
	assert.Equal(t, "5434", cfg.Postgres.Replicas[1].Port)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	_, err := LoadWithEnv[Config]("does-not-exist")
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, TokenDeliveryBody, cfg.HTTP.TokenDelivery)
	assert.Equal(t, "/", cfg.HTTP.Cookie.Path)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, HasherBcrypt, cfg.Auth.Hasher)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 1, cfg.PasswordPolicy.MinLength)
	assert.Equal(t, 1024, cfg.PasswordPolicy.MaxLength)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(*Config) {}},
		{
			name:    "short secret",
			mutate:  func(cfg *Config) { cfg.SecretKey.Signing = "short" },
			wantErr: "secretKey.signing",
		},
		{
			name:    "non-positive access ttl",
			mutate:  func(cfg *Config) { cfg.Auth.AccessTokenTTL = -time.Second },
			wantErr: "TTLs must be positive",
		},
		{
			name: "refresh ttl not greater than access ttl",
			mutate: func(cfg *Config) {
				cfg.Auth.AccessTokenTTL = time.Hour
				cfg.Auth.RefreshTokenTTL = time.Hour
			},
			wantErr: "must be greater than",
		},
		{
			name:    "unknown hasher",
			mutate:  func(cfg *Config) { cfg.Auth.Hasher = "md5" },
			wantErr: "auth.hasher",
		},
		{
			name:    "unknown storage driver",
			mutate:  func(cfg *Config) { cfg.Storage.Driver = "mongo" },
			wantErr: "storage.driver",
		},
		{
			name:    "postgres driver without section",
			mutate:  func(cfg *Config) { cfg.Storage.Driver = StoragePostgres },
			wantErr: "postgres section",
		},
		{
			name:    "unknown token delivery",
			mutate:  func(cfg *Config) { cfg.HTTP.TokenDelivery = "header" },
			wantErr: "tokenDelivery",
		},
		{
			name: "inverted password policy",
			mutate: func(cfg *Config) {
				cfg.PasswordPolicy.MinLength = 10
				cfg.PasswordPolicy.MaxLength = 5
			},
			wantErr: "passwordPolicy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newValidConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConnectionConfig_DSN(t *testing.T) {
	conn := ConnectionConfig{Host: "db", Port: "5432", UserName: "warden", Password: "p@ss"}

	assert.Equal(t, "postgres://warden:p%40ss@db:5432/auth?sslmode=disable", conn.DSN("auth", ""))
	assert.Equal(t, "postgres://warden:p%40ss@db:5432/auth?sslmode=require", conn.DSN("auth", "require"))
}
