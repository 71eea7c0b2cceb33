package config

import (
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultAccessTokenTTL     = 15 * time.Minute
	defaultRefreshTokenTTL    = 7 * 24 * time.Hour
	defaultPasswordMinLength  = 1
	defaultPasswordMaxLength  = 1024

	// MinSigningKeyLength is the shortest accepted HMAC signing secret, in bytes.
	MinSigningKeyLength = 32
)

// Token delivery modes for the HTTP boundary.
const (
	TokenDeliveryBody   = "body"
	TokenDeliveryCookie = "cookie"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Password hashers.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP HTTPConfig `json:"http" yaml:"http"`

	Storage struct {
		Driver string `json:"driver" yaml:"driver"`
	} `json:"storage" yaml:"storage"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Signing string `json:"signing" yaml:"signing"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	PasswordPolicy *PasswordPolicyConfig `json:"passwordPolicy" yaml:"passwordPolicy"`

	Metrics struct {
		Enabled bool `json:"enabled" yaml:"enabled"`
	} `json:"metrics" yaml:"metrics"`
}

// HTTPConfig defines the HTTP delivery settings.
type HTTPConfig struct {
	Port               int    `json:"port" yaml:"port"`
	MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
	Timeouts           struct {
		ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
		IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
	} `json:"timeouts" yaml:"timeouts"`

	// TokenDelivery selects how token pairs travel: "body" (JSON fields) or "cookie".
	TokenDelivery string       `json:"tokenDelivery" yaml:"tokenDelivery"`
	Cookie        CookieConfig `json:"cookie" yaml:"cookie"`
	CORSOrigins   []string     `json:"corsOrigins" yaml:"corsOrigins"`
}

// CookieConfig controls the auth cookies written in cookie delivery mode.
type CookieConfig struct {
	Secure bool   `json:"secure" yaml:"secure"`
	Domain string `json:"domain" yaml:"domain"`
	Path   string `json:"path" yaml:"path"`
}

// PostgresConfig describes the primary connection and optional read replicas.
type PostgresConfig struct {
	Master          ConnectionConfig   `json:"master" yaml:"master"`
	Replicas        []ConnectionConfig `json:"replicas" yaml:"replicas"`
	DBName          string             `json:"dbName" yaml:"dbName"`
	SSLMode         string             `json:"sslMode" yaml:"sslMode"`
	MaxIdleConns    int                `json:"maxIdleConns" yaml:"maxIdleConns"`
	MaxOpenConns    int                `json:"maxOpenConns" yaml:"maxOpenConns"`
	ConnMaxLifetime time.Duration      `json:"connMaxLifetime" yaml:"connMaxLifetime"`
	SlowQuery       time.Duration      `json:"slowQuery" yaml:"slowQuery"`
	AutoMigrate     bool               `json:"autoMigrate" yaml:"autoMigrate"`
}

// ConnectionConfig is a single PostgreSQL endpoint.
type ConnectionConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     string `json:"port" yaml:"port"`
	UserName string `json:"userName" yaml:"userName"`
	Password string `json:"password" yaml:"password"`
}

// DSN renders the connection as a postgres URL for the given database.
func (c ConnectionConfig) DSN(dbName, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.UserName, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	return u.String()
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	Issuer          string        `json:"issuer" yaml:"issuer"`
	AccessTokenTTL  time.Duration `json:"accessTokenTTL" yaml:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `json:"refreshTokenTTL" yaml:"refreshTokenTTL"`
	Hasher          string        `json:"hasher" yaml:"hasher"`
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`
	Argon2          Argon2Config  `json:"argon2" yaml:"argon2"`
}

// Argon2Config controls Argon2id cost when auth.hasher is "argon2id".
type Argon2Config struct {
	MemoryKiB   uint32 `json:"memoryKiB" yaml:"memoryKiB"`
	Iterations  uint32 `json:"iterations" yaml:"iterations"`
	Parallelism uint8  `json:"parallelism" yaml:"parallelism"`
	SaltLength  uint32 `json:"saltLength" yaml:"saltLength"`
	KeyLength   uint32 `json:"keyLength" yaml:"keyLength"`
}

// PasswordPolicyConfig bounds account password length at registration.
type PasswordPolicyConfig struct {
	MinLength int `json:"minLength" yaml:"minLength"`
	MaxLength int `json:"maxLength" yaml:"maxLength"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: SECRETKEY_SIGNING -> secretKey.signing
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if cfg.Postgres != nil {
		// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
		if replicas := buildReplicasFromEnv(); len(replicas) > 0 {
			cfg.Postgres.Replicas = replicas
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills every optional setting left empty by the file and environment.
func (cfg *Config) ApplyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.HTTP.TokenDelivery == "" {
		cfg.HTTP.TokenDelivery = TokenDeliveryBody
	}
	if cfg.HTTP.Cookie.Path == "" {
		cfg.HTTP.Cookie.Path = "/"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageMemory
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.AccessTokenTTL == 0 {
		cfg.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if cfg.Auth.RefreshTokenTTL == 0 {
		cfg.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if cfg.Auth.Hasher == "" {
		cfg.Auth.Hasher = HasherBcrypt
	}
	if cfg.PasswordPolicy == nil {
		cfg.PasswordPolicy = &PasswordPolicyConfig{}
	}
	if cfg.PasswordPolicy.MinLength == 0 {
		cfg.PasswordPolicy.MinLength = defaultPasswordMinLength
	}
	if cfg.PasswordPolicy.MaxLength == 0 {
		cfg.PasswordPolicy.MaxLength = defaultPasswordMaxLength
	}
}

// Validate rejects configurations the credential core cannot run with.
func (cfg *Config) Validate() error {
	if len(cfg.SecretKey.Signing) < MinSigningKeyLength {
		return errors.Errorf("secretKey.signing must be at least %d bytes", MinSigningKeyLength)
	}
	if cfg.Auth == nil {
		return errors.New("auth section is required")
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token TTLs must be positive")
	}
	if cfg.Auth.RefreshTokenTTL <= cfg.Auth.AccessTokenTTL {
		return errors.Errorf("auth.refreshTokenTTL (%s) must be greater than auth.accessTokenTTL (%s)",
			cfg.Auth.RefreshTokenTTL, cfg.Auth.AccessTokenTTL)
	}

	switch cfg.Auth.Hasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return errors.Errorf("unknown auth.hasher %q", cfg.Auth.Hasher)
	}

	switch cfg.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.Postgres == nil {
			return errors.New("postgres section is required for the postgres storage driver")
		}
	default:
		return errors.Errorf("unknown storage.driver %q", cfg.Storage.Driver)
	}

	switch cfg.HTTP.TokenDelivery {
	case TokenDeliveryBody, TokenDeliveryCookie:
	default:
		return errors.Errorf("unknown http.tokenDelivery %q", cfg.HTTP.TokenDelivery)
	}

	if cfg.PasswordPolicy != nil && cfg.PasswordPolicy.MinLength > cfg.PasswordPolicy.MaxLength {
		return errors.Errorf("passwordPolicy.minLength (%d) > passwordPolicy.maxLength (%d)",
			cfg.PasswordPolicy.MinLength, cfg.PasswordPolicy.MaxLength)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []ConnectionConfig {
	var replicas []ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
