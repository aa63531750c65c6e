package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/forum/pkg/cryptox"
	"github.com/aussiebroadwan/forum/pkg/jwtx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	AccessTokenSecret  string        `yaml:"access_token_secret"`  // Required: HMAC secret for access tokens
	RefreshTokenSecret string        `yaml:"refresh_token_secret"` // Required: HMAC secret for refresh tokens, must differ from the access secret
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl"`     // Access token lifetime (default: 20s)
	RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl"`    // Refresh token and cookie lifetime (default: 10m)
	Issuer             string        `yaml:"issuer"`               // Optional: iss claim, checked on decode when set

	DatabaseDriver    string        `yaml:"database_driver"`     // sqlite or postgres (default: sqlite)
	DatabaseFile      string        `yaml:"database_file"`       // SQLite database file (default: ./auth.db)
	DatabaseURL       string        `yaml:"database_url"`        // Postgres DSN, required for the postgres driver
	UserLookupTimeout time.Duration `yaml:"user_lookup_timeout"` // Bound on each user store call (default: 3s)

	BcryptCost      int `yaml:"bcrypt_cost"`      // bcrypt work factor (default: 10, minimum 10)
	HashConcurrency int `yaml:"hash_concurrency"` // Concurrent bcrypt operations (default: GOMAXPROCS)

	CORSOrigins    []string `yaml:"cors_origins"`     // Front-end origins allowed credentialed requests (default: http://localhost:5173)
	CookieSecure   bool     `yaml:"cookie_secure"`    // Secure attribute on the refresh cookie (default: true outside dev, an explicit YAML or env value wins)
	CookieSameSite string   `yaml:"cookie_same_site"` // strict, lax or none (default: strict)

	Env                 string        `yaml:"env"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `yaml:"log_level"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        `yaml:"log_format"`            // Log format (json, text) (default: json)
	Port                int           `yaml:"port"`                  // HTTP server port (default: 3000)
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period"` // Graceful shutdown timeout (default: 10s)
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL:      jwtx.DefaultAccessTokenTTL,
		RefreshTokenTTL:     jwtx.DefaultRefreshTokenTTL,
		DatabaseDriver:      DriverSQLite,
		DatabaseFile:        "auth.db",
		UserLookupTimeout:   3 * time.Second,
		BcryptCost:          cryptox.MinCost,
		CORSOrigins:         []string{"http://localhost:5173"},
		CookieSameSite:      "strict",
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                3000,
		ShutdownGracePeriod: 10 * time.Second,
	}
}

// LoadConfig layers the defaults, the optional YAML file named by
// AUTH_CONFIG_FILE, a .env file and finally the process environment.
// Later layers win.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	var secureSet bool
	if path := os.Getenv("AUTH_CONFIG_FILE"); path != "" {
		var err error
		if secureSet, err = loadYAML(path, &cfg); err != nil {
			return cfg, err
		}
	}

	// godotenv never overrides variables that are already set.
	envFile := getEnvOrDefault("AUTH_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg.AccessTokenSecret = getEnvOrDefault("ACCESS_TOKEN_SECRET", cfg.AccessTokenSecret)
	cfg.RefreshTokenSecret = getEnvOrDefault("REFRESH_TOKEN_SECRET", cfg.RefreshTokenSecret)
	cfg.AccessTokenTTL = getEnvDurationOrDefault("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RefreshTokenTTL = getEnvDurationOrDefault("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL)
	cfg.Issuer = getEnvOrDefault("AUTH_ISSUER", cfg.Issuer)

	cfg.DatabaseDriver = strings.ToLower(getEnvOrDefault("AUTH_DATABASE_DRIVER", cfg.DatabaseDriver))
	cfg.DatabaseFile = getEnvOrDefault("AUTH_DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.UserLookupTimeout = getEnvDurationOrDefault("USER_LOOKUP_TIMEOUT", cfg.UserLookupTimeout)

	cfg.BcryptCost = getEnvIntOrDefault("BCRYPT_COST", cfg.BcryptCost)
	cfg.HashConcurrency = getEnvIntOrDefault("HASH_CONCURRENCY", cfg.HashConcurrency)

	cfg.CORSOrigins = getEnvListOrDefault("CORS_ORIGIN", cfg.CORSOrigins)
	cfg.CookieSameSite = getEnvOrDefault("COOKIE_SAME_SITE", cfg.CookieSameSite)

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	// Secure cookies everywhere except local development, unless the YAML
	// file or COOKIE_SECURE says otherwise.
	if !secureSet {
		cfg.CookieSecure = cfg.Env != "dev"
	}
	cfg.CookieSecure = getEnvBoolOrDefault("COOKIE_SECURE", cfg.CookieSecure)

	return cfg, nil
}

// Validate reports configuration the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.AccessTokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("REFRESH_TOKEN_SECRET is required"))
	}
	if c.AccessTokenSecret != "" && c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be positive"))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// WeakSecrets lists the secrets shorter than jwtx.MinSecretBytes. They are
// accepted but worth a warning.
func (c Config) WeakSecrets() []string {
	var weak []string
	if len(c.AccessTokenSecret) < jwtx.MinSecretBytes {
		weak = append(weak, "ACCESS_TOKEN_SECRET")
	}
	if len(c.RefreshTokenSecret) < jwtx.MinSecretBytes {
		weak = append(weak, "REFRESH_TOKEN_SECRET")
	}
	return weak
}

// loadYAML decodes path over cfg and reports whether the file set
// cookie_secure, whose default otherwise depends on the environment.
func loadYAML(path string, cfg *Config) (secureSet bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return false, fmt.Errorf("parse config file %s: %w", path, err)
	}

	var explicit struct {
		CookieSecure *bool `yaml:"cookie_secure"`
	}
	if err := yaml.Unmarshal(raw, &explicit); err != nil {
		return false, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return explicit.CookieSecure != nil, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
