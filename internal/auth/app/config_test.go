package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"AUTH_CONFIG_FILE", "AUTH_ENV_FILE",
	"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
	"AUTH_ISSUER", "AUTH_DATABASE_DRIVER", "AUTH_DATABASE_FILE", "DATABASE_URL",
	"USER_LOOKUP_TIMEOUT", "BCRYPT_COST", "HASH_CONCURRENCY", "CORS_ORIGIN",
	"COOKIE_SECURE", "COOKIE_SAME_SITE", "ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT",
	"SHUTDOWN_GRACE_PERIOD",
}

// clearEnv blanks every key LoadConfig reads and points the .env lookup at
// a file that does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("AUTH_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 20*time.Second, cfg.AccessTokenTTL)
	require.Equal(t, 10*time.Minute, cfg.RefreshTokenTTL)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "strict", cfg.CookieSameSite)
	require.False(t, cfg.CookieSecure, "dev defaults to insecure cookies")

	// No secrets by default.
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "a-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "r-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "45")
	t.Setenv("REFRESH_TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGIN", "https://forum.example.com, https://admin.example.com")
	t.Setenv("PORT", "8081")
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://localhost/forum")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, 45*time.Second, cfg.AccessTokenTTL)
	require.Equal(t, time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, []string{"https://forum.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.True(t, cfg.CookieSecure)
}

func TestLoadConfigLayers(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "auth.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
access_token_secret: from-yaml
refresh_token_secret: refresh-from-yaml
refresh_token_ttl: 30m
port: 4000
log_level: debug
`), 0o600))

	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("ACCESS_TOKEN_SECRET=from-dotenv\n"), 0o600))

	t.Setenv("AUTH_CONFIG_FILE", yamlPath)
	t.Setenv("AUTH_ENV_FILE", envPath)
	t.Setenv("PORT", "5000")

	// godotenv only fills variables that are not set at all.
	require.NoError(t, os.Unsetenv("ACCESS_TOKEN_SECRET"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "from-dotenv", cfg.AccessTokenSecret)
	require.Equal(t, "refresh-from-yaml", cfg.RefreshTokenSecret)
	require.Equal(t, 30*time.Minute, cfg.RefreshTokenTTL)
	require.Equal(t, 5000, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigCookieSecure(t *testing.T) {
	writeYAML := func(t *testing.T, body string) {
		t.Helper()
		path := filepath.Join(t.TempDir(), "auth.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		t.Setenv("AUTH_CONFIG_FILE", path)
	}

	t.Run("yaml false wins outside dev", func(t *testing.T) {
		clearEnv(t)
		writeYAML(t, "env: prod\ncookie_secure: false\n")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.False(t, cfg.CookieSecure)
	})

	t.Run("yaml true wins in dev", func(t *testing.T) {
		clearEnv(t)
		writeYAML(t, "cookie_secure: true\n")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.True(t, cfg.CookieSecure)
	})

	t.Run("unset follows env", func(t *testing.T) {
		clearEnv(t)
		writeYAML(t, "env: staging\n")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.True(t, cfg.CookieSecure)
	})

	t.Run("environment overrides yaml", func(t *testing.T) {
		clearEnv(t)
		writeYAML(t, "env: prod\ncookie_secure: false\n")
		t.Setenv("COOKIE_SECURE", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		require.True(t, cfg.CookieSecure)
	})
}

func TestLoadConfigBadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.AccessTokenSecret = "access"
		cfg.RefreshTokenSecret = "refresh"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access secret", func(c *Config) { c.AccessTokenSecret = "" }},
		{"missing refresh secret", func(c *Config) { c.RefreshTokenSecret = "" }},
		{"identical secrets", func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenTTL = -time.Second }},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = DriverPostgres }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestWeakSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AccessTokenSecret = "short"
	cfg.RefreshTokenSecret = "refresh-secret-0123456789abcdef012"

	require.Equal(t, []string{"ACCESS_TOKEN_SECRET"}, cfg.WeakSecrets())
}
