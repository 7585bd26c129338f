// internal/config/config_test.go
package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_PORT", "LOG_LEVEL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_SSLMODE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"MIGRATE_ON_START", "PRIMARY_CURRENCY_CODE", "HAWALA_NUMBER_RETRIES", "BCRYPT_COST",
}

// clearEnv blanks every key so a developer's .env or shell cannot leak in.
// godotenv.Load never overrides a variable that is already set.
func clearEnv(t *testing.T) {
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "hawaladb", cfg.DB.DBName)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "USD", cfg.PrimaryCurrencyCode)
	assert.Equal(t, 5, cfg.HawalaNumberRetries)
	assert.False(t, cfg.MigrateOnStart)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("PRIMARY_CURRENCY_CODE", "afn")
	t.Setenv("HAWALA_NUMBER_RETRIES", "2")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 90*time.Second, cfg.DB.ConnMaxLifetime)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "AFN", cfg.PrimaryCurrencyCode)
	assert.Equal(t, 2, cfg.HawalaNumberRetries)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DB_PORT", "postgres"},
		{"DB_CONN_MAX_LIFETIME", "forever"},
		{"MIGRATE_ON_START", "maybe"},
		{"HAWALA_NUMBER_RETRIES", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
