// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"hawala-backoffice/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	LogLevel   string
	DB         db.Config

	// MigrateOnStart applies pending schema migrations during startup.
	MigrateOnStart bool
	// PrimaryCurrencyCode is the currency used when a ledger operation names none.
	PrimaryCurrencyCode string
	// HawalaNumberRetries bounds retries of auto-numbered transfer inserts.
	HawalaNumberRetries int
	BcryptCost          int
}

// LoadConfig loads configuration from environment variables. Values from a
// .env file in the working directory or its parent are loaded first; real
// environment variables win over the file.
func LoadConfig() (*AppConfig, error) {
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	dbPort, err := intEnv("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdle, err := intEnv("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return nil, err
	}
	lifetime, err := durationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	retries, err := intEnv("HAWALA_NUMBER_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	if retries < 1 {
		return nil, fmt.Errorf("invalid HAWALA_NUMBER_RETRIES: must be at least 1, got %d", retries)
	}
	bcryptCost, err := intEnv("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	migrateOnStart, err := boolEnv("MIGRATE_ON_START", false)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ServerPort: stringEnv("SERVER_PORT", "8080"),
		LogLevel:   stringEnv("LOG_LEVEL", "info"),
		DB: db.Config{
			Host:            stringEnv("DB_HOST", "localhost"),
			Port:            dbPort,
			User:            stringEnv("DB_USER", "user"),
			Password:        stringEnv("DB_PASSWORD", "password"),
			DBName:          stringEnv("DB_NAME", "hawaladb"),
			SSLMode:         stringEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: lifetime,
		},
		MigrateOnStart:      migrateOnStart,
		PrimaryCurrencyCode: strings.ToUpper(stringEnv("PRIMARY_CURRENCY_CODE", "USD")),
		HawalaNumberRetries: retries,
		BcryptCost:          bcryptCost,
	}, nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
