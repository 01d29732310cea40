package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	// DevMode enables colored console logging and debug level
	DevMode bool
	// LogFile is the rotating log file path
	LogFile string

	// Host and Port for the dashboard HTTP server
	Host string
	Port int

	// AuthPassword enables session auth when non-empty
	AuthPassword string

	// PrefsDBPath is the SQLite file for widget preferences; empty disables
	// the preference store
	PrefsDBPath string
	// MigrationsPath is the golang-migrate source URL for the prefs schema
	MigrationsPath string

	// SeedFile is a YAML dashboard definition; empty uses the built-in seed
	SeedFile string

	// FetchFailureRate is the injected failure probability for data fetches
	FetchFailureRate float64

	// RefreshInterval drives the background dashboard-wide refresh loop;
	// zero disables it
	RefreshInterval time.Duration

	// ShutdownTimeout bounds the graceful shutdown sequence
	ShutdownTimeout time.Duration
}

// LoadConfig reads configuration from environment variables, applying
// defaults for everything unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DevMode:          parseBoolEnv("DEV_MODE", false),
		LogFile:          getEnvOrDefault("LOG_FILE", "dashboard.log"),
		Host:             getEnvOrDefault("DASHBOARD_HOST", "localhost"),
		Port:             parseIntEnv("DASHBOARD_PORT", 3000),
		AuthPassword:     os.Getenv("DASHBOARD_PASSWORD"),
		PrefsDBPath:      getEnvOrDefault("PREFS_DB_PATH", "dashboard.db"),
		MigrationsPath:   getEnvOrDefault("PREFS_MIGRATIONS", "file://prefs/migrations"),
		SeedFile:         os.Getenv("SEED_FILE"),
		FetchFailureRate: parseFloatEnv("FETCH_FAILURE_RATE", 0.10),
		RefreshInterval:  parseDurationEnv("REFRESH_INTERVAL_SECONDS", 0),
		ShutdownTimeout:  parseDurationEnv("SHUTDOWN_TIMEOUT_SECONDS", 30),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid DASHBOARD_PORT: %d", cfg.Port)
	}
	if cfg.FetchFailureRate < 0 || cfg.FetchFailureRate > 1 {
		return nil, fmt.Errorf("FETCH_FAILURE_RATE must be in [0,1], got %g", cfg.FetchFailureRate)
	}
	return cfg, nil
}

// AuthEnabled reports whether session authentication is configured.
func (c *Config) AuthEnabled() bool {
	return c.AuthPassword != ""
}

// PrefsEnabled reports whether the preference store is configured.
func (c *Config) PrefsEnabled() bool {
	return c.PrefsDBPath != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseFloatEnv(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseBoolEnv(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseDurationEnv(key string, defaultSeconds int) time.Duration {
	return time.Duration(parseIntEnv(key, defaultSeconds)) * time.Second
}
