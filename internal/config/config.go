// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Base directory for the sqlite database (always absolute)
	LogLevel    string
	Port        int
	DevMode     bool
	FrontendURL string // Allowed CORS origin for the web frontend

	PokeAPI PokeAPIConfig
	Roster  RosterConfig

	// RefreshSchedule is a cron expression (with seconds field) for full rebuilds
	// of the roster cache and type matrix. Empty disables scheduled rebuilds.
	RefreshSchedule string

	SessionTTL   time.Duration
	CookieSecure bool

	Backup BackupConfig
}

// PokeAPIConfig holds upstream client settings
type PokeAPIConfig struct {
	BaseURL    string
	Timeout    time.Duration // Per-request timeout
	RateLimit  float64       // Requests per second
	MaxRetries int
}

// RosterConfig holds roster cache build settings
type RosterConfig struct {
	BatchSize       int    // Max concurrent per-ID fetch tasks
	Locale          string // Language tag used for the localized name
	GenerationsFile string // Optional TOML override of the generation table
}

// BackupConfig holds database backup settings
type BackupConfig struct {
	Schedule      string // Cron expression (with seconds field); empty disables backups
	Keep          int    // Local snapshots to keep
	RetentionDays int    // Remote archive retention; 0 keeps everything

	// S3-compatible remote storage; remote backups are off without a bucket
	S3Bucket          string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// RemoteEnabled reports whether archives are uploaded to object storage
func (b BackupConfig) RemoteEnabled() bool {
	return b.S3Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	timeout, err := getEnvAsDuration("POKEAPI_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvAsDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:     absDataDir,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnvAsInt("PORT", 3001),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		PokeAPI: PokeAPIConfig{
			BaseURL:    strings.TrimRight(getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2"), "/"),
			Timeout:    timeout,
			RateLimit:  getEnvAsFloat("POKEAPI_RATE_LIMIT", 50),
			MaxRetries: getEnvAsInt("POKEAPI_MAX_RETRIES", 3),
		},
		Roster: RosterConfig{
			BatchSize:       getEnvAsInt("ROSTER_BATCH_SIZE", 50),
			Locale:          getEnv("ROSTER_LOCALE", "ja"),
			GenerationsFile: getEnv("GENERATIONS_FILE", ""),
		},
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 4 * * *"),
		SessionTTL:      sessionTTL,
		CookieSecure:    getEnvAsBool("COOKIE_SECURE", false),
		Backup: BackupConfig{
			Schedule:          getEnv("BACKUP_SCHEDULE", "0 30 3 * * *"),
			Keep:              getEnvAsInt("BACKUP_KEEP", 7),
			RetentionDays:     getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
			S3Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
			S3Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
			S3Region:          getEnv("BACKUP_S3_REGION", "auto"),
			S3AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PokeAPI.BaseURL == "" {
		return fmt.Errorf("POKEAPI_BASE_URL must not be empty")
	}
	if c.PokeAPI.Timeout <= 0 {
		return fmt.Errorf("POKEAPI_TIMEOUT must be positive")
	}
	if c.PokeAPI.RateLimit <= 0 {
		return fmt.Errorf("POKEAPI_RATE_LIMIT must be positive")
	}
	if c.PokeAPI.MaxRetries < 0 {
		return fmt.Errorf("POKEAPI_MAX_RETRIES must not be negative")
	}
	if c.Roster.BatchSize <= 0 {
		return fmt.Errorf("ROSTER_BATCH_SIZE must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Backup.Keep <= 0 {
		return fmt.Errorf("BACKUP_KEEP must be positive")
	}
	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("BACKUP_RETENTION_DAYS must not be negative")
	}
	return nil
}

// DatabasePath returns the sqlite file holding users, sessions and teams
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "partydex.db")
}

// BackupDir returns the directory holding local database snapshots
func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
