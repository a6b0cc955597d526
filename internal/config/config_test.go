package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPI.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.PokeAPI.Timeout)
	assert.Equal(t, 50, cfg.Roster.BatchSize)
	assert.Equal(t, "ja", cfg.Roster.Locale)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, filepath.Join(dir, "partydex.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(dir, "backups"), cfg.BackupDir())
	assert.Equal(t, "0 30 3 * * *", cfg.Backup.Schedule)
	assert.Equal(t, 7, cfg.Backup.Keep)
	assert.False(t, cfg.Backup.RemoteEnabled())
}

func TestLoad_BackupRemote(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("BACKUP_S3_BUCKET", "partydex-backups")
	t.Setenv("BACKUP_S3_ENDPOINT", "https://example.r2.cloudflarestorage.com")
	t.Setenv("BACKUP_RETENTION_DAYS", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Backup.RemoteEnabled())
	assert.Equal(t, "partydex-backups", cfg.Backup.S3Bucket)
	assert.Equal(t, "auto", cfg.Backup.S3Region)
	assert.Equal(t, 14, cfg.Backup.RetentionDays)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("POKEAPI_BASE_URL", "http://localhost:9999/api/v2/")
	t.Setenv("POKEAPI_TIMEOUT", "750ms")
	t.Setenv("ROSTER_BATCH_SIZE", "10")
	t.Setenv("ROSTER_LOCALE", "fr")
	t.Setenv("REFRESH_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:9999/api/v2", cfg.PokeAPI.BaseURL)
	assert.Equal(t, 750*time.Millisecond, cfg.PokeAPI.Timeout)
	assert.Equal(t, 10, cfg.Roster.BatchSize)
	assert.Equal(t, "fr", cfg.Roster.Locale)
	assert.Equal(t, "0 0 4 * * *", cfg.RefreshSchedule, "empty env falls back to default")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("SESSION_TTL", "tomorrow")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:       3001,
			PokeAPI:    PokeAPIConfig{BaseURL: "http://x", Timeout: time.Second, RateLimit: 1},
			Roster:     RosterConfig{BatchSize: 1},
			SessionTTL: time.Hour,
			Backup:     BackupConfig{Keep: 1},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Roster.BatchSize = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.PokeAPI.RateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Backup.RetentionDays = -1
	assert.Error(t, cfg.Validate())
}
