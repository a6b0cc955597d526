package di

import (
	"fmt"

	"github.com/partydex/partydex/internal/config"
	"github.com/partydex/partydex/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the application database and applies migrations
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// partydex.db - users, sessions and saved teams
	db, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileStandard,
		Name:    "partydex",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize partydex database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate partydex database: %w", err)
	}
	container.DB = db

	version, _, err := db.SchemaVersion()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read schema version")
	}
	log.Info().
		Str("name", db.Name()).
		Str("profile", string(db.Profile())).
		Str("path", db.Path()).
		Uint("schema_version", version).
		Msg("Database initialized")

	return container, nil
}
