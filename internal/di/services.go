package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/config"
	"github.com/partydex/partydex/internal/events"
	"github.com/partydex/partydex/internal/modules/auth"
	"github.com/partydex/partydex/internal/modules/pokemon"
	"github.com/partydex/partydex/internal/modules/team"
	"github.com/partydex/partydex/internal/modules/typechart"
	"github.com/partydex/partydex/internal/reliability"
	"github.com/rs/zerolog"
)

// InitializeServices creates all services and stores them in the container.
// Caches start empty; they are filled by BuildCaches.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Events
	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)

	// Upstream client, shared by the roster builder, detail lookups and the type chart
	container.PokeAPIClient = pokeapi.NewClient(pokeapi.Config{
		BaseURL:    cfg.PokeAPI.BaseURL,
		Timeout:    cfg.PokeAPI.Timeout,
		RateLimit:  cfg.PokeAPI.RateLimit,
		Burst:      cfg.Roster.BatchSize,
		MaxRetries: cfg.PokeAPI.MaxRetries,
	}, log)

	// Roster
	table, err := pokemon.LoadGenerationTable(cfg.Roster.GenerationsFile)
	if err != nil {
		return fmt.Errorf("failed to load generation table: %w", err)
	}
	container.GenerationTable = table
	container.RosterCache = pokemon.NewCache()
	container.RosterBuilder = pokemon.NewBuilder(
		container.PokeAPIClient,
		table,
		cfg.Roster.BatchSize,
		cfg.Roster.Locale,
		log,
	)
	container.PokemonService = pokemon.NewService(
		container.RosterCache,
		table,
		container.RosterBuilder,
		container.PokeAPIClient,
		cfg.Roster.Locale,
		container.EventManager,
		log,
	)

	// Type chart
	container.TypeChart = typechart.NewChart(
		typechart.NewBuilder(container.PokeAPIClient, log),
		container.EventManager,
		log,
	)
	container.Analyzer = typechart.NewAnalyzer(container.RosterCache, container.TypeChart)

	// Users and teams
	container.AuthService = auth.NewService(container.AuthRepo, cfg.SessionTTL, log)
	container.TeamService = team.NewService(
		container.TeamRepo,
		container.RosterCache,
		container.Analyzer,
		container.EventManager,
		log,
	)

	// Backups
	container.BackupService = reliability.NewBackupService(container.DB, cfg.BackupDir(), cfg.Backup.Keep, log)
	if cfg.Backup.RemoteEnabled() {
		store, err := reliability.NewS3Store(context.Background(), reliability.S3Config{
			Bucket:          cfg.Backup.S3Bucket,
			Endpoint:        cfg.Backup.S3Endpoint,
			Region:          cfg.Backup.S3Region,
			AccessKeyID:     cfg.Backup.S3AccessKeyID,
			SecretAccessKey: cfg.Backup.S3SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize backup storage: %w", err)
		}
		container.RemoteBackup = reliability.NewRemoteBackupService(
			store,
			container.BackupService,
			filepath.Join(cfg.BackupDir(), "staging"),
			log,
		)
	}

	log.Info().
		Str("pokeapi", cfg.PokeAPI.BaseURL).
		Int("generations", len(table.Generations)).
		Bool("remote_backup", container.RemoteBackup != nil).
		Msg("Services initialized")
	return nil
}
