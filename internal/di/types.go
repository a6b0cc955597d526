// Package di provides dependency injection type definitions.
//
// The Container holds every long-lived dependency of the application and is
// the single place handlers and jobs obtain their services from.
package di

import (
	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/database"
	"github.com/partydex/partydex/internal/events"
	"github.com/partydex/partydex/internal/modules/auth"
	"github.com/partydex/partydex/internal/modules/pokemon"
	"github.com/partydex/partydex/internal/modules/team"
	"github.com/partydex/partydex/internal/modules/typechart"
	"github.com/partydex/partydex/internal/reliability"
	"github.com/partydex/partydex/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Database
	DB *database.DB

	// Events
	EventBus     *events.Bus
	EventManager *events.Manager

	// Upstream
	PokeAPIClient *pokeapi.Client

	// Repositories
	AuthRepo *auth.Repository
	TeamRepo *team.Repository

	// Roster
	GenerationTable *pokemon.GenerationTable
	RosterCache     *pokemon.Cache
	RosterBuilder   *pokemon.Builder
	PokemonService  *pokemon.Service

	// Type chart
	TypeChart *typechart.Chart
	Analyzer  *typechart.Analyzer

	// Users and teams
	AuthService *auth.Service
	TeamService *team.Service

	// Backups; RemoteBackup is nil when no bucket is configured
	BackupService *reliability.BackupService
	RemoteBackup  *reliability.RemoteBackupService
}

// JobInstances holds the scheduled jobs for manual triggering via API
type JobInstances struct {
	Scheduler   *scheduler.Scheduler
	Rebuild     *scheduler.RebuildJob
	Maintenance *scheduler.MaintenanceJob
	Backup      *scheduler.BackupJob
}

// Close releases resources held by the container
func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
