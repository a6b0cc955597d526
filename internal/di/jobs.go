package di

import (
	"fmt"
	"time"

	"github.com/partydex/partydex/internal/config"
	"github.com/partydex/partydex/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	// rebuildTimeout bounds one full rebuild of the roster cache and type matrix
	rebuildTimeout = 30 * time.Minute

	maintenanceSchedule = "0 0 * * * *" // Hourly
)

// RegisterJobs creates the scheduled jobs and registers them with a new scheduler.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{
		Scheduler: scheduler.New(log),
	}

	instances.Rebuild = scheduler.NewRebuildJob(
		container.PokemonService,
		container.TypeChart,
		container.EventManager,
		rebuildTimeout,
		log,
	)
	if cfg.RefreshSchedule != "" {
		if err := instances.Scheduler.AddJob(cfg.RefreshSchedule, instances.Rebuild); err != nil {
			return nil, fmt.Errorf("failed to register rebuild job: %w", err)
		}
	} else {
		log.Info().Msg("REFRESH_SCHEDULE is empty, scheduled rebuilds disabled")
	}

	instances.Maintenance = scheduler.NewMaintenanceJob(container.AuthService, container.DB, log)
	if err := instances.Scheduler.AddJob(maintenanceSchedule, instances.Maintenance); err != nil {
		return nil, fmt.Errorf("failed to register maintenance job: %w", err)
	}

	if cfg.Backup.Schedule != "" {
		// remote stays a nil interface when no bucket is configured
		var remote scheduler.RemoteBackuper
		if container.RemoteBackup != nil {
			remote = container.RemoteBackup
		}
		instances.Backup = scheduler.NewBackupJob(container.BackupService, remote, cfg.Backup.RetentionDays, log)
		if err := instances.Scheduler.AddJob(cfg.Backup.Schedule, instances.Backup); err != nil {
			return nil, fmt.Errorf("failed to register backup job: %w", err)
		}
	}

	log.Info().Int("jobs", instances.Scheduler.Entries()).Msg("Jobs registered")
	return instances, nil
}
