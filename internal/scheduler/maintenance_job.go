package scheduler

import (
	"context"
	"fmt"

	"github.com/partydex/partydex/internal/database"
	"github.com/rs/zerolog"
)

// SessionPurger deletes expired login sessions
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// MaintenanceJob purges expired sessions and checkpoints the WAL
type MaintenanceJob struct {
	sessions SessionPurger
	db       *database.DB
	log      zerolog.Logger
}

// NewMaintenanceJob creates a new MaintenanceJob
func NewMaintenanceJob(sessions SessionPurger, db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		sessions: sessions,
		db:       db,
		log:      log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes the maintenance job
func (j *MaintenanceJob) Run() error {
	ctx := context.Background()

	removed, err := j.sessions.PurgeExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}

	// PRAGMA wal_checkpoint returns: busy, log, checkpointed
	var busy, walFrames, checkpointed int
	if err := j.db.Conn().QueryRowContext(ctx, "PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &walFrames, &checkpointed); err != nil {
		j.log.Warn().Err(err).Msg("Failed to check WAL checkpoint")
	} else if walFrames > 1000 {
		j.log.Warn().
			Int("wal_frames", walFrames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, truncating")
		if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
			return err
		}
	}

	j.log.Info().
		Int64("sessions_purged", removed).
		Int("wal_frames", walFrames).
		Msg("Database maintenance completed")
	return nil
}
