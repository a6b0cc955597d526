package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotCreator writes a local database snapshot
type SnapshotCreator interface {
	CreateSnapshot(ctx context.Context) (string, error)
}

// RemoteBackuper uploads database archives and prunes old ones
type RemoteBackuper interface {
	CreateAndUploadBackup(ctx context.Context) (string, error)
	RotateOldBackups(ctx context.Context, retentionDays int) (int, error)
}

// BackupJob snapshots the database locally and, when configured, uploads an archive
type BackupJob struct {
	local         SnapshotCreator
	remote        RemoteBackuper
	retentionDays int
	timeout       time.Duration
	log           zerolog.Logger
}

// NewBackupJob creates a new BackupJob. remote may be nil.
func NewBackupJob(local SnapshotCreator, remote RemoteBackuper, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		local:         local,
		remote:        remote,
		retentionDays: retentionDays,
		timeout:       15 * time.Minute,
		log:           log.With().Str("job", "database_backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "database_backup"
}

// Run executes the backup job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	path, err := j.local.CreateSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("local snapshot: %w", err)
	}
	j.log.Info().Str("path", path).Msg("Local snapshot written")

	if j.remote == nil {
		return nil
	}

	key, err := j.remote.CreateAndUploadBackup(ctx)
	if err != nil {
		return fmt.Errorf("remote backup: %w", err)
	}

	deleted, err := j.remote.RotateOldBackups(ctx, j.retentionDays)
	if err != nil {
		// The upload itself succeeded
		j.log.Error().Err(err).Msg("Failed to rotate remote backups")
	}

	j.log.Info().
		Str("key", key).
		Int("rotated", deleted).
		Msg("Remote backup uploaded")
	return nil
}
