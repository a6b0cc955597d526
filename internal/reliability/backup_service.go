// Package reliability provides database backups: verified local snapshots and
// archived uploads to S3-compatible object storage.
package reliability

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/partydex/partydex/internal/database"
)

const (
	snapshotPrefix = "partydex-"
	snapshotSuffix = ".db"
	timestampFmt   = "2006-01-02-150405"

	// minFreeBytes is the free space below which snapshots are refused
	minFreeBytes = 100 * 1024 * 1024
)

// BackupService writes verified snapshots of the application database
// into a local directory and rotates old ones.
type BackupService struct {
	db        *database.DB
	backupDir string
	keep      int
	now       func() time.Time
	log       zerolog.Logger
}

// NewBackupService creates a new backup service keeping the newest keep snapshots
func NewBackupService(db *database.DB, backupDir string, keep int, log zerolog.Logger) *BackupService {
	if keep <= 0 {
		keep = 1
	}
	return &BackupService{
		db:        db,
		backupDir: backupDir,
		keep:      keep,
		now:       time.Now,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

// CreateSnapshot writes a verified snapshot into the backup directory,
// rotates old snapshots and returns the new file's path.
func (s *BackupService) CreateSnapshot(ctx context.Context) (string, error) {
	startTime := time.Now()

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := s.checkDiskSpace(); err != nil {
		return "", err
	}

	name := snapshotPrefix + s.now().UTC().Format(timestampFmt) + snapshotSuffix
	path := filepath.Join(s.backupDir, name)

	if err := s.BackupDatabase(ctx, path); err != nil {
		return "", err
	}

	if err := s.rotate(); err != nil {
		// The snapshot itself succeeded
		s.log.Error().Err(err).Msg("Failed to rotate local snapshots")
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("path", path).
		Msg("Database snapshot created")
	return path, nil
}

// BackupDatabase copies the database to destPath with VACUUM INTO and verifies the copy.
// destPath must not exist.
func (s *BackupService) BackupDatabase(ctx context.Context, destPath string) error {
	if strings.Contains(destPath, "'") {
		return fmt.Errorf("invalid backup path %q", destPath)
	}

	// VACUUM INTO writes a compacted, WAL-free copy in one transaction
	if _, err := s.db.Conn().ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		return fmt.Errorf("VACUUM INTO failed: %w", err)
	}

	if err := verifyBackup(ctx, destPath); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("backup verification failed: %w", err)
	}

	if info, err := os.Stat(destPath); err == nil {
		s.log.Debug().
			Str("path", destPath).
			Int64("size_bytes", info.Size()).
			Msg("Backup written")
	}
	return nil
}

// Snapshots lists local snapshot paths, newest first
func (s *BackupService) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := parseBackupTimestamp(e.Name(), snapshotPrefix, snapshotSuffix); ok {
			names = append(names, e.Name())
		}
	}

	// Timestamps sort lexically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.backupDir, n)
	}
	return paths, nil
}

func (s *BackupService) rotate() error {
	paths, err := s.Snapshots()
	if err != nil {
		return err
	}
	if len(paths) <= s.keep {
		return nil
	}

	for _, p := range paths[s.keep:] {
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
		s.log.Debug().Str("path", p).Msg("Removed old snapshot")
	}
	return nil
}

func (s *BackupService) checkDiskSpace() error {
	usage, err := disk.Usage(s.backupDir)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read disk usage, skipping space check")
		return nil
	}

	s.log.Debug().
		Uint64("free_bytes", usage.Free).
		Float64("used_percent", usage.UsedPercent).
		Msg("Disk space check")

	if usage.Free < minFreeBytes {
		return fmt.Errorf("insufficient disk space for backup: %d bytes free", usage.Free)
	}
	return nil
}

func verifyBackup(ctx context.Context, path string) error {
	backupDB, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer backupDB.Close()

	var result string
	if err := backupDB.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// parseBackupTimestamp extracts the timestamp from prefix+timestamp+suffix names
func parseBackupTimestamp(name, prefix, suffix string) (time.Time, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return time.Time{}, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	ts, err := time.Parse(timestampFmt, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
