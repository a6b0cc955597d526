package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

const (
	archivePrefix   = "partydex-backup-"
	archiveSuffix   = ".tar.gz"
	metadataName    = "backup-metadata.json"
	databaseName    = "partydex.db"
	metadataVersion = "1"

	// minBackupsToKeep survive rotation regardless of age
	minBackupsToKeep = 3
)

// BackupMetadata is stored alongside the database in every archive
type BackupMetadata struct {
	Timestamp     time.Time          `json:"timestamp"`
	Version       string             `json:"version"`
	SchemaVersion uint               `json:"schema_version"`
	Databases     []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata describes one database file in an archive
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo describes an archive held in the object store
type BackupInfo struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// RemoteBackupService archives database snapshots and uploads them to an object store
type RemoteBackupService struct {
	store   ObjectStore
	backups *BackupService
	tempDir string
	now     func() time.Time
	log     zerolog.Logger
}

// NewRemoteBackupService creates a new remote backup service.
// Archives are staged under tempDir before upload.
func NewRemoteBackupService(store ObjectStore, backups *BackupService, tempDir string, log zerolog.Logger) *RemoteBackupService {
	return &RemoteBackupService{
		store:   store,
		backups: backups,
		tempDir: tempDir,
		now:     time.Now,
		log:     log.With().Str("service", "remote_backup").Logger(),
	}
}

// CreateAndUploadBackup snapshots the database, archives it with metadata
// and uploads the archive. It returns the uploaded key.
func (s *RemoteBackupService) CreateAndUploadBackup(ctx context.Context) (string, error) {
	startTime := time.Now()

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging parent: %w", err)
	}
	stagingDir, err := os.MkdirTemp(s.tempDir, "staging-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	dbPath := filepath.Join(stagingDir, databaseName)
	if err := s.backups.BackupDatabase(ctx, dbPath); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat snapshot: %w", err)
	}
	checksum, err := calculateChecksum(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	timestamp := s.now().UTC()
	metadata := BackupMetadata{
		Timestamp: timestamp,
		Version:   metadataVersion,
		Databases: []DatabaseMetadata{{
			Name:      "partydex",
			Filename:  databaseName,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		}},
	}
	if version, _, err := s.backups.db.SchemaVersion(); err == nil {
		metadata.SchemaVersion = version
	}

	if err := writeMetadata(filepath.Join(stagingDir, metadataName), metadata); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	key := archivePrefix + timestamp.Format(timestampFmt) + archiveSuffix
	archivePath := filepath.Join(stagingDir, key)
	if err := createArchive(archivePath, stagingDir, []string{databaseName, metadataName}); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	archiveInfo, err := archive.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}

	if err := s.store.Upload(ctx, key, archive, archiveInfo.Size()); err != nil {
		return "", err
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("key", key).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Remote backup completed")
	return key, nil
}

// ListBackups lists stored archives, newest first
func (s *RemoteBackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote backups: %w", err)
	}

	now := s.now()
	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		ts, ok := parseBackupTimestamp(obj.Key, archivePrefix, archiveSuffix)
		if !ok {
			s.log.Warn().Str("key", obj.Key).Msg("Skipping object with unexpected name")
			continue
		}
		backups = append(backups, BackupInfo{
			Key:       obj.Key,
			Timestamp: ts,
			SizeBytes: obj.Size,
			AgeHours:  int64(now.Sub(ts).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// RotateOldBackups deletes archives older than retentionDays.
// The newest archives are always kept; retentionDays <= 0 keeps everything.
func (s *RemoteBackupService) RotateOldBackups(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if len(backups) <= minBackupsToKeep {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted := 0
	for _, b := range backups[minBackupsToKeep:] {
		if !b.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, b.Key); err != nil {
			s.log.Error().Err(err).Str("key", b.Key).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Remote backup rotation completed")
	return deleted, nil
}

func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive writes the named files from sourceDir into a tar.gz at archivePath
func createArchive(archivePath, sourceDir string, names []string) (err error) {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if cerr := archiveFile.Close(); err == nil {
			err = cerr
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range names {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}

func addFileToArchive(tarWriter *tar.Writer, path, nameInArchive string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}
