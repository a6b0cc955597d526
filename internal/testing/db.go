// Package testing provides testing utilities and helpers for partydex.
package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/partydex/partydex/internal/database"
)

// NewTestDB creates a migrated temp-file SQLite database for testing.
// Returns the database instance and a cleanup function that closes the connection.
// The cleanup function is idempotent and can be called multiple times safely.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	db := newUnmigratedDB(t, name)

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	return db, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	}
}

// newUnmigratedDB opens a database file inside the test's temp directory,
// which the testing package removes after the test
func newUnmigratedDB(t *testing.T, name string) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), name+".db")
	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		_ = os.Remove(path)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	return db
}
