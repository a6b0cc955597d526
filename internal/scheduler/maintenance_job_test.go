package scheduler

import (
	"context"
	"errors"
	"testing"

	testutil "github.com/partydex/partydex/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	removed int64
	err     error
	calls   int
}

func (f *fakePurger) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	f.calls++
	return f.removed, f.err
}

func TestMaintenanceJob_Run(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t, "maintenance")
	defer cleanup()

	purger := &fakePurger{removed: 3}
	job := NewMaintenanceJob(purger, db, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, "database_maintenance", job.Name())
}

func TestMaintenanceJob_PurgeFailure(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t, "maintenance")
	defer cleanup()

	job := NewMaintenanceJob(&fakePurger{err: errors.New("locked")}, db, zerolog.Nop())
	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}
