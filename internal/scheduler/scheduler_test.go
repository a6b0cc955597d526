package scheduler

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return j.name }

// blockingJob runs until released
type blockingJob struct {
	started chan struct{}
	release chan struct{}
}

func (j *blockingJob) Run() error {
	j.started <- struct{}{}
	<-j.release
	return nil
}

func (j *blockingJob) Name() string { return "blocking" }

func runRegistered(t *testing.T, s *Scheduler, job Job) {
	t.Helper()
	s.mu.RLock()
	reg, ok := s.jobs[job.Name()]
	s.mu.RUnlock()
	require.True(t, ok, "job %s not registered", job.Name())
	s.run(job.Name(), reg, job)
}

func TestAddJob(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 0 4 * * *", &countingJob{name: "rebuild_caches"}))
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "maintenance"}))
	assert.Equal(t, 2, s.Entries())

	assert.Error(t, s.AddJob("0 4 * * *", &countingJob{name: "five_fields"}), "five-field schedules are rejected")
	assert.Error(t, s.AddJob("not a schedule", &countingJob{name: "garbage"}))
	assert.Equal(t, 2, s.Entries())
}

func TestAddJob_DuplicateName(t *testing.T) {
	s := New(zerolog.Nop())

	require.NoError(t, s.AddJob("0 0 4 * * *", &countingJob{name: "rebuild_caches"}))
	err := s.AddJob("0 0 5 * * *", &countingJob{name: "rebuild_caches"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Equal(t, 1, s.Entries())
}

func TestJobs_RecordsOutcomes(t *testing.T) {
	s := New(zerolog.Nop())

	ok := &countingJob{name: "maintenance"}
	failing := &countingJob{name: "database_backup", err: errors.New("disk full")}
	require.NoError(t, s.AddJob("0 0 * * * *", ok))
	require.NoError(t, s.AddJob("0 30 3 * * *", failing))

	before := s.Jobs()
	require.Len(t, before, 2)
	assert.Equal(t, "maintenance", before[0].Name)
	assert.Equal(t, "0 0 * * * *", before[0].Schedule)
	assert.Nil(t, before[0].LastRun)
	assert.Nil(t, before[0].NextRun, "not started")

	runRegistered(t, s, ok)
	runRegistered(t, s, failing)

	after := s.Jobs()
	require.NotNil(t, after[0].LastRun)
	assert.Empty(t, after[0].LastError)
	require.NotNil(t, after[1].LastRun)
	assert.Equal(t, "disk full", after[1].LastError)
	assert.Equal(t, int32(1), ok.runs.Load())
	assert.Equal(t, int32(1), failing.runs.Load())
}

func TestJobs_ReportsRunningJob(t *testing.T) {
	s := New(zerolog.Nop())
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, s.AddJob("0 0 4 * * *", job))

	done := make(chan struct{})
	go func() {
		runRegistered(t, s, job)
		close(done)
	}()

	select {
	case <-job.started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}
	assert.True(t, s.Jobs()[0].Running)

	close(job.release)
	<-done
	assert.False(t, s.Jobs()[0].Running)
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@every 1h", &countingJob{name: "maintenance"}))

	s.Start()
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].NextRun)
	assert.True(t, jobs[0].NextRun.After(time.Now()))
	s.Stop()
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{log: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	l.Info("skip", "entry", 3)
	l.Error(errors.New("boom"), "panic", "job", "rebuild_caches")

	out := buf.String()
	assert.Contains(t, out, `"entry":3`)
	assert.Contains(t, out, `"message":"skip"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"job":"rebuild_caches"`)
}
