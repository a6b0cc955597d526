// Package scheduler runs the cache rebuild, maintenance and backup jobs on
// cron schedules with a leading seconds field.
package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of scheduled work
type Job interface {
	Run() error
	Name() string
}

// JobStatus describes a registered job and its most recent run
type JobStatus struct {
	Name           string     `json:"name"`
	Schedule       string     `json:"schedule"`
	NextRun        *time.Time `json:"nextRun,omitempty"`
	LastRun        *time.Time `json:"lastRun,omitempty"`
	LastDurationMs int64      `json:"lastDurationMs"`
	LastError      string     `json:"lastError,omitempty"`
	Running        bool       `json:"running"`
}

type registeredJob struct {
	id       cron.EntryID
	schedule string
	running  atomic.Bool

	mu           sync.Mutex
	lastRun      time.Time
	lastDuration time.Duration
	lastErr      error
}

// Scheduler owns the cron runner and the outcome of every registered job.
// A job still running when its next tick fires is skipped for that tick.
type Scheduler struct {
	cron  *cron.Cron
	chain cron.Chain

	mu    sync.RWMutex
	jobs  map[string]*registeredJob
	order []string

	log zerolog.Logger
}

// New creates a scheduler. Panics inside jobs are recovered and logged.
func New(log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cronLog := cronLogger{log: log}

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		chain: cron.NewChain(cron.SkipIfStillRunning(cronLog)),
		jobs:  make(map[string]*registeredJob),
		log:   log,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", s.Entries()).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job under schedule. Job names must be unique.
//
//	"0 0 4 * * *"   rebuild_caches (REFRESH_SCHEDULE default)
//	"0 0 * * * *"   database_maintenance
//	"0 30 3 * * *"  database_backup (BACKUP_SCHEDULE default)
func (s *Scheduler) AddJob(schedule string, job Job) error {
	name := job.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s is already registered", name)
	}

	reg := &registeredJob{schedule: schedule}
	id, err := s.cron.AddJob(schedule, s.chain.Then(cron.FuncJob(func() {
		s.run(name, reg, job)
	})))
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	reg.id = id

	s.jobs[name] = reg
	s.order = append(s.order, name)

	s.log.Info().
		Str("schedule", schedule).
		Str("job", name).
		Msg("Job registered")
	return nil
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Jobs reports every registered job in registration order.
// NextRun is unset until the scheduler has started.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStatus, 0, len(s.order))
	for _, name := range s.order {
		reg := s.jobs[name]
		status := JobStatus{
			Name:     name,
			Schedule: reg.schedule,
			Running:  reg.running.Load(),
		}
		if next := s.cron.Entry(reg.id).Next; !next.IsZero() {
			status.NextRun = &next
		}

		reg.mu.Lock()
		if !reg.lastRun.IsZero() {
			lastRun := reg.lastRun
			status.LastRun = &lastRun
			status.LastDurationMs = reg.lastDuration.Milliseconds()
		}
		if reg.lastErr != nil {
			status.LastError = reg.lastErr.Error()
		}
		reg.mu.Unlock()

		out = append(out, status)
	}
	return out
}

func (s *Scheduler) run(name string, reg *registeredJob, job Job) {
	reg.running.Store(true)
	defer reg.running.Store(false)

	s.log.Debug().Str("job", name).Msg("Running job")
	start := time.Now()
	err := job.Run()
	duration := time.Since(start)

	reg.mu.Lock()
	reg.lastRun = start
	reg.lastDuration = duration
	reg.lastErr = err
	reg.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Str("job", name).Dur("duration", duration).Msg("Job failed")
		return
	}
	s.log.Debug().Str("job", name).Dur("duration", duration).Msg("Job completed")
}

// cronLogger routes the cron runner's own messages into zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
