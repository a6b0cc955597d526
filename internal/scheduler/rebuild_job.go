package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/partydex/partydex/internal/events"
	"github.com/partydex/partydex/internal/modules/pokemon"
	"github.com/partydex/partydex/internal/modules/typechart"
	"github.com/partydex/partydex/internal/utils"
	"github.com/rs/zerolog"
)

// Rebuild triggers
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// RosterRebuilder rebuilds the roster cache
type RosterRebuilder interface {
	Rebuild(ctx context.Context) (pokemon.BuildStats, error)
}

// MatrixRebuilder rebuilds the type matrix
type MatrixRebuilder interface {
	Rebuild(ctx context.Context) error
}

// RebuildJob rebuilds the roster cache and then the type matrix.
// Each build keeps its previous data on failure, so one failing does not stop the other.
type RebuildJob struct {
	roster       RosterRebuilder
	chart        MatrixRebuilder
	eventManager *events.Manager
	timeout      time.Duration
	log          zerolog.Logger
}

// NewRebuildJob creates a new RebuildJob. A zero timeout means no deadline.
func NewRebuildJob(
	roster RosterRebuilder,
	chart MatrixRebuilder,
	eventManager *events.Manager,
	timeout time.Duration,
	log zerolog.Logger,
) *RebuildJob {
	return &RebuildJob{
		roster:       roster,
		chart:        chart,
		eventManager: eventManager,
		timeout:      timeout,
		log:          log.With().Str("job", "rebuild_caches").Logger(),
	}
}

// Name returns the job name
func (j *RebuildJob) Name() string {
	return "rebuild_caches"
}

// Run executes a scheduled rebuild
func (j *RebuildJob) Run() error {
	return j.RunWithTrigger(context.Background(), TriggerSchedule)
}

// RunWithTrigger rebuilds both caches. Builds already in progress are skipped.
func (j *RebuildJob) RunWithTrigger(ctx context.Context, trigger string) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	stop := utils.OperationTimer("rebuild_caches", 5*time.Minute, j.log)
	defer stop()

	if j.eventManager != nil {
		j.eventManager.EmitTyped("scheduler", &events.RebuildStartedData{Trigger: trigger})
	}
	j.log.Info().Str("trigger", trigger).Msg("Rebuilding roster cache and type matrix")

	var errs []error

	stats, err := j.roster.Rebuild(ctx)
	switch {
	case errors.Is(err, pokemon.ErrRebuildInProgress):
		j.log.Info().Msg("Roster rebuild already in progress, skipping")
	case err != nil:
		errs = append(errs, fmt.Errorf("roster rebuild: %w", err))
		j.emitError(err, trigger, "roster")
	default:
		j.log.Info().
			Int("cached", stats.Cached).
			Int("failed", stats.Failed).
			Msg("Roster cache rebuilt")
	}

	err = j.chart.Rebuild(ctx)
	switch {
	case errors.Is(err, typechart.ErrRebuildInProgress):
		j.log.Info().Msg("Type matrix rebuild already in progress, skipping")
	case err != nil:
		errs = append(errs, fmt.Errorf("type matrix rebuild: %w", err))
		j.emitError(err, trigger, "type_matrix")
	}

	return errors.Join(errs...)
}

func (j *RebuildJob) emitError(err error, trigger, stage string) {
	if j.eventManager == nil {
		return
	}
	j.eventManager.EmitError("scheduler", err, map[string]interface{}{
		"job":     j.Name(),
		"trigger": trigger,
		"stage":   stage,
	})
}
