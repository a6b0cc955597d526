package di

import (
	"context"
	"fmt"

	"github.com/partydex/partydex/internal/scheduler"
	"github.com/rs/zerolog"
)

// BuildCaches performs the startup build of the roster cache and type matrix.
// Neither an empty roster nor a missing type matrix stops startup: the roster
// serves empty pages and coverage analysis answers 503 until a later rebuild
// succeeds. Only a cancelled context is returned as an error.
func BuildCaches(ctx context.Context, container *Container, jobs *JobInstances, log zerolog.Logger) error {
	if err := jobs.Rebuild.RunWithTrigger(ctx, scheduler.TriggerStartup); err != nil {
		log.Error().Err(err).Msg("Startup build finished with errors")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("startup build interrupted: %w", err)
	}
	if container.RosterCache.Len() == 0 {
		log.Warn().Msg("Roster cache is empty, the next rebuild will fill it")
	}
	if !container.TypeChart.Ready() {
		log.Warn().Msg("Type matrix unavailable, coverage analysis disabled until the next rebuild")
	}

	stats := container.PokemonService.Stats()
	log.Info().
		Int("cached", stats.Cached).
		Int("failed", stats.Failed).
		Bool("matrix_ready", container.TypeChart.Ready()).
		Msg("Startup build complete")
	return nil
}
