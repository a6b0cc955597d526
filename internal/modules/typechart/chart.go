package typechart

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/partydex/partydex/internal/events"
	"github.com/rs/zerolog"
)

// Chart holds the installed type matrix and owns its rebuilds.
// Readers never lock; a successful rebuild swaps the matrix atomically and a
// failed one keeps the previous matrix.
type Chart struct {
	current      atomic.Pointer[Matrix]
	builtAt      atomic.Pointer[time.Time]
	builder      *Builder
	eventManager *events.Manager
	rebuilding   atomic.Bool
	log          zerolog.Logger
}

// NewChart creates an empty chart
func NewChart(builder *Builder, eventManager *events.Manager, log zerolog.Logger) *Chart {
	return &Chart{
		builder:      builder,
		eventManager: eventManager,
		log:          log.With().Str("component", "type_chart").Logger(),
	}
}

// Matrix returns the installed matrix, or ErrMatrixUnavailable
func (c *Chart) Matrix() (*Matrix, error) {
	m := c.current.Load()
	if m == nil {
		return nil, ErrMatrixUnavailable
	}
	return m, nil
}

// Replace installs a matrix
func (c *Chart) Replace(m *Matrix) {
	now := time.Now()
	c.current.Store(m)
	c.builtAt.Store(&now)
}

// Ready reports whether a matrix is installed
func (c *Chart) Ready() bool {
	return c.current.Load() != nil
}

// BuiltAt returns when the installed matrix was built; zero when none is
func (c *Chart) BuiltAt() time.Time {
	if t := c.builtAt.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

// Rebuilding reports whether a rebuild is running
func (c *Chart) Rebuilding() bool {
	return c.rebuilding.Load()
}

// Rebuild builds a fresh matrix and installs it
func (c *Chart) Rebuild(ctx context.Context) error {
	if !c.rebuilding.CompareAndSwap(false, true) {
		return ErrRebuildInProgress
	}
	defer c.rebuilding.Store(false)

	start := time.Now()
	matrix, err := c.builder.Build(ctx)
	if err != nil {
		kept := c.Ready()
		c.log.Error().
			Err(err).
			Bool("kept_previous", kept).
			Msg("Type matrix build failed")
		if c.eventManager != nil {
			c.eventManager.EmitTyped("typechart", &events.TypeMatrixBuildFailedData{
				Error:        err.Error(),
				KeptPrevious: kept,
			})
		}
		return err
	}

	c.Replace(matrix)

	if c.eventManager != nil {
		c.eventManager.EmitTyped("typechart", &events.TypeMatrixBuiltData{
			Types:      NumTypes,
			DurationMs: time.Since(start).Milliseconds(),
		})
	}
	return nil
}
