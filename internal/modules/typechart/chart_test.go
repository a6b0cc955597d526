package typechart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChart(fetcher TypeFetcher) (*Chart, *events.Bus) {
	bus := events.NewBus(zerolog.Nop())
	manager := events.NewManager(bus, zerolog.Nop())
	return NewChart(NewBuilder(fetcher, zerolog.Nop()), manager, zerolog.Nop()), bus
}

func TestChart_NotReadyBeforeBuild(t *testing.T) {
	chart, _ := newTestChart(newRelationFetcher())

	assert.False(t, chart.Ready())
	assert.True(t, chart.BuiltAt().IsZero())

	m, err := chart.Matrix()
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMatrixUnavailable)
}

func TestChart_RebuildInstallsMatrix(t *testing.T) {
	chart, bus := newTestChart(newRelationFetcher())

	var received []*events.Event
	bus.Subscribe(events.TypeMatrixBuilt, func(e *events.Event) {
		received = append(received, e)
	})

	require.NoError(t, chart.Rebuild(context.Background()))

	assert.True(t, chart.Ready())
	assert.False(t, chart.BuiltAt().IsZero())
	m, err := chart.Matrix()
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Multiplier("fire", "water"))

	require.Len(t, received, 1)
	assert.Equal(t, "typechart", received[0].Module)
	assert.EqualValues(t, 18, received[0].Data["types"])
}

func TestChart_FailedRebuildKeepsPreviousMatrix(t *testing.T) {
	fetcher := newRelationFetcher()
	chart, bus := newTestChart(fetcher)
	require.NoError(t, chart.Rebuild(context.Background()))
	before, err := chart.Matrix()
	require.NoError(t, err)

	var failed []*events.Event
	bus.Subscribe(events.TypeMatrixBuildFailed, func(e *events.Event) {
		failed = append(failed, e)
	})

	fetcher.fail["ice"] = errors.New("upstream unavailable")
	err = chart.Rebuild(context.Background())
	require.Error(t, err)

	after, err := chart.Matrix()
	require.NoError(t, err)
	assert.Same(t, before, after)

	require.Len(t, failed, 1)
	assert.Equal(t, true, failed[0].Data["kept_previous"])
	assert.Contains(t, failed[0].Data["error"], "upstream unavailable")
}

func TestChart_FailedFirstBuildLeavesChartUnavailable(t *testing.T) {
	fetcher := newRelationFetcher()
	fetcher.fail["fairy"] = errors.New("timeout")
	chart, bus := newTestChart(fetcher)

	var failed []*events.Event
	bus.Subscribe(events.TypeMatrixBuildFailed, func(e *events.Event) {
		failed = append(failed, e)
	})

	require.Error(t, chart.Rebuild(context.Background()))
	assert.False(t, chart.Ready())
	require.Len(t, failed, 1)
	assert.Equal(t, false, failed[0].Data["kept_previous"])
}

// gatedFetcher blocks every GetType call until release is closed
type gatedFetcher struct {
	relations map[string]*pokeapi.TypeData
	started   chan struct{}
	release   chan struct{}
	once      sync.Once
}

func (f *gatedFetcher) GetType(ctx context.Context, name string) (*pokeapi.TypeData, error) {
	f.once.Do(func() { close(f.started) })
	select {
	case <-f.release:
		return f.relations[name], nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestChart_OverlappingRebuildIsRejected(t *testing.T) {
	fetcher := &gatedFetcher{
		relations: newRelationFetcher().relations,
		started:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	chart, _ := newTestChart(fetcher)

	done := make(chan error, 1)
	go func() { done <- chart.Rebuild(context.Background()) }()

	select {
	case <-fetcher.started:
	case <-time.After(2 * time.Second):
		t.Fatal("rebuild did not start")
	}
	assert.True(t, chart.Rebuilding())
	assert.ErrorIs(t, chart.Rebuild(context.Background()), ErrRebuildInProgress)

	close(fetcher.release)
	require.NoError(t, <-done)
	assert.False(t, chart.Rebuilding())
	assert.True(t, chart.Ready())
}
