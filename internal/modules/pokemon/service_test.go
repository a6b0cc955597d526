package pokemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, fetcher Fetcher, size int) (*Service, *events.Bus) {
	t.Helper()
	table := smallTable(t, size)
	bus := events.NewBus(zerolog.Nop())
	manager := events.NewManager(bus, zerolog.Nop())
	builder := NewBuilder(fetcher, table, 10, "ja", zerolog.Nop())
	return NewService(NewCache(), table, builder, fetcher, "ja", manager, zerolog.Nop()), bus
}

func TestService_RebuildInstallsRosterAndEmitsEvent(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, 1).Return(testPokemon(1, "bulbasaur", "grass", "poison"), nil)
	fetcher.On("GetPokemonSpecies", mock.Anything, 1).Return(testSpecies(1, "generation-i", "フシギダネ"), nil)
	fetcher.On("GetPokemon", mock.Anything, 2).Return(nil, errors.New("timeout"))
	fetcher.On("GetPokemonSpecies", mock.Anything, 2).Return(testSpecies(2, "generation-i", "フシギソウ"), nil).Maybe()

	service, bus := newTestService(t, fetcher, 2)

	var built *events.Event
	bus.Subscribe(events.RosterCacheBuilt, func(e *events.Event) { built = e })

	assert.False(t, service.Ready())

	stats, err := service.Rebuild(context.Background())
	require.NoError(t, err)

	assert.True(t, service.Ready())
	assert.Equal(t, 1, stats.Cached)
	assert.Equal(t, 1, stats.Failed)

	member, ok := service.GetByID(1)
	require.True(t, ok)
	assert.Equal(t, "フシギダネ", member.Name)
	_, ok = service.GetByID(2)
	assert.False(t, ok)

	require.NotNil(t, built)
	data, ok := built.GetTypedData().(*events.RosterCacheBuiltData)
	require.True(t, ok)
	assert.Equal(t, 1, data.Cached)
	assert.Equal(t, 1, data.Failed)

	result := service.List(ListParams{})
	assert.Equal(t, 1, result.Pagination.Total)
}

// blockingFetcher blocks every call until released
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) GetPokemon(ctx context.Context, id int) (*pokeapi.Pokemon, error) {
	select {
	case f.started <- struct{}{}:
	default:
	}
	<-f.release
	return testPokemon(id, "blocked", "normal"), nil
}

func (f *blockingFetcher) GetPokemonSpecies(ctx context.Context, id int) (*pokeapi.PokemonSpecies, error) {
	return testSpecies(id, "generation-i", ""), nil
}

func TestService_OverlappingRebuildIsRejected(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	service, _ := newTestService(t, fetcher, 1)

	done := make(chan error, 1)
	go func() {
		_, err := service.Rebuild(context.Background())
		done <- err
	}()

	select {
	case <-fetcher.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first rebuild never started")
	}

	assert.True(t, service.Rebuilding())
	_, err := service.Rebuild(context.Background())
	assert.ErrorIs(t, err, ErrRebuildInProgress)

	close(fetcher.release)
	require.NoError(t, <-done)
	assert.False(t, service.Rebuilding())
	assert.Equal(t, 1, service.Stats().Cached)
}

func TestService_FailedRebuildKeepsPreviousRoster(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()
	fetcher.On("GetPokemonSpecies", mock.Anything, mock.Anything).Return(nil, context.Canceled).Maybe()

	service, bus := newTestService(t, fetcher, 3)
	service.cache.Replace(starterRoster(), BuildStats{Cached: 3, BuiltAt: time.Now()})

	var failed *events.Event
	bus.Subscribe(events.RosterCacheBuildFailed, func(e *events.Event) { failed = e })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := service.Rebuild(ctx)
	require.Error(t, err)

	assert.Equal(t, 3, service.Stats().Cached)
	_, ok := service.GetByID(7)
	assert.True(t, ok)
	assert.NotNil(t, failed)
}

func TestService_EmptyRebuildKeepsInstalledRoster(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, mock.Anything).Return(nil, errors.New("upstream outage"))
	fetcher.On("GetPokemonSpecies", mock.Anything, mock.Anything).Return(nil, errors.New("upstream outage")).Maybe()

	service, bus := newTestService(t, fetcher, 3)
	service.cache.Replace(starterRoster(), BuildStats{Requested: 3, Cached: 3, BuiltAt: time.Now()})

	var failed *events.Event
	bus.Subscribe(events.RosterCacheBuildFailed, func(e *events.Event) { failed = e })

	_, err := service.Rebuild(context.Background())
	require.ErrorIs(t, err, ErrEmptyRebuild)
	assert.Contains(t, err.Error(), "3 of 3 members failed")

	assert.Equal(t, 3, service.Stats().Cached)
	_, ok := service.GetByID(4)
	assert.True(t, ok)
	assert.NotNil(t, failed)
}

func TestService_EmptyFirstBuildIsInstalled(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, mock.Anything).Return(nil, errors.New("upstream outage"))
	fetcher.On("GetPokemonSpecies", mock.Anything, mock.Anything).Return(nil, errors.New("upstream outage")).Maybe()

	service, _ := newTestService(t, fetcher, 2)

	stats, err := service.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Cached)
	assert.Equal(t, 2, stats.Failed)
	assert.True(t, service.Ready())
	assert.Empty(t, service.List(ListParams{}).Data)
}

func TestService_GetDetail(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, 1).Return(testPokemon(1, "bulbasaur", "grass", "poison"), nil)
	fetcher.On("GetPokemonSpecies", mock.Anything, 1).Return(testSpecies(1, "generation-i", "フシギダネ"), nil)

	service, _ := newTestService(t, fetcher, 1)

	detail, ok := service.GetDetail(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, 1, detail.ID)
	assert.Equal(t, "フシギダネ", detail.Name)
	assert.Equal(t, []string{"overgrow"}, detail.Abilities)
	assert.Equal(t, 7, detail.Height)
	assert.Equal(t, 69, detail.Weight)
	assert.Equal(t, 1, detail.Generation)
}

func TestService_GetDetailNotFound(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, 9999).Return(nil, &pokeapi.NotFoundError{URL: "/pokemon/9999"})
	fetcher.On("GetPokemonSpecies", mock.Anything, 9999).Return(nil, &pokeapi.NotFoundError{URL: "/pokemon-species/9999"}).Maybe()
	fetcher.On("GetPokemon", mock.Anything, 5).Return(nil, errors.New("upstream exploded"))
	fetcher.On("GetPokemonSpecies", mock.Anything, 5).Return(testSpecies(5, "generation-i", ""), nil).Maybe()

	service, _ := newTestService(t, fetcher, 1)

	detail, ok := service.GetDetail(context.Background(), 9999)
	assert.False(t, ok)
	assert.Nil(t, detail)

	_, ok = service.GetDetail(context.Background(), 5)
	assert.False(t, ok, "any upstream failure is reported as absence")

	_, ok = service.GetDetail(context.Background(), 0)
	assert.False(t, ok)
}

func TestService_FetchDetailWrapsNotFound(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetPokemon", mock.Anything, 42).Return(nil, &pokeapi.NotFoundError{URL: "/pokemon/42"})
	fetcher.On("GetPokemonSpecies", mock.Anything, 42).Return(nil, &pokeapi.NotFoundError{URL: "/pokemon-species/42"}).Maybe()

	service, _ := newTestService(t, fetcher, 1)

	_, err := service.fetchDetail(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
