package pokemon

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/partydex/partydex/internal/events"
	"github.com/rs/zerolog"
)

// Service is the roster query engine. It serves reads from the cache and
// owns rebuilds of it.
type Service struct {
	cache        *Cache
	table        *GenerationTable
	builder      *Builder
	fetcher      Fetcher
	locale       string
	eventManager *events.Manager
	rebuilding   atomic.Bool
	log          zerolog.Logger
}

// NewService creates a new roster service
func NewService(
	cache *Cache,
	table *GenerationTable,
	builder *Builder,
	fetcher Fetcher,
	locale string,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		cache:        cache,
		table:        table,
		builder:      builder,
		fetcher:      fetcher,
		locale:       locale,
		eventManager: eventManager,
		log:          log.With().Str("service", "pokemon").Logger(),
	}
}

// GetByID returns a cached roster member
func (s *Service) GetByID(id int) (CachedPokemon, bool) {
	return s.cache.GetByID(id)
}

// List filters and paginates the cached roster
func (s *Service) List(params ListParams) ListResult {
	return Query(s.cache.All(), s.table, params)
}

// Generations returns the generation range table in use
func (s *Service) Generations() *GenerationTable {
	return s.table
}

// Ready reports whether the roster cache has been built
func (s *Service) Ready() bool {
	return s.cache.Ready()
}

// Stats returns the stats of the installed roster build
func (s *Service) Stats() BuildStats {
	return s.cache.Stats()
}

// Rebuilding reports whether a rebuild is running
func (s *Service) Rebuilding() bool {
	return s.rebuilding.Load()
}

// GetDetail fetches a member live from upstream, bypassing the cache.
// Any failure is reported as absence.
func (s *Service) GetDetail(ctx context.Context, id int) (*PokemonDetail, bool) {
	detail, err := s.fetchDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug().Int("id", id).Msg("Pokemon not found upstream")
		} else {
			s.log.Error().Err(err).Int("id", id).Msg("Failed to fetch pokemon detail")
		}
		return nil, false
	}
	return detail, true
}

func (s *Service) fetchDetail(ctx context.Context, id int) (*PokemonDetail, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}

	p, species, err := fetchPair(ctx, s.fetcher, id)
	if err != nil {
		if pokeapi.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}

	abilities := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		abilities = append(abilities, a.Ability.Name)
	}

	return &PokemonDetail{
		CachedPokemon: normalize(p, species, s.locale, s.table),
		Abilities:     abilities,
		Height:        p.Height,
		Weight:        p.Weight,
	}, nil
}

// Rebuild builds a fresh roster and swaps it into the cache.
// A concurrent call returns ErrRebuildInProgress; a failed build keeps the current roster.
// An empty build is installed only when the cache holds nothing; otherwise it
// returns ErrEmptyRebuild and the current roster stays.
func (s *Service) Rebuild(ctx context.Context) (BuildStats, error) {
	if !s.rebuilding.CompareAndSwap(false, true) {
		return BuildStats{}, ErrRebuildInProgress
	}
	defer s.rebuilding.Store(false)

	members, stats, err := s.builder.Build(ctx)
	if err == nil && len(members) == 0 && s.cache.Len() > 0 {
		err = fmt.Errorf("%w: %d of %d members failed", ErrEmptyRebuild, stats.Failed, stats.Requested)
	}
	if err != nil {
		if s.eventManager != nil {
			s.eventManager.EmitTyped("pokemon", &events.RosterCacheBuildFailedData{Error: err.Error()})
		}
		return BuildStats{}, err
	}

	s.cache.Replace(members, stats)

	if s.eventManager != nil {
		s.eventManager.EmitTyped("pokemon", &events.RosterCacheBuiltData{
			Requested:  stats.Requested,
			Cached:     stats.Cached,
			Failed:     stats.Failed,
			DurationMs: stats.DurationMs,
		})
	}
	return stats, nil
}
