package pokemon

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the subset of the upstream client the roster needs
type Fetcher interface {
	GetPokemon(ctx context.Context, id int) (*pokeapi.Pokemon, error)
	GetPokemonSpecies(ctx context.Context, id int) (*pokeapi.PokemonSpecies, error)
}

// fetchResult is the outcome of fetching one roster member
type fetchResult struct {
	member CachedPokemon
	err    error
}

// Builder fetches and normalizes the full roster from upstream
type Builder struct {
	fetcher   Fetcher
	table     *GenerationTable
	batchSize int
	locale    string
	log       zerolog.Logger
}

// NewBuilder creates a roster builder.
// batchSize bounds the number of members fetched concurrently.
func NewBuilder(fetcher Fetcher, table *GenerationTable, batchSize int, locale string, log zerolog.Logger) *Builder {
	if batchSize <= 0 {
		batchSize = 50
	}
	if locale == "" {
		locale = "ja"
	}
	return &Builder{
		fetcher:   fetcher,
		table:     table,
		batchSize: batchSize,
		locale:    locale,
		log:       log.With().Str("component", "roster_builder").Logger(),
	}
}

// Build fetches IDs 1..roster_size and returns the successfully normalized
// members in ascending ID order. Per-member failures are logged and dropped;
// only cancellation of ctx fails the build.
func (b *Builder) Build(ctx context.Context) ([]CachedPokemon, BuildStats, error) {
	start := time.Now()
	n := b.table.RosterSize

	b.log.Info().
		Int("roster_size", n).
		Int("batch_size", b.batchSize).
		Str("locale", b.locale).
		Msg("Building roster cache")

	results := make([]fetchResult, n)
	var completed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(b.batchSize)

	for id := 1; id <= n; id++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[id-1] = b.fetchOne(ctx, id)

			if done := completed.Add(1); done%int64(b.batchSize) == 0 || done == int64(n) {
				b.log.Debug().
					Int64("completed", done).
					Int("total", n).
					Msg("Roster build progress")
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, BuildStats{}, fmt.Errorf("roster build cancelled: %w", err)
	}

	members := make([]CachedPokemon, 0, n)
	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			b.log.Warn().
				Err(r.err).
				Int("id", i+1).
				Msg("Failed to fetch roster member, skipping")
			continue
		}
		members = append(members, r.member)
	}

	stats := BuildStats{
		Requested:  n,
		Cached:     len(members),
		Failed:     failed,
		DurationMs: time.Since(start).Milliseconds(),
		BuiltAt:    time.Now(),
	}

	b.log.Info().
		Int("cached", stats.Cached).
		Int("failed", stats.Failed).
		Int64("duration_ms", stats.DurationMs).
		Msg("Roster cache built")

	return members, stats, nil
}

// fetchOne fetches the base and species records of one member concurrently
func (b *Builder) fetchOne(ctx context.Context, id int) fetchResult {
	p, species, err := fetchPair(ctx, b.fetcher, id)
	if err != nil {
		return fetchResult{err: err}
	}
	return fetchResult{member: normalize(p, species, b.locale, b.table)}
}

func fetchPair(ctx context.Context, fetcher Fetcher, id int) (*pokeapi.Pokemon, *pokeapi.PokemonSpecies, error) {
	var (
		p       *pokeapi.Pokemon
		species *pokeapi.PokemonSpecies
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = fetcher.GetPokemon(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		species, err = fetcher.GetPokemonSpecies(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return p, species, nil
}
