package typechart

import (
	"context"
	"fmt"
	"sync"

	"github.com/partydex/partydex/internal/clients/pokeapi"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TypeFetcher is the subset of the upstream client the matrix needs
type TypeFetcher interface {
	GetType(ctx context.Context, name string) (*pokeapi.TypeData, error)
}

// Builder fetches the damage relations of all types and builds a Matrix
type Builder struct {
	fetcher TypeFetcher
	log     zerolog.Logger
}

// NewBuilder creates a matrix builder
func NewBuilder(fetcher TypeFetcher, log zerolog.Logger) *Builder {
	return &Builder{
		fetcher: fetcher,
		log:     log.With().Str("component", "type_matrix_builder").Logger(),
	}
}

// Build fetches all 18 types concurrently. Any single failure fails the build.
func (b *Builder) Build(ctx context.Context) (*Matrix, error) {
	b.log.Info().Int("types", NumTypes).Msg("Building type effectiveness matrix")

	var mu sync.Mutex
	relations := make(map[string]*pokeapi.TypeData, NumTypes)

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range AllTypes {
		g.Go(func() error {
			data, err := b.fetcher.GetType(gctx, name)
			if err != nil {
				return fmt.Errorf("type %s: %w", name, err)
			}
			mu.Lock()
			relations[name] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build type matrix: %w", err)
	}

	matrix, err := NewMatrixFromRelations(relations)
	if err != nil {
		return nil, fmt.Errorf("failed to build type matrix: %w", err)
	}

	b.log.Info().Msg("Type effectiveness matrix built")
	return matrix, nil
}
