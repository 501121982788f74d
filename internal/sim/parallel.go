package sim

import (
	"context"

	"github.com/san-kum/galaxysim/internal/config"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same configuration under consecutive seeds.
type Ensemble struct {
	base      *config.Config
	numRuns   int
	seedStart uint64
	limit     int
}

// NewEnsemble prepares numRuns runs seeded from seedStart. At most limit
// run concurrently; limit <= 0 means no bound.
func NewEnsemble(base *config.Config, numRuns int, seedStart uint64, limit int) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart, limit: limit}
}

// Run returns one result per seed, in seed order. Each member uses the
// serial backend so members do not compete for workers.
func (e *Ensemble) Run(ctx context.Context, opts ...Option) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfg := *e.base
			cfg.Seed = e.seedStart + uint64(idx)
			cfg.Backend = "serial"

			s, err := New(&cfg, opts...)
			if err != nil {
				return err
			}
			if err := s.InitializeStates(); err != nil {
				return err
			}
			results[idx], err = s.Run(ctx, 0)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
