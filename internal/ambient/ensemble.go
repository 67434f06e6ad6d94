package ambient

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Ensemble simulates the same options under consecutive seeds in parallel.
type Ensemble struct {
	base      Options
	numRuns   int
	seedStart int64
}

func NewEnsemble(opts Options, numRuns int, seedStart int64) (*Ensemble, error) {
	if numRuns <= 0 {
		return nil, fmt.Errorf("ambient: ensemble needs at least one run, got %d", numRuns)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Ensemble{base: opts, numRuns: numRuns, seedStart: seedStart}, nil
}

// Seed returns the seed of run i.
func (e *Ensemble) Seed(i int) int64 { return e.seedStart + int64(i) }

// Run simulates every member for duration. Results are in seed order. The
// first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, duration time.Duration) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			opts := e.base
			opts.Seed = e.Seed(i)
			opts.GradientRand, opts.BarRand = nil, nil

			eng, err := New(opts, nil)
			if err != nil {
				return err
			}
			res, err := eng.Simulate(ctx, duration)
			if err != nil {
				return fmt.Errorf("seed %d: %w", opts.Seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
