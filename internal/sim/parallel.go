package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fluidsim/internal/config"
)

// Ensemble runs independent simulations concurrently, one per config.
type Ensemble struct {
	configs []*config.SimulationConfig
	ticks   int
	opts    func(i int) []Option
	limit   int
}

// NewEnsemble builds an ensemble. opts, if non-nil, supplies per-run options
// so that metrics are never shared between goroutines.
func NewEnsemble(configs []*config.SimulationConfig, ticks int, opts func(i int) []Option) *Ensemble {
	return &Ensemble{configs: configs, ticks: ticks, opts: opts, limit: -1}
}

// SetLimit caps the number of simulations running at once.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, cfg := range e.configs {
		g.Go(func() error {
			var opts []Option
			if e.opts != nil {
				opts = e.opts(i)
			}
			s, err := New(cfg, opts...)
			if err != nil {
				return err
			}
			results[i], err = s.Run(ctx, e.ticks)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
