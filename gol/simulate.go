package gol

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunLocal runs every worker of p as a goroutine in this process and
// returns rank 0's result. The first worker to fail cancels the others.
func RunLocal(ctx context.Context, p Params, o Options) (Result, error) {
	if p.Generations != 0 || o.Prompt == nil {
		if err := p.Validate(); err != nil {
			return Result{}, err
		}
	} else if err := p.validateGrid(); err != nil {
		return Result{}, err
	}

	comms := NewLocalGroup(p.Workers)
	workers := make([]*Worker, len(comms))
	for i, c := range comms {
		w, err := NewWorker(c, p, o)
		if err != nil {
			return Result{}, err
		}
		workers[i] = w
	}

	results := make([]Result, len(workers))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range workers {
		i, w := i, w
		g.Go(func() error {
			res, err := w.Run(gctx)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return results[0], nil
}
