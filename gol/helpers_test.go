package gol

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"
)

// runGroup runs fn once per rank of a fresh in-process group.
func runGroup(t *testing.T, size int, fn func(ctx context.Context, c Communicator) error) error {
	t.Helper()
	g, ctx := errgroup.WithContext(context.Background())
	for _, c := range NewLocalGroup(size) {
		c := c
		g.Go(func() error { return fn(ctx, c) })
	}
	return g.Wait()
}

// seededGrid builds the grid a run with seeds starts from.
func seededGrid(t *testing.T, geom Geometry, seeds []int64) Grid {
	t.Helper()
	parts := make([][]Cell, geom.Workers)
	for rank := range parts {
		p := NewPartition(geom, rank)
		p.Seed(seeds[rank])
		parts[rank] = p.Cells()
	}
	grid, err := Assemble(geom, parts)
	if err != nil {
		t.Fatal(err)
	}
	return grid
}

// sequentialStep is the golden reference: one generation on the whole
// grid with no partitioning.
func sequentialStep(world Grid, rule Rule) Grid {
	next := NewGrid(world.Rows, world.Cols)
	for r := 0; r < world.Rows; r++ {
		for c := 0; c < world.Cols; c++ {
			count := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nc := (c + dc + world.Cols) % world.Cols
					nr := (r + dr + world.Rows) % world.Rows
					if world.Alive(nc, nr) {
						count++
					}
				}
			}
			next.Set(c, r, count >= rule.Min && count <= rule.Max)
		}
	}
	return next
}

// gridQuery answers from a fixed grid and records every lookup.
type gridQuery struct {
	grid  Grid
	calls [][2]int
}

func (q *gridQuery) Prepare(context.Context) error { return nil }

func (q *gridQuery) State(_ context.Context, col, row int) (bool, error) {
	q.calls = append(q.calls, [2]int{col, row})
	return q.grid.Alive(col, row), nil
}
