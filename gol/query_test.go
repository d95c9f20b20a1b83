package gol

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func seededPartition(g Geometry, rank int, seeds []int64) *Partition {
	p := NewPartition(g, rank)
	p.Seed(seeds[rank])
	return p
}

func TestCollectiveQueryCrossesBoundary(t *testing.T) {
	g, _ := NewGeometry(8, 8, 2)
	seeds := []int64{11, 12}
	owner := seededPartition(g, 1, seeds)

	err := runGroup(t, 2, func(ctx context.Context, c Communicator) error {
		q := &CollectiveQuery{comm: c, geom: g, part: seededPartition(g, c.Rank(), seeds)}
		for r := 0; r < g.Rows; r++ {
			// Rank 0 reaches across the boundary; rank 1 asks about its own cell.
			got, err := q.State(ctx, 5, r)
			if err != nil {
				return err
			}
			if want := owner.Alive(5, r); got != want {
				return fmt.Errorf("rank %d: (5,%d) = %v, want %v", c.Rank(), r, got, want)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCollectiveQueryDifferentCoordinates(t *testing.T) {
	g, _ := NewGeometry(4, 8, 4)
	seeds := []int64{1, 2, 3, 4}
	truth := seededGrid(t, g, seeds)

	err := runGroup(t, 4, func(ctx context.Context, c Communicator) error {
		q := &CollectiveQuery{comm: c, geom: g, part: seededPartition(g, c.Rank(), seeds)}
		for i := 0; i < g.Cols*g.Rows; i++ {
			col := (i + 3*c.Rank()) % g.Cols
			row := (i / g.Cols) % g.Rows
			first, err := q.State(ctx, col, row)
			if err != nil {
				return err
			}
			second, err := q.State(ctx, col, row)
			if err != nil {
				return err
			}
			if first != second {
				return fmt.Errorf("rank %d: (%d,%d) answered %v then %v", c.Rank(), col, row, first, second)
			}
			if first != truth.Alive(col, row) {
				return fmt.Errorf("rank %d: (%d,%d) = %v, want %v", c.Rank(), col, row, first, truth.Alive(col, row))
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCollectiveQueryOutOfRange(t *testing.T) {
	g, _ := NewGeometry(8, 8, 2)
	seeds := []int64{5, 6}
	errs := make([]error, 2)
	err := runGroup(t, 2, func(ctx context.Context, c Communicator) error {
		q := &CollectiveQuery{comm: c, geom: g, part: seededPartition(g, c.Rank(), seeds)}
		col := 2
		if c.Rank() == 1 {
			col = 8
		}
		_, errs[c.Rank()] = q.State(ctx, col, 0)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if errs[0] != nil {
		t.Errorf("rank 0: %v", errs[0])
	}
	if !errors.Is(errs[1], ErrCoordinate) {
		t.Errorf("rank 1: got %v, want ErrCoordinate", errs[1])
	}
}

func TestHaloQueryGhostColumns(t *testing.T) {
	for _, workers := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			g, _ := NewGeometry(6, 8, workers)
			seeds := GenerateSeeds(workers, int64(workers))
			truth := seededGrid(t, g, seeds)

			err := runGroup(t, workers, func(ctx context.Context, c Communicator) error {
				q := &HaloQuery{comm: c, geom: g, part: seededPartition(g, c.Rank(), seeds)}
				if _, err := q.State(ctx, mod(g.ToGlobal(c.Rank(), 0)-1, g.Cols), 0); workers > 1 && !errors.Is(err, ErrComm) {
					return fmt.Errorf("rank %d: lookup before exchange gave %v", c.Rank(), err)
				}
				if err := q.Prepare(ctx); err != nil {
					return err
				}
				first, last := g.Range(c.Rank())
				for col := first - 1; col <= last; col++ {
					wc, _ := g.Wrap(col, 0)
					for r := 0; r < g.Rows; r++ {
						got, err := q.State(ctx, wc, r)
						if err != nil {
							return err
						}
						if got != truth.Alive(wc, r) {
							return fmt.Errorf("rank %d: (%d,%d) = %v, want %v", c.Rank(), wc, r, got, truth.Alive(wc, r))
						}
					}
				}
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestHaloQueryRejectsFarColumns(t *testing.T) {
	g, _ := NewGeometry(8, 8, 2)
	seeds := []int64{1, 2}
	err := runGroup(t, 2, func(ctx context.Context, c Communicator) error {
		q := &HaloQuery{comm: c, geom: g, part: seededPartition(g, c.Rank(), seeds)}
		if err := q.Prepare(ctx); err != nil {
			return err
		}
		if c.Rank() != 0 {
			return nil
		}
		if _, err := q.State(ctx, 5, 0); !errors.Is(err, ErrNotAdjacent) {
			return fmt.Errorf("col 5 from rank 0: got %v, want ErrNotAdjacent", err)
		}
		if _, err := q.State(ctx, 0, 8); !errors.Is(err, ErrCoordinate) {
			return fmt.Errorf("row 8: got %v, want ErrCoordinate", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
