package gol

import (
	"context"
	"fmt"
)

// Rule gives a cell life next generation when its live neighbour count is
// in [Min, Max]. One threshold serves both birth and survival.
type Rule struct {
	Min int
	Max int
}

// DefaultRule is the 3..5 variant.
var DefaultRule = Rule{Min: 3, Max: 5}

// Next reports the next state for a cell with count live neighbours. The
// cell's current state does not matter.
func (r Rule) Next(count int) bool {
	return count >= r.Min && count <= r.Max
}

func (r Rule) String() string {
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

func (r Rule) orDefault() Rule {
	if r == (Rule{}) {
		return DefaultRule
	}
	return r
}

func (r Rule) validate() error {
	r = r.orDefault()
	if r.Min < 0 || r.Max > 8 || r.Min > r.Max {
		return fmt.Errorf("%w: rule %v outside 0..8", ErrConfig, r)
	}
	return nil
}

// neighbourOffsets lists the 3x3 block around a cell minus the centre.
var neighbourOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the eight wrapped coordinates around (col, row) as
// {col, row} pairs.
func Neighbors(g Geometry, col, row int) [8][2]int {
	var out [8][2]int
	for i, o := range neighbourOffsets {
		c, r := g.Wrap(col+o[0], row+o[1])
		out[i] = [2]int{c, r}
	}
	return out
}

// NeighborLiveCount counts live cells among the eight neighbours of
// (col, row).
func NeighborLiveCount(ctx context.Context, q Query, g Geometry, col, row int) (int, error) {
	if err := g.Check(col, row); err != nil {
		return 0, err
	}
	count := 0
	for _, n := range Neighbors(g, col, row) {
		alive, err := q.State(ctx, n[0], n[1])
		if err != nil {
			return 0, err
		}
		if alive {
			count++
		}
	}
	return count, nil
}

// DetermineState returns the next generation's state for (col, row).
func DetermineState(ctx context.Context, q Query, g Geometry, rule Rule, col, row int) (bool, error) {
	count, err := NeighborLiveCount(ctx, q, g, col, row)
	if err != nil {
		return false, err
	}
	return rule.orDefault().Next(count), nil
}
