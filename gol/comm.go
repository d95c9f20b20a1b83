package gol

import (
	"context"
	"fmt"
)

// Message is the unit every worker exchange carries. Only the fields an
// operation needs are set.
type Message struct {
	Ints  []int64
	Bits  []bool
	Cells []Cell
}

// Tag separates point-to-point streams between the same pair of ranks.
type Tag int

const (
	tagBroadcast Tag = iota
	tagScatter
	tagGather
	// tagToLeft carries a worker's first column to its left neighbour.
	tagToLeft
	// tagToRight carries a worker's last column to its right neighbour.
	tagToRight
)

// Communicator is one rank's handle on the worker group. AllGather is
// collective: it returns only once every rank has called it. Send and
// Recv pair up by (from, to, tag).
type Communicator interface {
	Rank() int
	Size() int
	AllGather(ctx context.Context, m Message) ([]Message, error)
	Send(ctx context.Context, to int, tag Tag, m Message) error
	Recv(ctx context.Context, from int, tag Tag) (Message, error)
}

// Barrier blocks until every rank reaches it.
func Barrier(ctx context.Context, c Communicator) error {
	_, err := c.AllGather(ctx, Message{})
	return err
}

// Broadcast delivers root's v to every rank.
func Broadcast(ctx context.Context, c Communicator, root int, v int64) (int64, error) {
	if c.Rank() != root {
		m, err := c.Recv(ctx, root, tagBroadcast)
		if err != nil {
			return 0, err
		}
		if len(m.Ints) != 1 {
			return 0, fmt.Errorf("%w: broadcast carried %d values", ErrComm, len(m.Ints))
		}
		return m.Ints[0], nil
	}
	for to := 0; to < c.Size(); to++ {
		if to == root {
			continue
		}
		if err := c.Send(ctx, to, tagBroadcast, Message{Ints: []int64{v}}); err != nil {
			return 0, err
		}
	}
	return v, nil
}

// Scatter hands vals[i] from root to rank i. Only root's vals are read.
func Scatter(ctx context.Context, c Communicator, root int, vals []int64) (int64, error) {
	if c.Rank() != root {
		m, err := c.Recv(ctx, root, tagScatter)
		if err != nil {
			return 0, err
		}
		if len(m.Ints) != 1 {
			return 0, fmt.Errorf("%w: scatter carried %d values", ErrComm, len(m.Ints))
		}
		return m.Ints[0], nil
	}
	if len(vals) != c.Size() {
		return 0, fmt.Errorf("%w: scatter of %d values to %d ranks", ErrConfig, len(vals), c.Size())
	}
	for to := 0; to < c.Size(); to++ {
		if to == root {
			continue
		}
		if err := c.Send(ctx, to, tagScatter, Message{Ints: []int64{vals[to]}}); err != nil {
			return 0, err
		}
	}
	return vals[root], nil
}

// Gather collects every rank's cells on root, indexed by rank. Other ranks
// get nil.
func Gather(ctx context.Context, c Communicator, root int, cells []Cell) ([][]Cell, error) {
	if c.Rank() != root {
		return nil, c.Send(ctx, root, tagGather, Message{Cells: cells})
	}
	out := make([][]Cell, c.Size())
	out[root] = cells
	for from := 0; from < c.Size(); from++ {
		if from == root {
			continue
		}
		m, err := c.Recv(ctx, from, tagGather)
		if err != nil {
			return nil, err
		}
		out[from] = m.Cells
	}
	return out, nil
}
