package gol

import (
	"context"
	"fmt"
)

// Query answers the current state of any global cell for one worker.
// Prepare runs once per generation, after the barrier and before the
// first State call. Both are collective for the whole group.
type Query interface {
	Prepare(ctx context.Context) error
	State(ctx context.Context, col, row int) (bool, error)
}

// NewQuery builds the query for proto over part.
func NewQuery(proto Protocol, c Communicator, g Geometry, part *Partition) (Query, error) {
	switch proto {
	case Halo:
		return &HaloQuery{comm: c, geom: g, part: part}, nil
	case Collective:
		return &CollectiveQuery{comm: c, geom: g, part: part}, nil
	}
	return nil, fmt.Errorf("%w: unknown protocol %v", ErrConfig, proto)
}

// CollectiveQuery resolves every lookup with two all-gather rounds: each
// worker publishes the coordinate it wants, then each owner publishes the
// bit for every request it owns. All workers must call State the same
// number of times in the same order.
type CollectiveQuery struct {
	comm Communicator
	geom Geometry
	part *Partition
}

func (q *CollectiveQuery) Prepare(context.Context) error { return nil }

func (q *CollectiveQuery) State(ctx context.Context, col, row int) (bool, error) {
	rangeErr := q.geom.Check(col, row)

	reqs, err := q.comm.AllGather(ctx, Message{Ints: []int64{int64(col), int64(row)}})
	if err != nil {
		return false, err
	}
	answers := make([]bool, len(reqs))
	for j, r := range reqs {
		if len(r.Ints) != 2 {
			return false, fmt.Errorf("%w: rank %d sent a malformed query", ErrComm, j)
		}
		c, rw := int(r.Ints[0]), int(r.Ints[1])
		if q.geom.Check(c, rw) == nil && q.part.Owns(c) {
			answers[j] = q.part.Alive(c, rw)
		}
	}
	resps, err := q.comm.AllGather(ctx, Message{Bits: answers})
	if err != nil {
		return false, err
	}

	// The range check waits until both rounds are done so that the other
	// workers are not left blocked in them.
	if rangeErr != nil {
		return false, rangeErr
	}
	owner := q.geom.OwnerOf(col)
	bits := resps[owner].Bits
	if len(bits) != len(reqs) {
		return false, fmt.Errorf("%w: rank %d answered %d of %d queries", ErrComm, owner, len(bits), len(reqs))
	}
	return bits[q.comm.Rank()], nil
}

// HaloQuery keeps copies of the column just left and just right of the
// owned range, refreshed point to point with the neighbouring ranks.
type HaloQuery struct {
	comm Communicator
	geom Geometry
	part *Partition

	left  []bool
	right []bool
}

// Prepare sends the first owned column left and the last one right, and
// receives the matching columns from both neighbours. The ring wraps.
func (q *HaloQuery) Prepare(ctx context.Context) error {
	rank, size := q.comm.Rank(), q.comm.Size()
	leftRank := mod(rank-1, size)
	rightRank := mod(rank+1, size)

	if err := q.comm.Send(ctx, leftRank, tagToLeft, Message{Bits: q.part.Column(0)}); err != nil {
		return err
	}
	if err := q.comm.Send(ctx, rightRank, tagToRight, Message{Bits: q.part.Column(q.geom.ColsPerWorker - 1)}); err != nil {
		return err
	}

	fromRight, err := q.comm.Recv(ctx, rightRank, tagToLeft)
	if err != nil {
		return err
	}
	fromLeft, err := q.comm.Recv(ctx, leftRank, tagToRight)
	if err != nil {
		return err
	}
	if len(fromLeft.Bits) != q.geom.Rows || len(fromRight.Bits) != q.geom.Rows {
		return fmt.Errorf("%w: halo columns of %d and %d rows, want %d",
			ErrComm, len(fromLeft.Bits), len(fromRight.Bits), q.geom.Rows)
	}
	q.left, q.right = fromLeft.Bits, fromRight.Bits
	return nil
}

func (q *HaloQuery) State(_ context.Context, col, row int) (bool, error) {
	if err := q.geom.Check(col, row); err != nil {
		return false, err
	}
	if q.part.Owns(col) {
		return q.part.Alive(col, row), nil
	}
	if q.left == nil {
		return false, fmt.Errorf("%w: halo columns not exchanged yet", ErrComm)
	}
	first, last := q.geom.Range(q.comm.Rank())
	switch col {
	case mod(first-1, q.geom.Cols):
		return q.left[row], nil
	case mod(last, q.geom.Cols):
		return q.right[row], nil
	}
	return false, fmt.Errorf("%w: column %d from rank %d", ErrNotAdjacent, col, q.comm.Rank())
}
