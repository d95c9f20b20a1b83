package gol

import (
	"context"
	"fmt"
	"sync"
)

type round struct {
	msgs    []Message
	arrived []bool
	count   int
	done    chan struct{}
}

func newRound(size int) *round {
	return &round{
		msgs:    make([]Message, size),
		arrived: make([]bool, size),
		done:    make(chan struct{}),
	}
}

type mailKey struct {
	from, to int
	tag      Tag
}

// Hub is the meeting point for a fixed group of ranks. It runs all-gather
// rounds and holds tagged point-to-point mailboxes. Every blocking call
// returns early when its context ends or the hub is closed.
type Hub struct {
	size int

	mu     sync.Mutex
	round  *round
	boxes  map[mailKey]chan Message
	closed chan struct{}
	once   sync.Once
}

// NewHub creates a hub for size ranks.
func NewHub(size int) *Hub {
	return &Hub{
		size:   size,
		round:  newRound(size),
		boxes:  make(map[mailKey]chan Message),
		closed: make(chan struct{}),
	}
}

// Size returns the number of ranks the hub serves.
func (h *Hub) Size() int { return h.size }

// Close wakes every blocked caller with an ErrComm error.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.closed) })
}

// AllGather deposits rank's message and waits for the rest of the group.
func (h *Hub) AllGather(ctx context.Context, rank int, m Message) ([]Message, error) {
	if err := h.checkRank(rank); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: all-gather on rank %d: %v", ErrComm, rank, err)
	}
	h.mu.Lock()
	r := h.round
	if r.arrived[rank] {
		h.mu.Unlock()
		return nil, fmt.Errorf("%w: rank %d joined the same round twice", ErrComm, rank)
	}
	r.arrived[rank] = true
	r.msgs[rank] = m
	r.count++
	if r.count == h.size {
		h.round = newRound(h.size)
		close(r.done)
	}
	h.mu.Unlock()

	select {
	case <-r.done:
		out := make([]Message, len(r.msgs))
		copy(out, r.msgs)
		return out, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: all-gather on rank %d: %v", ErrComm, rank, ctx.Err())
	case <-h.closed:
		return nil, fmt.Errorf("%w: hub closed", ErrComm)
	}
}

// Send queues m for to. It blocks only while the previous message of the
// same stream is still unread.
func (h *Hub) Send(ctx context.Context, from, to int, tag Tag, m Message) error {
	if err := h.checkRank(from); err != nil {
		return err
	}
	if err := h.checkRank(to); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: send %d->%d: %v", ErrComm, from, to, err)
	}
	select {
	case h.box(from, to, tag) <- m:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: send %d->%d: %v", ErrComm, from, to, ctx.Err())
	case <-h.closed:
		return fmt.Errorf("%w: hub closed", ErrComm)
	}
}

// Recv waits for the next message on the (from, to, tag) stream.
func (h *Hub) Recv(ctx context.Context, from, to int, tag Tag) (Message, error) {
	if err := h.checkRank(from); err != nil {
		return Message{}, err
	}
	if err := h.checkRank(to); err != nil {
		return Message{}, err
	}
	if err := ctx.Err(); err != nil {
		return Message{}, fmt.Errorf("%w: recv %d->%d: %v", ErrComm, from, to, err)
	}
	select {
	case m := <-h.box(from, to, tag):
		return m, nil
	case <-ctx.Done():
		return Message{}, fmt.Errorf("%w: recv %d->%d: %v", ErrComm, from, to, ctx.Err())
	case <-h.closed:
		return Message{}, fmt.Errorf("%w: hub closed", ErrComm)
	}
}

func (h *Hub) box(from, to int, tag Tag) chan Message {
	k := mailKey{from: from, to: to, tag: tag}
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.boxes[k]
	if !ok {
		b = make(chan Message, 1)
		h.boxes[k] = b
	}
	return b
}

func (h *Hub) checkRank(rank int) error {
	if rank < 0 || rank >= h.size {
		return fmt.Errorf("%w: rank %d outside group of %d", ErrComm, rank, h.size)
	}
	return nil
}

// LocalComm is a rank handle on a hub in the same process.
type LocalComm struct {
	hub  *Hub
	rank int
}

// NewLocalGroup returns one communicator per rank, all sharing a new hub.
func NewLocalGroup(size int) []*LocalComm {
	h := NewHub(size)
	comms := make([]*LocalComm, size)
	for i := range comms {
		comms[i] = &LocalComm{hub: h, rank: i}
	}
	return comms
}

func (c *LocalComm) Rank() int { return c.rank }
func (c *LocalComm) Size() int { return c.hub.Size() }

func (c *LocalComm) AllGather(ctx context.Context, m Message) ([]Message, error) {
	return c.hub.AllGather(ctx, c.rank, m)
}

func (c *LocalComm) Send(ctx context.Context, to int, tag Tag, m Message) error {
	return c.hub.Send(ctx, c.rank, to, tag, m)
}

func (c *LocalComm) Recv(ctx context.Context, from int, tag Tag) (Message, error) {
	return c.hub.Recv(ctx, from, c.rank, tag)
}
