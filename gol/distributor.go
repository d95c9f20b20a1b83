package gol

import (
	"context"
	"fmt"
	"log"
	"time"
)

// State is the controller's lifecycle stage.
type State int

const (
	Initializing State = iota
	Stepping
	Terminated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Stepping:
		return "Stepping"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is what a worker reports once its run ends.
type Result struct {
	Generations int
	// Final is the terminal grid. It is set on rank 0 only.
	Final *Grid
	Stats Stats
}

// Worker drives one rank's share of the simulation. It owns its partition
// and communicator; nothing outside it touches either during Run.
type Worker struct {
	comm   Communicator
	params Params
	opts   Options
	log    *log.Logger

	geom  Geometry
	rule  Rule
	part  *Partition
	query Query

	state State
	gen   int
	stats Stats
}

// NewWorker checks p against the group size and allocates the partition.
// p.Workers may be zero, in which case the group size is used.
func NewWorker(c Communicator, p Params, o Options) (*Worker, error) {
	if p.Workers == 0 {
		p.Workers = c.Size()
	}
	if p.Workers != c.Size() {
		return nil, fmt.Errorf("%w: configured for %d workers, group has %d", ErrConfig, p.Workers, c.Size())
	}
	if err := p.validateGrid(); err != nil {
		return nil, err
	}
	geom, err := NewGeometry(p.Rows, p.Cols, p.Workers)
	if err != nil {
		return nil, err
	}
	base := o.logger()
	w := &Worker{
		comm:   c,
		params: p,
		opts:   o,
		log:    log.New(base.Writer(), fmt.Sprintf("%s[Worker %d] ", base.Prefix(), c.Rank()), base.Flags()),
		geom:   geom,
		rule:   p.Rule.orDefault(),
		part:   NewPartition(geom, c.Rank()),
	}
	w.query, err = NewQuery(o.Protocol, c, geom, w.part)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Worker) State() State       { return w.state }
func (w *Worker) Generation() int    { return w.gen }
func (w *Worker) Geometry() Geometry { return w.geom }

// Run takes the worker from initialisation through the configured number
// of generations. Every rank of the group must call Run.
func (w *Worker) Run(ctx context.Context) (Result, error) {
	w.state = Initializing
	if err := w.agree(ctx); err != nil {
		return Result{}, err
	}
	gens, err := w.generations(ctx)
	if err != nil {
		return Result{}, err
	}
	seed, err := w.seed(ctx)
	if err != nil {
		return Result{}, err
	}
	w.part.Seed(seed)
	first, last := w.geom.Range(w.comm.Rank())
	w.log.Printf("owns columns [%d,%d), %d generations, %v protocol, rule %v",
		first, last, gens, w.opts.Protocol, w.rule)

	w.state = Stepping
	for w.gen < gens {
		if err := w.step(ctx); err != nil {
			return Result{}, fmt.Errorf("generation %d: %w", w.gen, err)
		}
	}

	final, err := w.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	if final != nil && w.params.PrintEvery > 0 && gens%w.params.PrintEvery == 0 {
		if err := Render(w.opts.out(), gens, *final); err != nil {
			return Result{}, err
		}
	}
	w.state = Terminated
	w.log.Printf("done: %v", w.stats.Summary())
	return Result{Generations: gens, Final: final, Stats: w.stats}, nil
}

// settingNames labels the values compared by agree, in order.
var settingNames = [...]string{"rows", "cols", "workers", "print period", "rule min", "rule max", "protocol"}

func (w *Worker) settings() []int64 {
	return []int64{
		int64(w.geom.Rows),
		int64(w.geom.Cols),
		int64(w.geom.Workers),
		int64(w.params.PrintEvery),
		int64(w.rule.Min),
		int64(w.rule.Max),
		int64(w.opts.Protocol),
	}
}

// agree checks that every rank was started with rank 0's grid, render
// period, rule and protocol. All ranks see the same gathered values, so a
// mismatch fails every rank before any seed is drawn.
func (w *Worker) agree(ctx context.Context) error {
	msgs, err := w.comm.AllGather(ctx, Message{Ints: w.settings()})
	if err != nil {
		return err
	}
	for rank, m := range msgs {
		if len(m.Ints) != len(settingNames) {
			return fmt.Errorf("%w: rank %d sent %d settings", ErrComm, rank, len(m.Ints))
		}
	}
	want := msgs[0].Ints
	for rank, m := range msgs[1:] {
		for i, v := range m.Ints {
			if v != want[i] {
				return fmt.Errorf("%w: rank %d has %s %d, rank 0 has %d",
					ErrConfig, rank+1, settingNames[i], v, want[i])
			}
		}
	}
	return nil
}

// generations agrees the run length. Rank 0 decides and broadcasts; an
// unusable value is still broadcast so every rank fails the same way.
func (w *Worker) generations(ctx context.Context) (int, error) {
	n := int64(w.params.Generations)
	var promptErr error
	if w.comm.Rank() == 0 && n == 0 {
		if w.opts.Prompt == nil {
			promptErr = fmt.Errorf("%w: no generation count and no prompt", ErrConfig)
		} else {
			var v int
			v, promptErr = w.opts.Prompt()
			n = int64(v)
		}
		if promptErr != nil {
			n = -1
		}
	}
	n, err := Broadcast(ctx, w.comm, 0, n)
	if err != nil {
		return 0, err
	}
	if promptErr != nil {
		return 0, promptErr
	}
	if err := checkGenerations(int(n)); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (w *Worker) seed(ctx context.Context) (int64, error) {
	var seeds []int64
	if w.comm.Rank() == 0 {
		seeds = w.params.Seeds
		if seeds == nil {
			seeds = GenerateSeeds(w.comm.Size(), time.Now().UnixNano())
		}
	}
	return DistributeSeeds(ctx, w.comm, seeds)
}

func (w *Worker) step(ctx context.Context) error {
	start := time.Now()

	if pe := w.params.PrintEvery; pe > 0 && w.gen%pe == 0 {
		grid, err := w.snapshot(ctx)
		if err != nil {
			return err
		}
		if grid != nil {
			if err := Render(w.opts.out(), w.gen, *grid); err != nil {
				return err
			}
		}
	}

	if err := Barrier(ctx, w.comm); err != nil {
		return err
	}
	if err := w.query.Prepare(ctx); err != nil {
		return err
	}

	first, last := w.geom.Range(w.comm.Rank())
	for c := first; c < last; c++ {
		for r := 0; r < w.geom.Rows; r++ {
			alive, err := DetermineState(ctx, w.query, w.geom, w.rule, c, r)
			if err != nil {
				return err
			}
			w.part.SetNext(c, r, alive, w.gen+1)
		}
	}
	w.part.Swap()
	w.gen++

	live := w.part.LiveCount()
	w.stats.record(time.Since(start), live)
	w.log.Printf("generation %d complete, %d live cells owned", w.gen, live)
	return nil
}

// snapshot gathers every partition on rank 0. Other ranks get nil.
func (w *Worker) snapshot(ctx context.Context) (*Grid, error) {
	parts, err := Gather(ctx, w.comm, 0, w.part.Cells())
	if err != nil || parts == nil {
		return nil, err
	}
	grid, err := Assemble(w.geom, parts)
	if err != nil {
		return nil, err
	}
	return &grid, nil
}
