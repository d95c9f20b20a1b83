package gol

import (
	"errors"
	"fmt"
	"io"
	"log"
)

var (
	// ErrConfig marks a grid, worker or generation setting that cannot run.
	ErrConfig = errors.New("invalid configuration")
	// ErrCoordinate marks a cell lookup outside the grid.
	ErrCoordinate = errors.New("coordinate out of range")
	// ErrComm marks a failed exchange between workers.
	ErrComm = errors.New("communication failure")
	// ErrNotAdjacent is returned by HaloQuery for columns it holds no copy of.
	ErrNotAdjacent = errors.New("column not held locally")
)

// Params provides the details of how to run the simulation.
type Params struct {
	Rows        int
	Cols        int
	Workers     int
	Generations int
	// PrintEvery is the render period in generations; 0 disables
	// periodic snapshots.
	PrintEvery int
	Rule       Rule
	// Seeds fixes the per-worker seeds. When nil, rank 0 draws them from
	// the clock.
	Seeds []int64
}

// Validate reports whether p describes a runnable simulation.
func (p Params) Validate() error {
	if err := checkGenerations(p.Generations); err != nil {
		return err
	}
	return p.validateGrid()
}

// validateGrid checks everything but the generation count, which rank 0
// may learn only after startup.
func (p Params) validateGrid() error {
	if _, err := NewGeometry(p.Rows, p.Cols, p.Workers); err != nil {
		return err
	}
	if p.PrintEvery < 0 {
		return fmt.Errorf("%w: print period %d is negative", ErrConfig, p.PrintEvery)
	}
	if p.Seeds != nil && len(p.Seeds) != p.Workers {
		return fmt.Errorf("%w: %d seeds for %d workers", ErrConfig, len(p.Seeds), p.Workers)
	}
	return p.Rule.validate()
}

func checkGenerations(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: generation count %d must be positive", ErrConfig, n)
	}
	return nil
}

// Protocol selects how workers learn the state of cells they do not own.
type Protocol int

const (
	// Halo exchanges the two boundary columns with the neighbouring ranks
	// once per generation.
	Halo Protocol = iota
	// Collective runs a lock-step all-gather for every single lookup.
	Collective
)

func (p Protocol) String() string {
	switch p {
	case Halo:
		return "halo"
	case Collective:
		return "collective"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// ParseProtocol maps a flag value onto a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch s {
	case "halo":
		return Halo, nil
	case "collective":
		return Collective, nil
	}
	return 0, fmt.Errorf("%w: unknown protocol %q", ErrConfig, s)
}

// Options carries the per-run collaborators that are not part of the grid
// itself.
type Options struct {
	Protocol Protocol
	// Out receives rendered snapshots on rank 0. Nil discards them.
	Out io.Writer
	// Logger receives progress lines. Nil discards them.
	Logger *log.Logger
	// Prompt supplies the generation count on rank 0 when
	// Params.Generations is zero.
	Prompt func() (int, error)
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

func (o Options) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return io.Discard
}
