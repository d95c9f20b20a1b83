package gol

import "fmt"

// Geometry is the fixed grid shape and its column split across workers.
// Every worker must hold an identical Geometry.
type Geometry struct {
	Rows          int
	Cols          int
	Workers       int
	ColsPerWorker int
}

// NewGeometry validates the grid against the worker count.
func NewGeometry(rows, cols, workers int) (Geometry, error) {
	if rows <= 0 || cols <= 0 {
		return Geometry{}, fmt.Errorf("%w: grid %dx%d must be non-empty", ErrConfig, rows, cols)
	}
	if workers <= 0 {
		return Geometry{}, fmt.Errorf("%w: worker count %d must be positive", ErrConfig, workers)
	}
	if cols%workers != 0 {
		return Geometry{}, fmt.Errorf("%w: %d columns do not divide across %d workers", ErrConfig, cols, workers)
	}
	return Geometry{
		Rows:          rows,
		Cols:          cols,
		Workers:       workers,
		ColsPerWorker: cols / workers,
	}, nil
}

// OwnerOf returns the rank owning global column col.
func (g Geometry) OwnerOf(col int) int {
	return col / g.ColsPerWorker
}

// ToLocal returns the offset of col within its owner's partition.
func (g Geometry) ToLocal(col int) int {
	return col % g.ColsPerWorker
}

// ToGlobal is the inverse of OwnerOf and ToLocal.
func (g Geometry) ToGlobal(rank, local int) int {
	return rank*g.ColsPerWorker + local
}

// Range returns the half-open column range owned by rank.
func (g Geometry) Range(rank int) (first, last int) {
	return rank * g.ColsPerWorker, (rank + 1) * g.ColsPerWorker
}

// Wrap maps any coordinate onto the torus.
func (g Geometry) Wrap(col, row int) (int, int) {
	return mod(col, g.Cols), mod(row, g.Rows)
}

// Check returns an ErrCoordinate error for coordinates off the grid.
func (g Geometry) Check(col, row int) error {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrCoordinate, col, row, g.Cols, g.Rows)
	}
	return nil
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
