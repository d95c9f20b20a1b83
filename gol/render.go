package gol

import (
	"bufio"
	"fmt"
	"io"
)

// Grid is a full snapshot assembled on the coordinator. It is a copy for
// display only; workers never read it.
type Grid struct {
	Rows  int
	Cols  int
	cells []bool
}

// NewGrid returns an all-dead grid.
func NewGrid(rows, cols int) Grid {
	return Grid{Rows: rows, Cols: cols, cells: make([]bool, rows*cols)}
}

func (g Grid) Alive(col, row int) bool {
	return g.cells[row*g.Cols+col]
}

func (g Grid) Set(col, row int, alive bool) {
	g.cells[row*g.Cols+col] = alive
}

// LiveCount returns the number of live cells.
func (g Grid) LiveCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have the same shape and cells.
func (g Grid) Equal(o Grid) bool {
	if g.Rows != o.Rows || g.Cols != o.Cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Assemble places gathered partitions into a grid using each cell's own
// coordinates.
func Assemble(geom Geometry, parts [][]Cell) (Grid, error) {
	grid := NewGrid(geom.Rows, geom.Cols)
	seen := 0
	for rank, cells := range parts {
		for _, c := range cells {
			if err := geom.Check(c.Col, c.Row); err != nil {
				return Grid{}, err
			}
			if geom.OwnerOf(c.Col) != rank {
				return Grid{}, fmt.Errorf("%w: rank %d sent column %d", ErrComm, rank, c.Col)
			}
			grid.Set(c.Col, c.Row, c.Alive)
			seen++
		}
	}
	if seen != geom.Rows*geom.Cols {
		return Grid{}, fmt.Errorf("%w: gathered %d of %d cells", ErrComm, seen, geom.Rows*geom.Cols)
	}
	return grid, nil
}

// Render writes a "Generation n" header followed by one line per row, X for
// alive and 0 for dead.
func Render(w io.Writer, gen int, g Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Generation %d\n", gen)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.Alive(c, r) {
				bw.WriteString("X ")
			} else {
				bw.WriteString("0 ")
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
