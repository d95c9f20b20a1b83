package gol

import "math/rand"

// Cell is one grid square. Row and Col are global coordinates even though
// the cell is stored only by its owner.
type Cell struct {
	Alive bool
	// Born is the generation in which the cell last came alive.
	Born int
	Row  int
	Col  int
}

// Partition is one worker's columns, double buffered. Cells are laid out
// column by column: local column c, row r lives at c*rows + r.
type Partition struct {
	geom Geometry
	rank int
	cur  []Cell
	next []Cell
}

// NewPartition allocates both buffers for rank and stamps global
// coordinates into them.
func NewPartition(g Geometry, rank int) *Partition {
	n := g.ColsPerWorker * g.Rows
	p := &Partition{
		geom: g,
		rank: rank,
		cur:  make([]Cell, n),
		next: make([]Cell, n),
	}
	for c := 0; c < g.ColsPerWorker; c++ {
		for r := 0; r < g.Rows; r++ {
			i := c*g.Rows + r
			col := g.ToGlobal(rank, c)
			p.cur[i] = Cell{Row: r, Col: col}
			p.next[i] = Cell{Row: r, Col: col}
		}
	}
	return p
}

// Seed fills the current buffer with coin flips drawn from seed.
func (p *Partition) Seed(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range p.cur {
		p.cur[i].Alive = rng.Intn(2) == 0
		p.cur[i].Born = 0
	}
}

// Rank returns the owning worker.
func (p *Partition) Rank() int { return p.rank }

// Owns reports whether global column col is stored here.
func (p *Partition) Owns(col int) bool {
	first, last := p.geom.Range(p.rank)
	return col >= first && col < last
}

// Alive returns the current state of an owned cell.
func (p *Partition) Alive(col, row int) bool {
	return p.cur[p.index(col, row)].Alive
}

// SetNext records the next-generation state of an owned cell.
func (p *Partition) SetNext(col, row int, alive bool, gen int) {
	i := p.index(col, row)
	born := p.cur[i].Born
	if alive && !p.cur[i].Alive {
		born = gen
	}
	p.next[i].Alive = alive
	p.next[i].Born = born
}

// Swap promotes the next buffer to current.
func (p *Partition) Swap() {
	p.cur, p.next = p.next, p.cur
}

// Column copies the alive bits of owned local column local.
func (p *Partition) Column(local int) []bool {
	rows := p.geom.Rows
	out := make([]bool, rows)
	for r, c := range p.cur[local*rows : (local+1)*rows] {
		out[r] = c.Alive
	}
	return out
}

// Cells copies the current buffer.
func (p *Partition) Cells() []Cell {
	out := make([]Cell, len(p.cur))
	copy(out, p.cur)
	return out
}

// LiveCount returns the number of live cells in the current buffer.
func (p *Partition) LiveCount() int {
	n := 0
	for _, c := range p.cur {
		if c.Alive {
			n++
		}
	}
	return n
}

func (p *Partition) index(col, row int) int {
	return p.geom.ToLocal(col)*p.geom.Rows + row
}
