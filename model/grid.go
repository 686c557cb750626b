package model

import (
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// ErrInvalidSize is returned when a grid side length is not positive
var ErrInvalidSize = errors.New("grid size must be positive")

// Grid represents the square game board. Adjacency wraps at the edges.
type Grid struct {
	size  int
	cells [][]bool
}

// Bounds is an inclusive rectangle of cell coordinates
type Bounds struct {
	MinX, MaxX, MinY, MaxY int
}

// Width returns the number of columns covered by b
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the number of rows covered by b
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// NewGrid creates a new all-dead grid of size x size
func NewGrid(size int) (*Grid, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "[NewGrid] got %d", size)
	}
	return newGrid(size), nil
}

func newGrid(size int) *Grid {
	cells := make([][]bool, size)
	for i := range cells {
		cells[i] = make([]bool, size)
	}
	return &Grid{size: size, cells: cells}
}

// GridFromRows builds a grid from a square 0/1 matrix
func GridFromRows(rows [][]int) (*Grid, error) {
	size := len(rows)
	if size == 0 {
		return nil, errors.Wrap(ErrInvalidSize, "[GridFromRows] no rows")
	}
	for y, row := range rows {
		if len(row) != size {
			return nil, errors.Errorf("[GridFromRows] row %d has %d columns, want %d", y, len(row), size)
		}
		for x, v := range row {
			if v != 0 && v != 1 {
				return nil, errors.Errorf("[GridFromRows] cell (%d,%d) has value %d, want 0 or 1", x, y, v)
			}
		}
	}

	g := newGrid(size)
	for y, row := range rows {
		for x, v := range row {
			g.cells[y][x] = v == 1
		}
	}
	return g, nil
}

// Size returns the side length of the grid
func (g *Grid) Size() int {
	return g.size
}

// Reset resets the grid to new dimensions, reusing rows where possible
func (g *Grid) Reset(size int) {
	g.size = size

	if len(g.cells) != size {
		g.cells = make([][]bool, size)
	}
	for i := range g.cells {
		if len(g.cells[i]) != size {
			g.cells[i] = make([]bool, size)
		} else {
			clear(g.cells[i])
		}
	}
}

// Clear clears all cells
func (g *Grid) Clear() {
	for y := range g.size {
		clear(g.cells[y])
	}
}

// InBounds reports whether (x, y) addresses a cell of the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

func (g *Grid) mustBeInBounds(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("model: cell (%d,%d) out of range for grid of size %d", x, y, g.size))
	}
}

// Set sets a cell to alive (true) or dead (false). Callers validate coordinates.
func (g *Grid) Set(x, y int, alive bool) {
	g.mustBeInBounds(x, y)
	g.cells[y][x] = alive
}

// Get returns the state of a cell. Callers validate coordinates.
func (g *Grid) Get(x, y int) bool {
	g.mustBeInBounds(x, y)
	return g.cells[y][x]
}

// Toggle flips a cell and returns its new state
func (g *Grid) Toggle(x, y int) bool {
	g.mustBeInBounds(x, y)
	g.cells[y][x] = !g.cells[y][x]
	return g.cells[y][x]
}

// CountLiveNeighbors counts the 8 neighbors of (x, y) with toroidal wrapping
func (g *Grid) CountLiveNeighbors(x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		ny := (y + dy + g.size) % g.size
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := (x + dx + g.size) % g.size
			if g.cells[ny][nx] {
				count++
			}
		}
	}
	return count
}

// Resize returns a new grid of newSize holding the old cells re-centered.
// Cells that fall outside the new grid are dropped; nothing wraps.
func (g *Grid) Resize(newSize int) (*Grid, error) {
	if newSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "[Resize] got %d", newSize)
	}

	next := newGrid(newSize)
	// Truncating division keeps a grow followed by the matching shrink
	// landing every cell back where it started, for odd differences too.
	offset := (newSize - g.size) / 2
	for y := range g.size {
		ny := y + offset
		if ny < 0 || ny >= newSize {
			continue
		}
		for x := range g.size {
			nx := x + offset
			if nx < 0 || nx >= newSize {
				continue
			}
			next.cells[ny][nx] = g.cells[y][x]
		}
	}
	return next, nil
}

// Population returns the total number of living cells
func (g *Grid) Population() (count int) {
	for y := range g.size {
		for x := range g.size {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}

// BoundingBox returns the smallest rectangle holding every living cell.
// ok is false when the grid is empty.
func (g *Grid) BoundingBox() (b Bounds, ok bool) {
	for y := range g.size {
		for x := range g.size {
			if !g.cells[y][x] {
				continue
			}
			if !ok {
				b = Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y}
				ok = true
				continue
			}
			b.MinX = min(b.MinX, x)
			b.MaxX = max(b.MaxX, x)
			b.MinY = min(b.MinY, y)
			b.MaxY = max(b.MaxY, y)
		}
	}
	return b, ok
}

// Randomize sets each cell alive with probability density, independently
func (g *Grid) Randomize(density float64, rng *rand.Rand) {
	threshold := 1 - density
	for y := range g.size {
		for x := range g.size {
			g.cells[y][x] = rng.Float64() > threshold
		}
	}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := newGrid(g.size)
	g.CopyInto(c)
	return c
}

// CopyInto overwrites dst with the cells of g, resizing dst if needed
func (g *Grid) CopyInto(dst *Grid) {
	if dst.size != g.size {
		dst.Reset(g.size)
	}
	for y := range g.size {
		copy(dst.cells[y], g.cells[y])
	}
}

// Equal reports whether both grids have the same size and cells
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.size != o.size {
		return false
	}
	for y := range g.size {
		for x := range g.size {
			if g.cells[y][x] != o.cells[y][x] {
				return false
			}
		}
	}
	return true
}

// Rows returns the grid as a 0/1 matrix, row-major
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.size)
	for y := range g.size {
		rows[y] = make([]int, g.size)
		for x := range g.size {
			if g.cells[y][x] {
				rows[y][x] = 1
			}
		}
	}
	return rows
}
