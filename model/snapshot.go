package model

import "github.com/bits-and-blooms/bitset"

// Snapshot is a packed copy of a grid: one bit per cell, row-major.
// Copies of a Snapshot share their bits; PackFrom overwrites all of them.
type Snapshot struct {
	size int
	bits *bitset.BitSet
}

// Pack copies g into a new snapshot
func Pack(g *Grid) Snapshot {
	var s Snapshot
	s.PackFrom(g)
	return s
}

// PackFrom overwrites s with the cells of g, reusing the bit set when s has one
func (s *Snapshot) PackFrom(g *Grid) {
	if s.bits == nil {
		s.bits = bitset.New(uint(g.size * g.size))
	} else {
		s.bits.ClearAll()
	}
	s.size = g.size

	for y := range g.size {
		for x := range g.size {
			if g.cells[y][x] {
				s.bits.Set(uint(y*g.size + x))
			}
		}
	}
}

// Size returns the side length of the packed grid
func (s Snapshot) Size() int { return s.size }

// Population counts living cells without unpacking
func (s Snapshot) Population() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// Unpack returns a fresh grid holding the snapshot's cells
func (s Snapshot) Unpack() *Grid {
	g := &Grid{}
	s.UnpackInto(g)
	return g
}

// UnpackInto overwrites dst with the snapshot's cells, resizing dst if needed
func (s Snapshot) UnpackInto(dst *Grid) {
	if dst.size != s.size {
		dst.Reset(s.size)
	}

	for y := range s.size {
		for x := range s.size {
			dst.cells[y][x] = s.bits.Test(uint(y*s.size + x))
		}
	}
}
