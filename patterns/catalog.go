// Package patterns holds the seed shapes that can be stamped onto a grid and
// the JSON file format used to exchange them.
package patterns

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
)

var (
	// ErrUnknownPattern is returned for names missing from the catalog
	ErrUnknownPattern = errors.New("unknown pattern")
	// ErrPatternTooLarge is returned when a pattern does not fit the grid
	ErrPatternTooLarge = errors.New("pattern larger than grid")
)

// Pattern is a named rectangular 0/1 matrix
type Pattern struct {
	Name string
	Rows [][]uint8
}

// Height returns the number of rows
func (p Pattern) Height() int { return len(p.Rows) }

// Width returns the number of columns, zero for an empty pattern
func (p Pattern) Width() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return len(p.Rows[0])
}

// Population counts live cells in the pattern
func (p Pattern) Population() (count int) {
	for _, row := range p.Rows {
		for _, v := range row {
			count += int(v)
		}
	}
	return
}

// Validate checks that every row has the same non-zero width and holds only 0 or 1
func (p Pattern) Validate() error {
	width := p.Width()
	for y, row := range p.Rows {
		if len(row) == 0 || len(row) != width {
			return errors.Wrapf(ErrMalformedPattern, "[Validate] row %d has %d cells, want %d", y, len(row), width)
		}
		for x, v := range row {
			if v > 1 {
				return errors.Wrapf(ErrMalformedPattern, "[Validate] cell (%d,%d) is %d", x, y, v)
			}
		}
	}
	return nil
}

var catalog = map[string]Pattern{
	"glider": {Name: "glider", Rows: [][]uint8{
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}},
	"blinker": {Name: "blinker", Rows: [][]uint8{
		{1, 1, 1},
	}},
	"toad": {Name: "toad", Rows: [][]uint8{
		{0, 1, 1, 1},
		{1, 1, 1, 0},
	}},
	"beacon": {Name: "beacon", Rows: [][]uint8{
		{1, 1, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	}},
	"pulsar": {Name: "pulsar", Rows: [][]uint8{
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 0, 0},
	}},
	"pentadecathlon": {Name: "pentadecathlon", Rows: [][]uint8{
		{0, 0, 1, 0, 0, 0, 0, 1, 0, 0},
		{1, 1, 0, 1, 1, 1, 1, 0, 1, 1},
		{0, 0, 1, 0, 0, 0, 0, 1, 0, 0},
	}},
	"glider-gun": {Name: "glider-gun", Rows: [][]uint8{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1},
		{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}},
}

// Lookup returns the catalog pattern with the given name
func Lookup(name string) (Pattern, bool) {
	p, ok := catalog[name]
	return p, ok
}

// Names lists catalog patterns in alphabetical order
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Place clears g and stamps the named catalog pattern at its center.
// Unknown names and patterns that do not fit leave g untouched.
func Place(g *model.Grid, name string) error {
	p, ok := Lookup(name)
	if !ok {
		return errors.Wrapf(ErrUnknownPattern, "[Place] %q", name)
	}
	if p.Height() > g.Size() || p.Width() > g.Size() {
		return errors.Wrapf(ErrPatternTooLarge, "[Place] %q is %dx%d, grid is %d",
			name, p.Height(), p.Width(), g.Size())
	}
	Stamp(g, p)
	return nil
}

// Stamp clears g and writes p centered on it. Cells landing outside g are skipped.
func Stamp(g *model.Grid, p Pattern) {
	g.Clear()

	offsetX := (g.Size() - p.Width()) / 2
	offsetY := (g.Size() - p.Height()) / 2
	for y, row := range p.Rows {
		for x, v := range row {
			gx, gy := x+offsetX, y+offsetY
			if !g.InBounds(gx, gy) {
				continue
			}
			g.Set(gx, gy, v == 1)
		}
	}
}

// FromGrid crops the region b of g into a pattern
func FromGrid(name string, g *model.Grid, b model.Bounds) Pattern {
	rows := make([][]uint8, b.Height())
	for y := range rows {
		rows[y] = make([]uint8, b.Width())
		for x := range rows[y] {
			if g.Get(b.MinX+x, b.MinY+y) {
				rows[y][x] = 1
			}
		}
	}
	return Pattern{Name: name, Rows: rows}
}
