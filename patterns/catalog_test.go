package patterns

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/model"
)

func newGrid(t *testing.T, size int) *model.Grid {
	t.Helper()
	g, err := model.NewGrid(size)
	require.NoError(t, err)
	return g
}

func TestCatalogShapes(t *testing.T) {
	want := map[string]struct{ h, w, pop int }{
		"glider":         {3, 3, 5},
		"blinker":        {1, 3, 3},
		"toad":           {2, 4, 6},
		"beacon":         {4, 4, 8},
		"pulsar":         {13, 13, 48},
		"pentadecathlon": {3, 10, 12},
		"glider-gun":     {9, 36, 36},
	}
	require.Len(t, Names(), len(want))

	for name, dims := range want {
		p, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name)
		assert.Equal(t, dims.h, p.Height(), name)
		assert.Equal(t, dims.w, p.Width(), name)
		assert.Equal(t, dims.pop, p.Population(), name)
		assert.NoError(t, p.Validate(), name)
	}
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"beacon", "blinker", "glider", "glider-gun", "pentadecathlon", "pulsar", "toad"}, Names())
}

func TestPlaceCentersPattern(t *testing.T) {
	g := newGrid(t, 10)
	g.Set(0, 0, true)

	require.NoError(t, Place(g, "glider"))
	assert.False(t, g.Get(0, 0), "grid is cleared first")
	assert.Equal(t, 5, g.Population())
	for _, c := range [][2]int{{4, 3}, {5, 4}, {3, 5}, {4, 5}, {5, 5}} {
		assert.True(t, g.Get(c[0], c[1]), "(%d,%d)", c[0], c[1])
	}
}

func TestPlaceExactFit(t *testing.T) {
	g := newGrid(t, 13)
	require.NoError(t, Place(g, "pulsar"))
	assert.Equal(t, 48, g.Population())
}

func TestPlaceUnknownLeavesGridUntouched(t *testing.T) {
	g := newGrid(t, 10)
	g.Set(1, 1, true)

	err := Place(g, "spaceship")
	assert.True(t, errors.Is(err, ErrUnknownPattern))
	assert.True(t, g.Get(1, 1))
	assert.Equal(t, 1, g.Population())
}

func TestPlaceTooLargeLeavesGridUntouched(t *testing.T) {
	g := newGrid(t, 20)
	g.Set(7, 7, true)

	err := Place(g, "glider-gun")
	assert.True(t, errors.Is(err, ErrPatternTooLarge))
	assert.Equal(t, 1, g.Population())
}

func TestStampClipsOversizedPattern(t *testing.T) {
	g := newGrid(t, 3)
	p := Pattern{Name: "bar", Rows: [][]uint8{{1, 1, 1, 1, 1}}}

	Stamp(g, p)
	// offset is (3-5)/2 = -1, so columns 1..3 of the pattern land on the grid
	assert.Equal(t, 3, g.Population())
	for x := range 3 {
		assert.True(t, g.Get(x, 1))
	}
}

func TestStampOddOverhangTruncatesOffset(t *testing.T) {
	g := newGrid(t, 3)
	p := Pattern{Name: "ramp", Rows: [][]uint8{{1, 0, 1, 0}}}

	Stamp(g, p)
	// offset is (3-4)/2 = 0, so the leading column is kept and the last is dropped
	assert.True(t, g.Get(0, 1))
	assert.False(t, g.Get(1, 1))
	assert.True(t, g.Get(2, 1))
	assert.Equal(t, 2, g.Population())
}

func TestFromGridCropsBoundingBox(t *testing.T) {
	g := newGrid(t, 10)
	require.NoError(t, Place(g, "glider"))

	b, ok := g.BoundingBox()
	require.True(t, ok)
	p := FromGrid("copy", g, b)

	glider, _ := Lookup("glider")
	assert.Equal(t, glider.Rows, p.Rows)
	assert.Equal(t, "copy", p.Name)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Pattern{}.Validate())
	assert.True(t, errors.Is(Pattern{Rows: [][]uint8{{1, 0}, {1}}}.Validate(), ErrMalformedPattern))
	assert.True(t, errors.Is(Pattern{Rows: [][]uint8{{2}}}.Validate(), ErrMalformedPattern))
	assert.True(t, errors.Is(Pattern{Rows: [][]uint8{{}}}.Validate(), ErrMalformedPattern))
}
