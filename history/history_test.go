package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/model"
)

// marked returns a 4x4 grid whose only live cell encodes n
func marked(t *testing.T, n int) *model.Grid {
	t.Helper()
	g, err := model.NewGrid(4)
	require.NoError(t, err)
	g.Set(n%4, (n/4)%4, true)
	return g
}

func TestNewDefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, 3, New(3).Cap())
}

func TestEmptyManager(t *testing.T) {
	m := New(5)
	assert.Equal(t, -1, m.Cursor())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	_, ok := m.Undo()
	assert.False(t, ok)
	_, ok = m.Current()
	assert.False(t, ok)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	const k = 6
	m := New(10)
	for i := range k {
		m.Record(marked(t, i), i*10)
	}
	assert.Equal(t, k-1, m.Cursor())

	for want := k - 2; want >= 0; want-- {
		e, ok := m.Undo()
		require.True(t, ok, "undo to %d", want)
		assert.Equal(t, want*10, e.Generation)
		assert.True(t, marked(t, want).Equal(e.Grid), "undo to %d", want)
		assert.Equal(t, want, m.Cursor())
	}
	assert.False(t, m.CanUndo())
	_, ok := m.Undo()
	assert.False(t, ok, "undo past the oldest entry")
	assert.Equal(t, 0, m.Cursor())

	for want := 1; want < k; want++ {
		e, ok := m.Redo()
		require.True(t, ok, "redo to %d", want)
		assert.Equal(t, want*10, e.Generation)
		assert.True(t, marked(t, want).Equal(e.Grid), "redo to %d", want)
		assert.Equal(t, want, m.Cursor())
	}
	assert.False(t, m.CanRedo())
	_, ok = m.Redo()
	assert.False(t, ok, "redo past the newest entry")
	assert.Equal(t, k-1, m.Cursor())
}

func TestUndoStopsAtOldest(t *testing.T) {
	m := New(10)
	m.Record(marked(t, 0), 0)
	m.Record(marked(t, 1), 1)

	_, ok := m.Undo()
	require.True(t, ok)
	_, ok = m.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Cursor())
}

func TestRecordDiscardsRedoBranch(t *testing.T) {
	m := New(10)
	for i := range 5 {
		m.Record(marked(t, i), i)
	}
	m.Undo()
	m.Undo()
	require.Equal(t, 2, m.Cursor())

	m.Record(marked(t, 9), 9)
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 3, m.Cursor())
	assert.False(t, m.CanRedo())

	e, _ := m.Current()
	assert.Equal(t, 9, e.Generation)
	e, _ = m.Undo()
	assert.Equal(t, 2, e.Generation)
}

func TestEvictsOldestWhenFull(t *testing.T) {
	m := New(3)
	for i := range 7 {
		m.Record(marked(t, i), i)
		assert.LessOrEqual(t, m.Len(), 3)
		assert.Equal(t, m.Len()-1, m.Cursor())
	}

	var gens []int
	for {
		e, ok := m.Current()
		require.True(t, ok)
		gens = append(gens, e.Generation)
		if _, ok = m.Undo(); !ok {
			break
		}
	}
	assert.Equal(t, []int{6, 5, 4}, gens)
}

func TestRecordAfterUndoWhenFull(t *testing.T) {
	m := New(3)
	for i := range 3 {
		m.Record(marked(t, i), i)
	}
	m.Undo()
	m.Record(marked(t, 8), 8)

	assert.Equal(t, 3, m.Len())
	e, _ := m.Undo()
	assert.Equal(t, 1, e.Generation)
	e, _ = m.Undo()
	assert.Equal(t, 0, e.Generation)
}

func TestReturnedGridsAreIndependent(t *testing.T) {
	m := New(3)
	g := marked(t, 5)
	m.Record(g, 0)

	g.Set(0, 0, true)
	e, _ := m.Current()
	assert.False(t, e.Grid.Get(0, 0), "recording copies the grid")

	e.Grid.Set(3, 3, true)
	again, _ := m.Current()
	assert.False(t, again.Grid.Get(3, 3), "callers own returned grids")
}

func TestKeepsGridSizePerEntry(t *testing.T) {
	m := New(3)
	small, _ := model.NewGrid(2)
	big, _ := model.NewGrid(9)
	m.Record(small, 0)
	m.Record(big, 0)

	e, _ := m.Undo()
	assert.Equal(t, 2, e.Grid.Size())
	e, _ = m.Redo()
	assert.Equal(t, 9, e.Grid.Size())
}

func TestReset(t *testing.T) {
	m := New(3)
	m.Record(marked(t, 1), 1)
	m.Record(marked(t, 2), 2)
	m.Reset()

	assert.Zero(t, m.Len())
	assert.Equal(t, -1, m.Cursor())
	m.Record(marked(t, 3), 3)
	e, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, 3, e.Generation)
}
