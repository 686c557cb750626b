package rules

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/model"
)

func gridWith(t *testing.T, size int, cells ...[2]int) *model.Grid {
	t.Helper()
	g, err := model.NewGrid(size)
	require.NoError(t, err)
	for _, c := range cells {
		g.Set(c[0], c[1], true)
	}
	return g
}

func TestApplyConwayRules(t *testing.T) {
	for n := 0; n <= 8; n++ {
		assert.Equal(t, n == 3, ApplyConwayRules(n, false), "dead with %d", n)
		assert.Equal(t, n == 2 || n == 3, ApplyConwayRules(n, true), "alive with %d", n)
	}
}

func TestEmptyGridStaysEmpty(t *testing.T) {
	next := Next(gridWith(t, 6))
	assert.Zero(t, next.Population())
}

func TestIsolatedCellDies(t *testing.T) {
	next := Next(gridWith(t, 5, [2]int{2, 2}))
	assert.Zero(t, next.Population())
}

func TestBlockIsStable(t *testing.T) {
	block := gridWith(t, 6, [2]int{2, 2}, [2]int{3, 2}, [2]int{2, 3}, [2]int{3, 3})
	assert.True(t, block.Equal(Next(block)))
}

func TestBlinkerOscillates(t *testing.T) {
	horizontal := gridWith(t, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})
	vertical := gridWith(t, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})

	once := Next(horizontal)
	assert.True(t, vertical.Equal(once))
	assert.True(t, horizontal.Equal(Next(once)))
}

func TestGliderTranslatesAfterFourSteps(t *testing.T) {
	glider := [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	g := gridWith(t, 10, glider...)

	for range 4 {
		g = Next(g)
	}

	moved := make([][2]int, len(glider))
	for i, c := range glider {
		moved[i] = [2]int{c[0] + 1, c[1] + 1}
	}
	assert.Equal(t, 5, g.Population())
	assert.True(t, gridWith(t, 10, moved...).Equal(g))
}

func TestGliderWrapsAroundEdges(t *testing.T) {
	g := gridWith(t, 8, [2]int{1, 0}, [2]int{2, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 2})
	start := g.Clone()

	// A glider crosses an 8x8 torus diagonally in 32 generations.
	for range 32 {
		g = Next(g)
	}
	assert.True(t, start.Equal(g))
}

func TestStepDoesNotMutateInput(t *testing.T) {
	cur := gridWith(t, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})
	before := cur.Clone()
	next := gridWith(t, 5)

	require.NoError(t, Step(cur, next))
	assert.True(t, before.Equal(cur))
}

func TestStepOverwritesStaleBuffer(t *testing.T) {
	cur := gridWith(t, 4)
	next := gridWith(t, 4, [2]int{0, 0}, [2]int{3, 3})

	require.NoError(t, Step(cur, next))
	assert.Zero(t, next.Population())
}

func TestStepRejectsBadBuffers(t *testing.T) {
	cur := gridWith(t, 4)

	err := Step(cur, gridWith(t, 5))
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	err = StepParallel(cur, gridWith(t, 3))
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	assert.Error(t, Step(cur, cur))
}

func TestStepParallelMatchesStep(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	for _, size := range []int{1, 2, 7, 33, 64} {
		cur := gridWith(t, size)
		cur.Randomize(0.35, rng)

		seq := gridWith(t, size)
		par := gridWith(t, size)
		for range 5 {
			require.NoError(t, Step(cur, seq))
			require.NoError(t, StepParallel(cur, par))
			require.True(t, seq.Equal(par), "size %d", size)
			cur = seq.Clone()
		}
	}
}
