package rules

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol/model"
)

// ErrSizeMismatch is returned when the step buffers differ in size
var ErrSizeMismatch = errors.New("step buffers differ in size")

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

func checkBuffers(cur, next *model.Grid) error {
	if cur == next {
		return errors.New("[Step] current and next buffers must be distinct")
	}
	if cur.Size() != next.Size() {
		return errors.Wrapf(ErrSizeMismatch, "[Step] current %d, next %d", cur.Size(), next.Size())
	}
	return nil
}

func stepRows(cur, next *model.Grid, startRow, endRow int) {
	size := cur.Size()
	for y := startRow; y < endRow; y++ {
		for x := 0; x < size; x++ {
			next.Set(x, y, ApplyConwayRules(cur.CountLiveNeighbors(x, y), cur.Get(x, y)))
		}
	}
}

// Step writes the generation after cur into next. cur is only read, so every
// cell sees the same generation. Buffers are validated before any cell is written.
func Step(cur, next *model.Grid) error {
	if err := checkBuffers(cur, next); err != nil {
		return err
	}
	stepRows(cur, next, 0, cur.Size())
	return nil
}

// StepParallel has the contract of Step but splits rows across workers.
// It returns once every row is written.
func StepParallel(cur, next *model.Grid) error {
	if err := checkBuffers(cur, next); err != nil {
		return err
	}

	var (
		eg            errgroup.Group
		size          = cur.Size()
		numWorkers    = runtime.NumCPU()
		rowsPerWorker = (size + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, size)
		)
		if startRow >= size {
			break
		}

		eg.Go(func() error {
			stepRows(cur, next, startRow, endRow)
			return nil
		})
	}

	return eg.Wait()
}

// Next returns the following generation of cur in a new grid
func Next(cur *model.Grid) *model.Grid {
	next, _ := model.NewGrid(cur.Size())
	stepRows(cur, next, 0, cur.Size())
	return next
}
