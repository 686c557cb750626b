package model

import (
	"bufio"
	"io"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "
)

// TextRenderer writes grids as block characters, two columns per cell
type TextRenderer struct {
	Out io.Writer
}

// Display renders the grid to the renderer's writer
func (r *TextRenderer) Display(g *Grid) error {
	w := bufio.NewWriter(r.Out)
	for y := range g.size {
		for x := range g.size {
			if g.cells[y][x] {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}
