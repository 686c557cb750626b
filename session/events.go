package session

import (
	"context"
	"math"
	"time"

	"github.com/sheikhrachel/go-gol/patterns"
)

// EventKind identifies what a host reported
type EventKind int

const (
	EventPointerDown EventKind = iota + 1
	EventPointerMove
	EventPointerUp
	EventKey
	EventSpeed
	EventGridSize
	EventPattern
	EventImport
	EventTick
)

// Key is a host-independent shortcut
type Key int

const (
	KeyPlayPause Key = iota + 1
	KeyStep
	KeyClear
	KeyRandomize
	KeyUndo
	KeyRedo
	KeyExport
	KeySave
	KeyLoad
)

// Event is one host input. Only the fields relevant to Kind are read.
type Event struct {
	Kind EventKind
	// X and Y are pointer offsets from the grid origin in host pixels
	X, Y  float64
	Key   Key
	Value int    // fps for EventSpeed, side length for EventGridSize
	Name  string // catalog pattern for EventPattern
	Data  []byte // pattern file for EventImport
	Now   time.Time
}

// Effects tells the host what to do after an event
type Effects struct {
	Redraw  bool
	Stepped bool
	Export  *patterns.File
	Err     error
}

// CellAt maps a pointer offset to the cell under it, clamped to the grid
func (s *Session) CellAt(px, py float64) (int, int) {
	size := s.grid.Size()
	clamp := func(v float64, cell int) int {
		c := int(math.Floor(v / float64(cell)))
		return min(max(c, 0), size-1)
	}
	return clamp(px, s.cfg.CellWidth), clamp(py, s.cfg.CellHeight)
}

// HandleEvent applies one host event. It is the only entry point hosts need.
func (s *Session) HandleEvent(ctx context.Context, ev Event) (eff Effects) {
	switch ev.Kind {
	case EventPointerDown:
		s.beginStroke(s.CellAt(ev.X, ev.Y))
		eff.Redraw = true
	case EventPointerMove:
		eff.Redraw = s.continueStroke(s.CellAt(ev.X, ev.Y))
	case EventPointerUp:
		s.endStroke()
	case EventKey:
		eff = s.handleKey(ctx, ev.Key)
	case EventSpeed:
		s.SetFPS(ev.Value)
	case EventGridSize:
		eff.Err = s.ResizeGrid(ev.Value)
		eff.Redraw = eff.Err == nil
	case EventPattern:
		eff.Err = s.LoadPattern(ev.Name)
		eff.Redraw = eff.Err == nil
	case EventImport:
		eff.Err = s.ImportPattern(ev.Data)
		eff.Redraw = eff.Err == nil
	case EventTick:
		eff.Stepped = s.Tick(ctx, ev.Now)
		eff.Redraw = eff.Stepped
	}
	return eff
}

func (s *Session) handleKey(ctx context.Context, key Key) (eff Effects) {
	eff.Redraw = true
	switch key {
	case KeyPlayPause:
		s.TogglePlay()
	case KeyStep:
		s.Step()
		eff.Stepped = true
	case KeyClear:
		s.Clear()
	case KeyRandomize:
		s.Randomize()
	case KeyUndo:
		eff.Redraw = s.Undo()
	case KeyRedo:
		eff.Redraw = s.Redo()
	case KeyExport:
		file := s.ExportPattern()
		eff.Export = &file
		eff.Redraw = false
	case KeySave:
		eff.Err = s.Save(ctx)
		eff.Redraw = false
	case KeyLoad:
		var loaded bool
		loaded, eff.Err = s.Load(ctx)
		eff.Redraw = loaded
	default:
		eff.Redraw = false
	}
	return eff
}

// Tick is the animation-loop hook. It auto-saves when due and, while running,
// performs at most one step when the pacer allows it.
func (s *Session) Tick(ctx context.Context, now time.Time) bool {
	s.maybeAutoSave(ctx, now)
	if !s.running || !s.pacer.Ready(now) {
		return false
	}
	s.Step()
	return true
}
