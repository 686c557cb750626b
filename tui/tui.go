// Package tui hosts a session in a terminal using tcell. Each cell takes two
// columns and one row; the mouse paints cells and the keyboard drives the
// session's shortcuts.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-gol/patterns"
	"github.com/sheikhrachel/go-gol/session"
	"github.com/sheikhrachel/go-gol/utils"
	"github.com/sheikhrachel/go-gol/watcher"
)

const (
	// CellWidth and CellHeight are the terminal columns and rows per cell
	CellWidth  = 2
	CellHeight = 1

	tickInterval = time.Second / 60
	sizeStep     = 5

	helpLine = "space play/pause  n step  c clear  r random  u/y undo/redo  1-7 patterns  +/- speed  [/] size  e export  s/l save/load  q quit"
)

var (
	aliveStyle  = tcell.StyleDefault.Background(tcell.NewRGBColor(0x66, 0x7e, 0xea))
	deadStyle   = tcell.StyleDefault.Background(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	helpStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type tickMsg struct{ at time.Time }

type importMsg struct{ path string }

// App binds a session to a tcell screen
type App struct {
	screen    tcell.Screen
	sess      *session.Session
	logger    *zap.Logger
	exportDir string
	importDir string

	pressed bool
	message string
}

// New opens the terminal screen. A missing or unusable terminal is an InitializationError.
func New(sess *session.Session, logger *zap.Logger, exportDir, importDir string) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, &utils.InitializationError{Op: "tui.New", Err: errors.Wrap(err, "[New] failed to create screen")}
	}
	if err = screen.Init(); err != nil {
		return nil, &utils.InitializationError{Op: "tui.New", Err: errors.Wrap(err, "[New] failed to initialize screen")}
	}
	return newApp(screen, sess, logger, exportDir, importDir), nil
}

func newApp(screen tcell.Screen, sess *session.Session, logger *zap.Logger, exportDir, importDir string) *App {
	screen.EnableMouse()
	screen.Clear()
	return &App{
		screen:    screen,
		sess:      sess,
		logger:    logger,
		exportDir: exportDir,
		importDir: importDir,
	}
}

// Run processes input, ticks and dropped pattern files until the user quits or ctx ends
func (a *App) Run(ctx context.Context) error {
	defer a.screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.tick(ctx)
	if a.importDir != "" {
		err := watcher.Watch(ctx, a.importDir, a.logger, func(path string) {
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(importMsg{path: path}))
		})
		if err != nil {
			a.logger.Warn("import directory not watched", zap.Error(err))
		}
	}

	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handle(ctx, ev) {
			return nil
		}
	}
}

// tick posts one tick per frame into the screen's event queue, so stepping is
// serialized with input handling.
func (a *App) tick(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			return
		case now := <-ticker.C:
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(tickMsg{at: now}))
		}
	}
}

// handle applies one screen event and reports whether the app should exit
func (a *App) handle(ctx context.Context, ev tcell.Event) bool {
	if ctx.Err() != nil {
		return true
	}

	var eff session.Effects
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		eff.Redraw = true
	case *tcell.EventKey:
		quit, keyEff := a.handleKey(ctx, ev)
		if quit {
			return true
		}
		eff = keyEff
	case *tcell.EventMouse:
		eff = a.handleMouse(ctx, ev)
	case *tcell.EventInterrupt:
		switch msg := ev.Data().(type) {
		case tickMsg:
			eff = a.sess.HandleEvent(ctx, session.Event{Kind: session.EventTick, Now: msg.at})
		case importMsg:
			eff = a.importFile(ctx, msg.path)
		}
	}

	a.apply(eff)
	return false
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) (bool, session.Effects) {
	key := func(k session.Key) session.Effects {
		return a.sess.HandleEvent(ctx, session.Event{Kind: session.EventKey, Key: k})
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, session.Effects{}
	case tcell.KeyCtrlZ:
		return false, key(session.KeyUndo)
	case tcell.KeyCtrlY:
		return false, key(session.KeyRedo)
	case tcell.KeyRune:
	default:
		return false, session.Effects{}
	}

	status := a.sess.Status()
	switch r := ev.Rune(); r {
	case 'q':
		return true, session.Effects{}
	case ' ':
		return false, key(session.KeyPlayPause)
	case 'n':
		return false, key(session.KeyStep)
	case 'c':
		return false, key(session.KeyClear)
	case 'r':
		return false, key(session.KeyRandomize)
	case 'u':
		return false, key(session.KeyUndo)
	case 'y':
		return false, key(session.KeyRedo)
	case 'e':
		return false, key(session.KeyExport)
	case 's':
		eff := key(session.KeySave)
		if eff.Err == nil {
			a.message = "session saved"
		}
		return false, eff
	case 'l':
		eff := key(session.KeyLoad)
		if eff.Err == nil && !eff.Redraw {
			a.message = "no recent saved session"
		}
		return false, eff
	case '+', '=':
		return false, a.sess.HandleEvent(ctx, session.Event{Kind: session.EventSpeed, Value: status.FPS + 1})
	case '-':
		return false, a.sess.HandleEvent(ctx, session.Event{Kind: session.EventSpeed, Value: status.FPS - 1})
	case ']':
		return false, a.sess.HandleEvent(ctx, session.Event{Kind: session.EventGridSize, Value: status.GridSize + sizeStep})
	case '[':
		return false, a.sess.HandleEvent(ctx, session.Event{Kind: session.EventGridSize, Value: status.GridSize - sizeStep})
	default:
		names := patterns.Names()
		if idx := int(r - '1'); idx >= 0 && idx < len(names) {
			return false, a.sess.HandleEvent(ctx, session.Event{Kind: session.EventPattern, Name: names[idx]})
		}
	}
	return false, session.Effects{}
}

func (a *App) handleMouse(ctx context.Context, ev *tcell.EventMouse) session.Effects {
	col, row := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	size := a.sess.Grid().Size()

	switch {
	case down && !a.pressed:
		if col >= size*CellWidth || row >= size*CellHeight {
			return session.Effects{}
		}
		a.pressed = true
		return a.sess.HandleEvent(ctx, session.Event{Kind: session.EventPointerDown, X: float64(col), Y: float64(row)})
	case down:
		return a.sess.HandleEvent(ctx, session.Event{Kind: session.EventPointerMove, X: float64(col), Y: float64(row)})
	case a.pressed:
		a.pressed = false
		return a.sess.HandleEvent(ctx, session.Event{Kind: session.EventPointerUp, X: float64(col), Y: float64(row)})
	}
	return session.Effects{}
}

func (a *App) importFile(ctx context.Context, path string) session.Effects {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.Effects{Err: errors.Wrapf(err, "[importFile] failed to read file: %+v", path)}
	}
	eff := a.sess.HandleEvent(ctx, session.Event{Kind: session.EventImport, Data: data})
	if eff.Err == nil {
		a.message = "imported " + filepath.Base(path)
	}
	return eff
}

func (a *App) exportFile(file *patterns.File) error {
	data, err := file.Encode()
	if err != nil {
		return err
	}
	path := filepath.Join(a.exportDir, file.Name+".json")
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[exportFile] failed to write file: %+v", path)
	}
	a.message = "exported " + path
	return nil
}

func (a *App) apply(eff session.Effects) {
	if eff.Export != nil {
		if err := a.exportFile(eff.Export); err != nil {
			eff.Err = err
		}
	}
	if eff.Err != nil {
		a.message = eff.Err.Error()
		a.logger.Debug("event failed", zap.Error(eff.Err))
	}
	a.draw()
}

func (a *App) draw() {
	a.screen.Clear()
	grid := a.sess.Grid()
	size := grid.Size()
	for y := range size {
		for x := range size {
			style := deadStyle
			if grid.Get(x, y) {
				style = aliveStyle
			}
			for dx := range CellWidth {
				a.screen.SetContent(x*CellWidth+dx, y, ' ', nil, style)
			}
		}
	}

	st := a.sess.Status()
	state := "Paused"
	if st.Running {
		state = "Running"
	}
	undo, redo := "-", "-"
	if st.CanUndo {
		undo = "undo"
	}
	if st.CanRedo {
		redo = "redo"
	}

	a.line(size, statusStyle, fmt.Sprintf("Gen: %d | Living: %d | %s | %d fps | Grid: %dx%d | %s/%s",
		st.Generation, st.Population, state, st.FPS, size, size, undo, redo))
	a.line(size+1, helpStyle, a.message)
	a.line(size+2, helpStyle, helpLine)
	a.screen.Show()
}

func (a *App) line(y int, style tcell.Style, text string) {
	for x, r := range []rune(text) {
		a.screen.SetContent(x, y, r, nil, style)
	}
}
