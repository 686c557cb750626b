//go:build ebiten

package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-gol/patterns"
	"github.com/sheikhrachel/go-gol/session"
	"github.com/sheikhrachel/go-gol/storage"
	"github.com/sheikhrachel/go-gol/utils"
)

const (
	canvasSize  = 500
	statusSpace = 40
)

var (
	aliveColor = color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff}
	deadColor  = color.White
	lineColor  = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}

	digitKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9}
)

type shortcut struct {
	key    ebiten.Key
	action session.Key
}

// shortcuts are dispatched in this order when several keys land in one frame
var shortcuts = []shortcut{
	{ebiten.KeySpace, session.KeyPlayPause},
	{ebiten.KeyN, session.KeyStep},
	{ebiten.KeyC, session.KeyClear},
	{ebiten.KeyR, session.KeyRandomize},
	{ebiten.KeyU, session.KeyUndo},
	{ebiten.KeyY, session.KeyRedo},
	{ebiten.KeyE, session.KeyExport},
	{ebiten.KeyS, session.KeySave},
	{ebiten.KeyL, session.KeyLoad},
}

// game adapts a session to the ebiten.Game interface
type game struct {
	sess    *session.Session
	ctx     context.Context
	pressed bool
	message string
}

func (g *game) cellSize() int {
	return g.sess.Config().CellWidth
}

func (g *game) key(k session.Key) session.Effects {
	return g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventKey, Key: k})
}

// Update handles per-frame input and advances the simulation
func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var effs []session.Effects
	for _, sc := range shortcuts {
		if inpututil.IsKeyJustPressed(sc.key) {
			effs = append(effs, g.key(sc.action))
		}
	}

	st := g.sess.Status()
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		effs = append(effs, g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventSpeed, Value: st.FPS + 1}))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		effs = append(effs, g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventSpeed, Value: st.FPS - 1}))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		effs = append(effs, g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventGridSize, Value: st.GridSize + 5}))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		effs = append(effs, g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventGridSize, Value: st.GridSize - 5}))
	}
	for i, name := range patterns.Names() {
		if i < len(digitKeys) && inpututil.IsKeyJustPressed(digitKeys[i]) {
			effs = append(effs, g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventPattern, Name: name}))
		}
	}

	effs = append(effs, g.pointer())
	effs = append(effs, g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventTick, Now: time.Now()}))

	for _, eff := range effs {
		g.apply(eff)
	}
	return nil
}

func (g *game) pointer() session.Effects {
	x, y := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	extent := g.sess.Grid().Size() * g.cellSize()

	switch {
	case down && !g.pressed:
		if x < 0 || y < 0 || x >= extent || y >= extent {
			return session.Effects{}
		}
		g.pressed = true
		return g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventPointerDown, X: float64(x), Y: float64(y)})
	case down:
		return g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventPointerMove, X: float64(x), Y: float64(y)})
	case g.pressed:
		g.pressed = false
		return g.sess.HandleEvent(g.ctx, session.Event{Kind: session.EventPointerUp, X: float64(x), Y: float64(y)})
	}
	return session.Effects{}
}

func (g *game) apply(eff session.Effects) {
	if eff.Export != nil {
		data, err := eff.Export.Encode()
		if err == nil {
			path := filepath.Join(".", eff.Export.Name+".json")
			err = os.WriteFile(path, data, 0o644)
			g.message = "exported " + path
		}
		if err != nil {
			eff.Err = err
		}
	}
	if eff.Err != nil {
		g.message = eff.Err.Error()
	}
}

// Draw renders the grid lines, live cells and counters
func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(deadColor)

	grid := g.sess.Grid()
	size, cell := grid.Size(), float32(g.cellSize())
	extent := float32(size) * cell
	for i := 0; i <= size; i++ {
		p := float32(i) * cell
		vector.StrokeLine(screen, p, 0, p, extent, 0.5, lineColor, false)
		vector.StrokeLine(screen, 0, p, extent, p, 0.5, lineColor, false)
	}
	for y := range size {
		for x := range size {
			if grid.Get(x, y) {
				vector.DrawFilledRect(screen, float32(x)*cell+1, float32(y)*cell+1, cell-2, cell-2, aliveColor, false)
			}
		}
	}

	st := g.sess.Status()
	state := "paused"
	if st.Running {
		state = "running"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Generation: %d  Population: %d  %s  %d fps", st.Generation, st.Population, state, st.FPS), 4, int(extent)+4)
	ebitenutil.DebugPrintAt(screen, g.message, 4, int(extent)+20)
}

// Layout returns the logical screen size
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	extent := g.sess.Grid().Size() * g.cellSize()
	return extent, extent + statusSpace
}

func main() {
	cfgPath := flag.String("config", "", "path to a JSON or YAML config file")
	flag.Parse()

	// bootstrap logger until the configured one is built
	logger := zap.Must(utils.NewLogger("info", ""))

	cfg := utils.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := utils.LoadConfig(*cfgPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.String("path", *cfgPath), zap.Error(err))
		}
		cfg = loaded
	}
	cfg.CellWidth = max(canvasSize/cfg.GridSize, 2)
	cfg.CellHeight = cfg.CellWidth

	configured, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		logger.Fatal("failed to build logger", zap.String("level", cfg.LogLevel), zap.Error(err))
	}
	logger = configured
	defer logger.Sync()

	store, err := storage.Open(cfg.Storage, cfg.SnapshotTTL)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	sess, err := session.New(cfg, session.WithStore(store), session.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create session", zap.Error(err))
	}
	if _, err = sess.Load(context.Background()); err != nil {
		logger.Warn("starting fresh", zap.Error(err))
	}

	g := &game{sess: sess, ctx: context.Background()}
	extent := cfg.GridSize * cfg.CellWidth

	ebiten.SetWindowTitle("go-gol")
	ebiten.SetWindowSize(extent, extent+statusSpace)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game loop failed", zap.Error(err))
	}
	if err := sess.Save(context.Background()); err != nil {
		logger.Warn("final save failed", zap.Error(err))
	}
}
