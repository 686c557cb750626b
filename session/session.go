// Package session owns one running Game of Life: the grid and its step buffer,
// the generation counter, run control, undo history and persistence hooks.
//
// A Session is not safe for concurrent use. Hosts drive it from a single
// event loop, either through the operation methods or through HandleEvent.
package session

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-gol/history"
	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/patterns"
	"github.com/sheikhrachel/go-gol/rules"
	"github.com/sheikhrachel/go-gol/storage"
	"github.com/sheikhrachel/go-gol/utils"
)

// Status is what a host needs to refresh its counters and controls
type Status struct {
	Generation           int
	Population           int
	GridSize             int
	FPS                  int
	Running              bool
	CanUndo              bool
	CanRedo              bool
	GenerationsPerSecond float64
	AveragePopulation    float64
}

// Option customizes a Session at construction
type Option func(*Session)

// WithStore enables Save, Load and auto-save against store
func WithStore(store storage.Store) Option {
	return func(s *Session) { s.store = store }
}

// WithLogger sets the logger used for rejected operations and persistence failures
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithRand sets the source used by Randomize
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithClock replaces time.Now, used for stats, saves and staleness checks
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithObserver registers fn to be called after every state change
func WithObserver(fn func(Status)) Option {
	return func(s *Session) { s.observers = append(s.observers, fn) }
}

type stroke struct {
	active bool
	dirty  bool
}

// Session is a single simulation instance
type Session struct {
	cfg       utils.Config
	grid      *model.Grid
	next      *model.Grid
	pool      *model.GridPool
	history   *history.Manager
	stats     *utils.Stats
	pacer     *Pacer
	store     storage.Store
	logger    *zap.Logger
	rng       *rand.Rand
	now       func() time.Time
	observers []func(Status)

	generation int
	running    bool
	fps        int
	lastStep   time.Time
	lastSave   time.Time
	stroke     stroke
}

// New creates a stopped session with an empty grid at generation 0
func New(cfg utils.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &utils.InitializationError{Op: "session.New", Err: err}
	}

	s := &Session{
		cfg:     cfg,
		pool:    model.NewGridPool(),
		history: history.New(cfg.MaxHistorySize),
		stats:   utils.NewStats(),
		pacer:   NewPacer(cfg.FPS),
		logger:  zap.NewNop(),
		now:     time.Now,
		fps:     cfg.FPS,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(s.now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	s.grid = s.pool.Get(cfg.GridSize)
	s.next = s.pool.Get(cfg.GridSize)
	s.history.Record(s.grid, s.generation)
	return s, nil
}

// Grid exposes the current grid for rendering. Hosts must not keep it across
// operations, since stepping swaps buffers.
func (s *Session) Grid() *model.Grid { return s.grid }

// Generation returns the generation counter
func (s *Session) Generation() int { return s.generation }

// Running reports whether ticks advance the simulation
func (s *Session) Running() bool { return s.running }

// Config returns the configuration the session was built with
func (s *Session) Config() utils.Config { return s.cfg }

// Status snapshots the counters a host displays
func (s *Session) Status() Status {
	return Status{
		Generation:           s.generation,
		Population:           s.grid.Population(),
		GridSize:             s.grid.Size(),
		FPS:                  s.fps,
		Running:              s.running,
		CanUndo:              s.history.CanUndo(),
		CanRedo:              s.history.CanRedo(),
		GenerationsPerSecond: s.stats.GenerationsPerSecond,
		AveragePopulation:    s.stats.AveragePopulation,
	}
}

func (s *Session) notify() {
	if len(s.observers) == 0 {
		return
	}
	st := s.Status()
	for _, fn := range s.observers {
		fn(st)
	}
}

func (s *Session) record() {
	s.history.Record(s.grid, s.generation)
}

// Play starts the simulation. The first tick after Play steps immediately.
func (s *Session) Play() {
	if s.running {
		return
	}
	s.running = true
	s.pacer.Reset()
	s.notify()
}

// Pause stops the simulation and drops any pending tick
func (s *Session) Pause() {
	if !s.running {
		return
	}
	s.stop()
	s.notify()
}

// TogglePlay switches between running and stopped
func (s *Session) TogglePlay() {
	if s.running {
		s.Pause()
	} else {
		s.Play()
	}
}

func (s *Session) stop() {
	s.running = false
	s.pacer.Reset()
}

// SetFPS changes the step rate, clamped to the supported range
func (s *Session) SetFPS(fps int) {
	s.fps = utils.ClampFPS(fps)
	s.pacer.SetFPS(s.fps)
	s.notify()
}

// Step advances the grid by exactly one generation
func (s *Session) Step() {
	s.endStroke()
	step := rules.Step
	if s.cfg.UseParallel {
		step = rules.StepParallel
	}
	if err := step(s.grid, s.next); err != nil {
		s.logger.Error("step rejected", zap.Error(err))
		return
	}
	s.grid, s.next = s.next, s.grid
	s.generation++

	now := s.now()
	var elapsed time.Duration
	if !s.lastStep.IsZero() {
		elapsed = now.Sub(s.lastStep)
	}
	s.lastStep = now
	s.stats.Update(s.generation, s.grid.Population(), elapsed)

	s.record()
	s.notify()
}

func (s *Session) resetCounters() {
	s.generation = 0
	s.lastStep = time.Time{}
	s.stats.Reset()
}

// Clear stops the simulation and empties the grid at generation 0
func (s *Session) Clear() {
	s.endStroke()
	s.stop()
	s.grid.Clear()
	s.resetCounters()
	s.record()
	s.notify()
}

// Randomize clears the grid, then sets each cell alive with the configured density
func (s *Session) Randomize() {
	s.endStroke()
	s.stop()
	s.grid.Randomize(s.cfg.RandomDensity, s.rng)
	s.resetCounters()
	s.record()
	s.notify()
}

// ResizeGrid stops the simulation and re-centers the grid at the new size
func (s *Session) ResizeGrid(size int) error {
	s.endStroke()
	resized, err := s.grid.Resize(size)
	if err != nil {
		return s.rejected("resize", err)
	}

	s.stop()
	s.swapIn(resized)
	s.record()
	s.notify()
	return nil
}

// swapIn makes g the current grid and fits the step buffer to its size
func (s *Session) swapIn(g *model.Grid) {
	model.GridToPool(s.grid, s.pool)
	s.grid = g
	if s.next.Size() != g.Size() {
		model.GridToPool(s.next, s.pool)
		s.next = s.pool.Get(g.Size())
	}
}

// LoadPattern clears the grid and places the named catalog pattern at its center.
// Unknown or oversized patterns leave the session unchanged.
func (s *Session) LoadPattern(name string) error {
	s.endStroke()
	if err := patterns.Place(s.grid, name); err != nil {
		return s.rejected("load pattern", err)
	}

	s.stop()
	s.resetCounters()
	s.record()
	s.notify()
	return nil
}

// ExportPattern crops the live cells to their bounding box. An empty grid
// exports an empty pattern.
func (s *Session) ExportPattern() patterns.File {
	name := "pattern-" + uuid.NewString()[:8]

	p := patterns.Pattern{Name: name, Rows: [][]uint8{}}
	if b, ok := s.grid.BoundingBox(); ok {
		p = patterns.FromGrid(name, s.grid, b)
	}
	return patterns.NewFile(p, s.cfg.ExportAuthor, s.now())
}

// ImportPattern decodes a pattern file and stamps it centered on a cleared grid.
// Malformed files leave the session unchanged.
func (s *Session) ImportPattern(data []byte) error {
	p, err := patterns.DecodeFile(data)
	if err != nil {
		return s.rejected("import", err)
	}
	return s.ImportMatrix(p)
}

// ImportMatrix stamps p centered on a cleared grid. Cells that fall outside
// the grid are dropped.
func (s *Session) ImportMatrix(p patterns.Pattern) error {
	s.endStroke()
	if err := p.Validate(); err != nil {
		return s.rejected("import", err)
	}

	s.stop()
	patterns.Stamp(s.grid, p)
	s.resetCounters()
	s.record()
	s.notify()
	return nil
}

// ToggleCell flips one cell and records the edit. Out-of-range coordinates are ignored.
func (s *Session) ToggleCell(x, y int) bool {
	if !s.grid.InBounds(x, y) {
		return false
	}
	s.endStroke()
	s.grid.Toggle(x, y)
	s.record()
	s.notify()
	return true
}

// beginStroke toggles the cell under the pointer and starts a paint stroke
func (s *Session) beginStroke(x, y int) {
	// a pointer-up lost by the host still closes the previous stroke
	s.endStroke()
	s.stroke = stroke{active: true, dirty: true}
	s.grid.Toggle(x, y)
	s.notify()
}

// continueStroke paints the cell alive; it reports whether anything changed
func (s *Session) continueStroke(x, y int) bool {
	if !s.stroke.active || s.grid.Get(x, y) {
		return false
	}
	s.grid.Set(x, y, true)
	s.stroke.dirty = true
	s.notify()
	return true
}

// endStroke records the stroke as a single history entry. Every operation
// that replaces the grid or moves through history calls it first, so a stroke
// never spans one of them.
func (s *Session) endStroke() {
	if s.stroke.active && s.stroke.dirty {
		s.record()
	}
	s.stroke = stroke{}
}

// Undo restores the previous history entry. Running simulations are stopped.
func (s *Session) Undo() bool {
	s.endStroke()
	entry, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(entry)
	return true
}

// Redo restores the next history entry. Running simulations are stopped.
func (s *Session) Redo() bool {
	s.endStroke()
	entry, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(entry)
	return true
}

func (s *Session) restore(entry history.Entry) {
	s.stop()
	s.swapIn(entry.Grid)
	s.generation = entry.Generation
	s.lastStep = time.Time{}
	s.notify()
}

func (s *Session) rejected(op string, err error) error {
	s.logger.Warn("operation rejected", zap.String("op", op), zap.Error(err))
	return &utils.ValidationError{Op: op, Err: err}
}
