package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/storage"
	"github.com/sheikhrachel/go-gol/utils"
)

var (
	// ErrNoStore is returned by Save and Load when the session has no store
	ErrNoStore = errors.New("no store configured")
	// ErrCorruptSnapshot is returned when saved data cannot be restored
	ErrCorruptSnapshot = errors.New("corrupt saved session")
)

// SavedSession is the persisted record of a session
type SavedSession struct {
	Grid       [][]int `json:"grid"`
	Generation int     `json:"generation"`
	GridSize   int     `json:"gridSize"`
	FPS        int     `json:"fps"`
	Timestamp  int64   `json:"timestamp"` // epoch milliseconds
}

func (s *Session) persistFailed(op string, err error) error {
	s.logger.Warn("persistence failed", zap.String("op", op), zap.Error(err))
	return &utils.PersistenceError{Op: op, Err: err}
}

// Save writes the grid, generation, size and step rate to the store
func (s *Session) Save(ctx context.Context) error {
	return s.save(ctx, s.now())
}

func (s *Session) save(ctx context.Context, now time.Time) error {
	s.lastSave = now
	if s.store == nil {
		return s.persistFailed("save", ErrNoStore)
	}

	data, err := json.Marshal(SavedSession{
		Grid:       s.grid.Rows(),
		Generation: s.generation,
		GridSize:   s.grid.Size(),
		FPS:        s.fps,
		Timestamp:  now.UnixMilli(),
	})
	if err != nil {
		return s.persistFailed("save", errors.Wrap(err, "[Save] failed to marshal session"))
	}
	if err = s.store.Save(ctx, s.cfg.Storage.Key, data); err != nil {
		return s.persistFailed("save", err)
	}
	s.logger.Debug("session saved", zap.Int("generation", s.generation))
	return nil
}

func (s *Session) maybeAutoSave(ctx context.Context, now time.Time) {
	if s.store == nil || s.cfg.AutoSaveInterval <= 0 {
		return
	}
	if s.lastSave.IsZero() {
		s.lastSave = now
		return
	}
	if now.Sub(s.lastSave) < s.cfg.AutoSaveInterval {
		return
	}
	// failures are logged by save; auto-save retries on the next interval
	_ = s.save(ctx, now)
}

// Load restores the saved session. It reports false without error when nothing
// is saved or the save is older than the snapshot TTL. Unreadable saves are
// reported as errors and leave the session unchanged.
func (s *Session) Load(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, s.persistFailed("load", ErrNoStore)
	}

	data, err := s.store.Load(ctx, s.cfg.Storage.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, s.persistFailed("load", err)
	}

	var saved SavedSession
	if err = json.Unmarshal(data, &saved); err != nil {
		return false, s.persistFailed("load", errors.Wrapf(ErrCorruptSnapshot, "[Load] %v", err))
	}

	age := s.now().Sub(time.UnixMilli(saved.Timestamp))
	if age >= s.cfg.SnapshotTTL {
		s.logger.Info("ignoring stale saved session", zap.Duration("age", age))
		return false, nil
	}

	grid, err := restoredGrid(saved)
	if err != nil {
		return false, s.persistFailed("load", err)
	}

	s.endStroke()
	s.stop()
	s.swapIn(grid)
	s.generation = saved.Generation
	s.lastStep = time.Time{}
	s.stats.Reset()
	s.fps = utils.ClampFPS(saved.FPS)
	s.pacer.SetFPS(s.fps)
	s.history.Reset()
	s.record()
	s.notify()
	return true, nil
}

func restoredGrid(saved SavedSession) (*model.Grid, error) {
	if saved.Generation < 0 {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "[Load] negative generation %d", saved.Generation)
	}
	if saved.GridSize != len(saved.Grid) {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "[Load] gridSize %d but %d rows", saved.GridSize, len(saved.Grid))
	}
	grid, err := model.GridFromRows(saved.Grid)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "[Load] %v", err)
	}
	return grid, nil
}
