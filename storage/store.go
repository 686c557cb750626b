// Package storage persists saved sessions in a key-value store.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/utils"
)

// ErrNotFound is returned when no value is stored under a key
var ErrNotFound = errors.New("key not found")

// Store saves and loads opaque values by key
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
}

// Open builds the backend selected by cfg. ttl bounds how long redis keeps a value.
func Open(cfg utils.StorageConfig, ttl time.Duration) (Store, error) {
	switch cfg.Backend {
	case utils.StorageMemory, "":
		return NewMemoryStore(), nil
	case utils.StorageFile:
		return NewFileStore(cfg.Path)
	case utils.StorageRedis:
		return NewRedisStore(cfg, ttl), nil
	default:
		return nil, errors.Errorf("[Open] unknown storage backend: %+v", cfg.Backend)
	}
}

// MemoryStore keeps values for the lifetime of the process
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "[MemoryStore.Load] %+v", key)
	}
	return append([]byte(nil), data...), nil
}
