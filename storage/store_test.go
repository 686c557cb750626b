package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/utils"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Save(ctx, "gameOfLifeState", []byte(`{"generation":1}`)))
	data, err := s.Load(ctx, "gameOfLifeState")
	require.NoError(t, err)
	assert.Equal(t, `{"generation":1}`, string(data))

	require.NoError(t, s.Save(ctx, "gameOfLifeState", []byte(`{"generation":2}`)))
	data, err = s.Load(ctx, "gameOfLifeState")
	require.NoError(t, err)
	assert.Equal(t, `{"generation":2}`, string(data))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", buf))
	buf[0] = 'x'

	data, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "gameOfLifeState.json", entries[0].Name())
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Save(context.Background(), key, []byte("x")), key)
	}
}

type fakeRedis struct {
	data map[string]string
	ttl  time.Duration
	err  error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore(t *testing.T) {
	fake := &fakeRedis{data: map[string]string{}}
	exerciseStore(t, &RedisStore{client: fake, ttl: 24 * time.Hour})
	assert.Equal(t, 24*time.Hour, fake.ttl)
}

func TestRedisStoreWrapsErrors(t *testing.T) {
	boom := errors.New("connection refused")
	s := &RedisStore{client: &fakeRedis{data: map[string]string{}, err: boom}}

	_, err := s.Load(context.Background(), "k")
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Save(context.Background(), "k", nil), boom))
}

func TestOpen(t *testing.T) {
	s, err := Open(utils.StorageConfig{Backend: utils.StorageMemory}, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(utils.StorageConfig{Backend: utils.StorageFile, Path: t.TempDir()}, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(utils.StorageConfig{Backend: utils.StorageRedis, RedisAddr: "localhost:6379"}, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	_, err = Open(utils.StorageConfig{Backend: "s3"}, time.Hour)
	assert.Error(t, err)
}
