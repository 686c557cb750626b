package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileStore writes one JSON file per key under a directory
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "[NewFileStore] failed to create directory: %+v", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", errors.Errorf("[FileStore] invalid key: %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Save writes through a temporary file so a crash never leaves a torn value
func (f *FileStore) Save(_ context.Context, key string, data []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "[FileStore.Save] failed to create temp file for: %+v", key)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "[FileStore.Save] failed to write: %+v", key)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "[FileStore.Save] failed to close: %+v", key)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "[FileStore.Save] failed to move into place: %+v", path)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "[FileStore.Load] %+v", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[FileStore.Load] failed to read file: %+v", path)
	}
	return data, nil
}
