package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	MinFPS = 1
	MaxFPS = 60

	// StorageMemory keeps saved sessions in process memory only.
	StorageMemory = "memory"
	// StorageFile writes saved sessions as JSON files under StorageConfig.Path.
	StorageFile = "file"
	// StorageRedis keeps saved sessions in redis with the snapshot TTL.
	StorageRedis = "redis"
)

// StorageConfig selects where saved sessions live
type StorageConfig struct {
	Backend   string `json:"backend" yaml:"backend"`
	Path      string `json:"path" yaml:"path"`
	RedisAddr string `json:"redis_addr" yaml:"redis_addr"`
	RedisDB   int    `json:"redis_db" yaml:"redis_db"`
	Password  string `json:"password" yaml:"password"`
	Key       string `json:"key" yaml:"key"`
}

// Config holds the configuration for the game
type Config struct {
	GridSize         int           `json:"grid_size" yaml:"grid_size"`
	FPS              int           `json:"fps" yaml:"fps"`
	CellWidth        int           `json:"cell_width" yaml:"cell_width"`
	CellHeight       int           `json:"cell_height" yaml:"cell_height"`
	MaxHistorySize   int           `json:"max_history_size" yaml:"max_history_size"`
	RandomDensity    float64       `json:"random_density" yaml:"random_density"`
	UseParallel      bool          `json:"use_parallel" yaml:"use_parallel"`
	AutoSaveInterval time.Duration `json:"auto_save_interval" yaml:"auto_save_interval"`
	SnapshotTTL      time.Duration `json:"snapshot_ttl" yaml:"snapshot_ttl"`
	ExportAuthor     string        `json:"export_author" yaml:"export_author"`
	ImportDir        string        `json:"import_dir" yaml:"import_dir"`
	LogLevel         string        `json:"log_level" yaml:"log_level"`
	LogFile          string        `json:"log_file" yaml:"log_file"`
	Storage          StorageConfig `json:"storage" yaml:"storage"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		GridSize:         50,
		FPS:              10,
		CellWidth:        10,
		CellHeight:       10,
		MaxHistorySize:   50,
		RandomDensity:    0.3,
		UseParallel:      false,
		AutoSaveInterval: 5 * time.Second,
		SnapshotTTL:      24 * time.Hour,
		ExportAuthor:     "Anonymous",
		LogLevel:         "info",
		Storage: StorageConfig{
			Backend:   StorageMemory,
			Path:      ".gol",
			RedisAddr: "localhost:6379",
			Key:       "gameOfLifeState",
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, picked by extension.
// Fields missing from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal yaml from file: %+v", filename)
		}
	default:
		if err = json.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
		}
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}
	return config, nil
}

// Validate reports the first unusable setting
func (c Config) Validate() error {
	switch {
	case c.GridSize <= 0:
		return errors.Errorf("grid_size must be positive, got %d", c.GridSize)
	case c.FPS < MinFPS || c.FPS > MaxFPS:
		return errors.Errorf("fps must be within [%d, %d], got %d", MinFPS, MaxFPS, c.FPS)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return errors.Errorf("cell dimensions must be positive, got %dx%d", c.CellWidth, c.CellHeight)
	case c.MaxHistorySize <= 0:
		return errors.Errorf("max_history_size must be positive, got %d", c.MaxHistorySize)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Errorf("random_density must be within [0, 1], got %v", c.RandomDensity)
	case c.AutoSaveInterval < 0:
		return errors.Errorf("auto_save_interval must not be negative, got %v", c.AutoSaveInterval)
	case c.SnapshotTTL <= 0:
		return errors.Errorf("snapshot_ttl must be positive, got %v", c.SnapshotTTL)
	}

	switch c.Storage.Backend {
	case StorageMemory, StorageRedis:
	case StorageFile:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the file backend")
		}
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key must not be empty")
	}
	return nil
}

// ClampFPS bounds a requested step rate to the supported range
func ClampFPS(fps int) int {
	return min(max(fps, MinFPS), MaxFPS)
}
