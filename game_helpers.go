package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-gol/session"
	"github.com/sheikhrachel/go-gol/storage"
	"github.com/sheikhrachel/go-gol/utils"
)

const defaultConfigFile = "config.json"

// loadConfig reads the config file, falling back to defaults when the default
// file is absent, then applies command-line overrides
func loadConfig(cmd *cobra.Command, flags *cliFlags) (utils.Config, error) {
	config := utils.DefaultConfig()

	if _, err := os.Stat(flags.configPath); err == nil || flags.configPath != defaultConfigFile {
		loaded, err := utils.LoadConfig(flags.configPath)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	changed := cmd.Flags().Changed
	if changed("size") {
		config.GridSize = flags.size
	}
	if changed("fps") {
		config.FPS = flags.fps
	}
	if changed("store") {
		config.Storage.Backend = flags.store
	}
	if changed("store-path") {
		config.Storage.Path = flags.storePath
	}
	if changed("redis-addr") {
		config.Storage.RedisAddr = flags.redisAddr
	}
	if changed("log-level") {
		config.LogLevel = flags.logLevel
	}
	if changed("parallel") {
		config.UseParallel = flags.parallel
	}

	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "[loadConfig] invalid flags")
	}
	return config, nil
}

func buildLogger(config utils.Config) (*zap.Logger, error) {
	return utils.NewLogger(config.LogLevel, config.LogFile)
}

// initializeGame sets up the session, its store and any saved state
func initializeGame(ctx context.Context, config utils.Config, logger *zap.Logger) (*session.Session, error) {
	store, err := storage.Open(config.Storage, config.SnapshotTTL)
	if err != nil {
		return nil, &utils.InitializationError{Op: "storage", Err: err}
	}

	sess, err := session.New(config, session.WithStore(store), session.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	// A missing, stale or unreadable save leaves the fresh board in place.
	loaded, err := sess.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("saved session not restored", zap.Error(err))
	case loaded:
		logger.Info("restored saved session", zap.Int("generation", sess.Generation()))
	default:
		if err = sess.LoadPattern("glider"); err != nil {
			logger.Warn("starter pattern not placed", zap.Error(err))
		}
	}
	return sess, nil
}

// finalSave stores the session on exit so the next run can resume it
func finalSave(sess *session.Session, logger *zap.Logger) error {
	if err := sess.Save(context.Background()); err != nil {
		logger.Warn("final save failed", zap.Error(err))
	}
	return nil
}

func exportPattern(sess *session.Session, path string) error {
	data, err := sess.ExportPattern().Encode()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[exportPattern] failed to write file: %+v", path)
	}
	return nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(w io.Writer, sess *session.Session) {
	st := sess.Status()
	config := sess.Config()
	fmt.Fprintf(w, "Features: Parallel: %v | History: %d entries\n", config.UseParallel, config.MaxHistorySize)
	fmt.Fprintf(w, "Grid: %dx%d | Initial living cells: %d\n", st.GridSize, st.GridSize, st.Population)
	fmt.Fprintln(w)
}

// displayGameStatus shows the current game status
func displayGameStatus(w io.Writer, st session.Status) {
	status := "Active"
	if st.Population == 0 {
		status = "Extinct"
	}
	density := float64(st.Population) / float64(st.GridSize*st.GridSize) * 100

	fmt.Fprintf(w, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		st.Generation, st.Population, density, status)
	fmt.Fprintf(w, "Performance: %.1f gen/sec | Avg Pop: %.1f\n",
		st.GenerationsPerSecond, st.AveragePopulation)
}
