package utils

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger at the given level ("debug", "info", "warn", "error").
// Output goes to path, or to stderr when path is empty.
func NewLogger(level, path string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "[NewLogger] invalid log level: %+v", level)
	}

	output := "stderr"
	if path != "" {
		output = path
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{output}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "[NewLogger] failed to build logger for output: %+v", output)
	}
	return logger, nil
}
