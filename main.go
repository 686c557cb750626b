package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/patterns"
	"github.com/sheikhrachel/go-gol/session"
	"github.com/sheikhrachel/go-gol/tui"
)

// cliFlags holds command-line overrides of the config file
type cliFlags struct {
	configPath string
	size       int
	fps        int
	store      string
	storePath  string
	redisAddr  string
	logLevel   string
	parallel   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:   "gol",
		Short: "Conway's Game of Life with undo history and saved sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, flags)
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", defaultConfigFile, "JSON or YAML config file")
	pf.IntVar(&flags.size, "size", 0, "grid side length")
	pf.IntVar(&flags.fps, "fps", 0, "generations per second while running")
	pf.StringVar(&flags.store, "store", "", "saved session backend: memory, file or redis")
	pf.StringVar(&flags.storePath, "store-path", "", "directory for the file backend")
	pf.StringVar(&flags.redisAddr, "redis-addr", "", "address for the redis backend")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&flags.parallel, "parallel", false, "step rows in parallel")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the interactive terminal board",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runInteractive(cmd, flags)
			},
		},
		newSimulateCmd(flags),
		newPatternsCmd(),
	)
	return root
}

func runInteractive(cmd *cobra.Command, flags *cliFlags) error {
	config, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	config.CellWidth, config.CellHeight = tui.CellWidth, tui.CellHeight

	// The terminal is owned by the board, so logs only go to a file.
	logger := zap.NewNop()
	if config.LogFile != "" {
		if logger, err = buildLogger(config); err != nil {
			return err
		}
	}
	defer logger.Sync()

	sess, err := initializeGame(cmd.Context(), config, logger)
	if err != nil {
		return err
	}

	app, err := tui.New(sess, logger, ".", config.ImportDir)
	if err != nil {
		return err
	}
	if err = app.Run(cmd.Context()); err != nil {
		return err
	}
	return finalSave(sess, logger)
}

func newSimulateCmd(flags *cliFlags) *cobra.Command {
	var (
		patternName string
		importPath  string
		exportPath  string
		generations int
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Step a pattern headlessly and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger, err := buildLogger(config)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sess, err := session.New(config, session.WithLogger(logger))
			if err != nil {
				return err
			}

			if importPath != "" {
				data, err := os.ReadFile(importPath)
				if err != nil {
					return errors.Wrapf(err, "[simulate] failed to read file: %+v", importPath)
				}
				if err = sess.ImportPattern(data); err != nil {
					return err
				}
			} else if err = sess.LoadPattern(patternName); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			displayGameInfo(out, sess)
			for range generations {
				sess.Step()
			}

			if !quiet {
				renderer := &model.TextRenderer{Out: out}
				if err = renderer.Display(sess.Grid()); err != nil {
					return err
				}
			}
			displayGameStatus(out, sess.Status())

			if exportPath != "" {
				return exportPattern(sess, exportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&patternName, "pattern", "glider", "catalog pattern to start from")
	cmd.Flags().StringVar(&importPath, "import", "", "pattern file to start from instead of --pattern")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the final live cells as a pattern file")
	cmd.Flags().IntVarP(&generations, "generations", "n", 10, "number of generations to step")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "skip printing the board")
	return cmd
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in patterns",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for i, name := range patterns.Names() {
				p, _ := patterns.Lookup(name)
				fmt.Fprintf(out, "%d  %-15s %2dx%-2d  %d cells\n", i+1, name, p.Height(), p.Width(), p.Population())
			}
		},
	}
}
