package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"raymaze/internal/config"
	"raymaze/internal/game"
	"raymaze/internal/logging"
	"raymaze/internal/maze"
	"raymaze/internal/snapshot"
	"raymaze/internal/termview"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		logging.Log.WithError(err).Fatal("raymaze failed")
	}
}

func run(opts options) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.mazePath != "" {
		cfg.World.MazeFile = opts.mazePath
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	closeLog, err := setupLogging(cfg, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logging.For("main")
	log.WithFields(logrus.Fields{
		"config": opts.configPath,
		"mode":   opts.mode,
		"maze":   cfg.World.MazeFile,
	}).Info("starting raymaze")

	grid, err := maze.Load(cfg.World.MazeFile, maze.Options{PadRows: cfg.World.PadRows})
	if err != nil {
		log.WithError(err).Fatal("failed to load maze")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opts.mode {
	case modeTerm:
		return runTerm(ctx, cfg, grid)
	case modeSnapshot:
		paths, err := snapshot.Sweep(ctx, cfg, grid, snapshot.Options{
			Dir:    opts.outDir,
			Frames: opts.frames,
			Map:    opts.mapView,
		})
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		log.WithField("files", len(paths)).Info("snapshot complete")
		return nil
	default:
		return runWindow(cfg, grid)
	}
}

// setupLogging configures the shared logger. The terminal front-end owns the tty,
// so its logs go to -log-file or nowhere.
func setupLogging(cfg *config.Config, opts options) (func(), error) {
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}

	switch {
	case opts.logFile != "":
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logging.SetOutput(f)
		return func() { _ = f.Close() }, nil
	case opts.mode == modeTerm:
		logging.SetOutput(io.Discard)
	}
	return func() {}, nil
}

func runWindow(cfg *config.Config, grid *maze.Grid) error {
	ebiten.SetWindowSize(cfg.Display.WindowWidth, cfg.Display.WindowHeight)
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Display.TPS > 0 {
		ebiten.SetTPS(cfg.Display.TPS)
	}

	g := game.NewGame(cfg, grid)
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runTerm(ctx context.Context, cfg *config.Config, grid *maze.Grid) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal screen: %w", err)
	}
	defer screen.Fini()

	return termview.New(screen, cfg, grid).Run(ctx)
}
