package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

const (
	modeWindow   = "window"
	modeTerm     = "term"
	modeSnapshot = "snapshot"
)

var errBadMode = errors.New("unknown mode")

// options are the command-line overrides applied on top of config.yaml.
type options struct {
	configPath string
	mazePath   string
	mode       string
	outDir     string
	frames     int
	mapView    bool
	logLevel   string
	logFile    string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("raymaze", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "path to the YAML config")
	fs.StringVar(&opts.mazePath, "maze", "", "maze file, overrides world.maze_file")
	fs.StringVar(&opts.mode, "mode", modeWindow, "front-end: window, term or snapshot")
	fs.StringVar(&opts.outDir, "out", "snapshots", "snapshot output directory")
	fs.IntVar(&opts.frames, "frames", 36, "frames in a snapshot sweep")
	fs.BoolVar(&opts.mapView, "map", true, "also write a top-down map.png in snapshot mode")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level, overrides logging.level")
	fs.StringVar(&opts.logFile, "log-file", "", "append logs to this file")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.mode {
	case modeWindow, modeTerm, modeSnapshot:
	default:
		return options{}, fmt.Errorf("%w %q", errBadMode, opts.mode)
	}
	if opts.mode == modeSnapshot && opts.frames < 1 {
		return options{}, fmt.Errorf("-frames must be positive, got %d", opts.frames)
	}
	return opts, nil
}
