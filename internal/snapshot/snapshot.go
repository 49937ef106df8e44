// Package snapshot renders PNG frames of a heading sweep without opening a window.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"raymaze/internal/caster"
	"raymaze/internal/config"
	"raymaze/internal/framebuffer"
	"raymaze/internal/logging"
	"raymaze/internal/maze"
	"raymaze/internal/player"
	"raymaze/internal/projection"
	"raymaze/internal/render"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNoFrames is returned when a sweep is asked for fewer than one frame.
var ErrNoFrames = errors.New("snapshot needs at least one frame")

// Options control a sweep.
type Options struct {
	Dir      string
	Frames   int
	Width    int // 0 uses the configured screen width
	Height   int // 0 uses the configured screen height
	Parallel int // Frames rendered at once; 0 uses the configured worker count
	Map      bool
}

// Sweep renders opts.Frames first-person frames turning a full circle from the
// configured start pose and writes them to opts.Dir. With opts.Map a top-down
// view of the start pose is written as map.png. It returns the written paths in
// frame order, the map last.
func Sweep(ctx context.Context, cfg *config.Config, grid *maze.Grid, opts Options) ([]string, error) {
	if opts.Frames < 1 {
		return nil, ErrNoFrames
	}
	if opts.Width <= 0 {
		opts.Width = cfg.GetScreenWidth()
	}
	if opts.Height <= 0 {
		opts.Height = cfg.GetScreenHeight()
	}
	if opts.Parallel <= 0 {
		opts.Parallel = cfg.GetWorkers()
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	log := logging.For("snapshot").WithFields(logrus.Fields{
		"frames": opts.Frames,
		"dir":    opts.Dir,
		"size":   fmt.Sprintf("%dx%d", opts.Width, opts.Height),
	})
	log.Info("rendering sweep")

	c := caster.New(grid, cfg.GetBlockSize(), cfg.GetMaxDepth(), cfg.Camera.StepSize)
	start := player.Pose{
		Position: mgl64.Vec2{cfg.Player.StartX, cfg.Player.StartY},
		Heading:  cfg.Player.StartHeading,
		FOV:      cfg.GetCameraFOV(),
	}
	palette := render.NewPalette(config.PackRGB(cfg.Graphics.WallColor), cfg.PaletteColors())
	params := projection.Params{
		Scale:   cfg.Camera.ScaleFactor,
		FishEye: projection.ParseFishEyeMode(cfg.Camera.FishEye),
	}
	background := config.PackRGB(cfg.Graphics.BackgroundColor)

	paths := make([]string, opts.Frames)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	for i := 0; i < opts.Frames; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pose := start
			pose.Heading = start.Heading + float64(i)*2*math.Pi/float64(opts.Frames)

			fb := framebuffer.New(opts.Width, opts.Height)
			fb.SetBackgroundColor(background)
			stats := render.Render3D(fb, c, pose, params, palette)

			path := filepath.Join(opts.Dir, fmt.Sprintf("frame_%03d.png", i))
			if err := writePNG(path, fb); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			paths[i] = path
			log.WithFields(logrus.Fields{"frame": i, "hits": stats.Hits, "skipped": stats.Skipped}).Debug("frame written")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Map {
		path, err := writeMap(cfg, grid, c, start, palette, opts)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	log.WithField("files", len(paths)).Info("sweep finished")
	return paths, nil
}

func writeMap(cfg *config.Config, grid *maze.Grid, c *caster.Caster, pose player.Pose, palette render.Palette, opts Options) (string, error) {
	rows, cols := grid.Size()
	scale := math.Min(
		float64(opts.Width)/(float64(cols)*c.BlockSize),
		float64(opts.Height)/(float64(rows)*c.BlockSize),
	)

	fb := framebuffer.New(opts.Width, opts.Height)
	fb.SetBackgroundColor(config.PackRGB(cfg.Graphics.BackgroundColor))
	render.Render2D(fb, grid, pose, c, render.View2D{
		Scale:       scale,
		Palette:     palette,
		PlayerColor: config.PackRGB(cfg.Graphics.PlayerColor),
		RayColor:    config.PackRGB(cfg.Graphics.RayColor),
		PlayerSize:  cfg.Graphics.PlayerSize,
		Rays:        cfg.Graphics.Rays2D,
	})

	path := filepath.Join(opts.Dir, "map.png")
	if err := writePNG(path, fb); err != nil {
		return "", fmt.Errorf("map: %w", err)
	}
	return path, nil
}

func writePNG(path string, fb *framebuffer.Framebuffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, fb.RGBA())
}
