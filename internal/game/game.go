package game

import (
	"raymaze/internal/config"
	"raymaze/internal/framebuffer"
	"raymaze/internal/logging"
	"raymaze/internal/maze"
	"raymaze/internal/player"
	"raymaze/internal/render"
	"raymaze/internal/threading"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// ViewMode selects what the framebuffer shows.
type ViewMode int

const (
	View2D ViewMode = iota
	View3D
)

// ParseViewMode maps "3d" to View3D and anything else to View2D.
func ParseViewMode(s string) ViewMode {
	if s == "3d" {
		return View3D
	}
	return View2D
}

func (m ViewMode) String() string {
	if m == View3D {
		return "3D"
	}
	return "2D"
}

// Toggle flips between the two views.
func (m ViewMode) Toggle() ViewMode {
	if m == View3D {
		return View2D
	}
	return View3D
}

// Game implements ebiten.Game on top of the raycasting core.
type Game struct {
	config    *config.Config
	grid      *maze.Grid
	camera    *FirstPersonCamera
	player    *player.Player
	poses     *player.Store
	threading *threading.ThreadingComponents
	fb        *framebuffer.Framebuffer
	log       *logrus.Entry

	view3D      render.View3D
	view2D      render.View2D
	minimapView render.View2D
	loop        *GameLoop

	// UI state
	mode        ViewMode
	showMinimap bool
	showHUD     bool
	lastStats   render.Stats

	// Presentation buffers, allocated on first Draw
	frame  *ebiten.Image
	pixels []byte
}

// NewGame wires the player, camera, renderers and threading components for grid.
func NewGame(cfg *config.Config, grid *maze.Grid) *Game {
	log := logging.For("game")

	camera := NewFirstPersonCamera(cfg, grid)
	start := mgl64.Vec2{cfg.Player.StartX, cfg.Player.StartY}
	p := player.New(start, cfg.Player.StartHeading, cfg.GetCameraFOV())
	p.SetCollisionMode(player.ParseCollisionMode(cfg.Movement.Collision))
	if player.IsCollision(grid, start[0], start[1], cfg.GetBlockSize()) {
		log.WithFields(logrus.Fields{"x": start[0], "y": start[1]}).Warn("start position is inside a wall")
	}

	fb := framebuffer.New(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	fb.SetBackgroundColor(config.PackRGB(cfg.Graphics.BackgroundColor))
	if cfg.Graphics.BackgroundImage != "" {
		// A failed load is logged by the framebuffer; the colour background stays.
		_ = fb.SetBackgroundImage(cfg.Graphics.BackgroundImage)
	}

	tc := threading.NewThreadingComponents(cfg)
	palette := render.NewPalette(config.PackRGB(cfg.Graphics.WallColor), cfg.PaletteColors())

	rows, cols := grid.Size()
	view2D := render.View2D{
		Scale:       camera.FitScale(rows, cols, fb.Width(), fb.Height()),
		Palette:     palette,
		PlayerColor: config.PackRGB(cfg.Graphics.PlayerColor),
		RayColor:    config.PackRGB(cfg.Graphics.RayColor),
		PlayerSize:  cfg.Graphics.PlayerSize,
		Rays:        cfg.Graphics.Rays2D,
	}
	minimap := view2D
	minimap.Scale = cfg.Graphics.Minimap.Scale
	minimap.Rays = 1

	g := &Game{
		config:    cfg,
		grid:      grid,
		camera:    camera,
		player:    p,
		poses:     player.NewStore(p.Pose()),
		threading: tc,
		fb:        fb,
		log:       log,
		view3D: render.View3D{
			Caster:  camera.Caster,
			Params:  camera.Params,
			Palette: palette,
			Columns: tc.ColumnCaster,
			Monitor: tc.PerformanceMonitor,
		},
		view2D:      view2D,
		minimapView: minimap,
		mode:        ParseViewMode(cfg.Display.StartView),
		showMinimap: cfg.Graphics.Minimap.Enabled,
		showHUD:     true,
	}
	g.loop = NewGameLoop(g, nil)

	log.WithFields(logrus.Fields{
		"rows":      rows,
		"cols":      cols,
		"view":      g.mode,
		"collision": cfg.Movement.Collision,
		"fish_eye":  cfg.Camera.FishEye,
		"workers":   workerCount(tc),
	}).Info("game initialised")
	return g
}

func workerCount(tc *threading.ThreadingComponents) int {
	return tc.Runner().Workers()
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	return g.loop.Update()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.loop.Draw(screen)
}

// Layout implements ebiten.Game. The logical screen is the framebuffer.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.loop.Layout(outsideWidth, outsideHeight)
}

// Close stops the worker pool.
func (g *Game) Close() {
	g.threading.Shutdown()
}

// Poses exposes the published pose snapshots.
func (g *Game) Poses() *player.Store {
	return g.poses
}

// apply performs one tick of player intent.
func (g *Game) apply(in Intent) {
	speed := g.config.GetMoveSpeed()
	rot := g.config.GetRotSpeed()
	bs := g.camera.BlockSize()

	if in.RotateLeft {
		g.player.RotateLeft(rot)
	}
	if in.RotateRight {
		g.player.RotateRight(rot)
	}
	if in.Forward {
		g.player.MoveForward(g.grid, bs, speed)
	}
	if in.Backward {
		g.player.MoveBackward(g.grid, bs, speed)
	}
	if in.StrafeLeft {
		g.player.Strafe(g.grid, bs, -speed)
	}
	if in.StrafeRight {
		g.player.Strafe(g.grid, bs, speed)
	}

	if in.ToggleView {
		g.mode = g.mode.Toggle()
		g.log.WithField("view", g.mode).Debug("view toggled")
	}
	if in.ToggleMinimap {
		g.showMinimap = !g.showMinimap
		g.log.WithField("minimap", g.showMinimap).Debug("minimap toggled")
	}
	if in.ToggleHUD {
		g.showHUD = !g.showHUD
	}

	g.poses.Publish(g.player.Pose())
}

// renderFrame draws pose into the framebuffer in the current view mode.
func (g *Game) renderFrame(pose player.Pose) {
	switch g.mode {
	case View3D:
		g.lastStats = g.view3D.Render(g.fb, pose)
		if g.showMinimap {
			render.RenderMinimap(g.fb, g.grid, pose, g.camera.Caster, g.minimapView,
				g.config.Graphics.Minimap.Margin, config.PackRGB(g.config.Graphics.BackgroundColor))
		}
	default:
		render.Render2D(g.fb, g.grid, pose, g.camera.Caster, g.view2D)
	}
}

// present uploads the framebuffer to screen.
func (g *Game) present(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(g.fb.Width(), g.fb.Height())
		g.pixels = make([]byte, 4*g.fb.Width()*g.fb.Height())
	}
	g.fb.WritePixels(g.pixels)
	g.frame.WritePixels(g.pixels)
	screen.DrawImage(g.frame, nil)
}
