// Package termview renders the maze in a terminal with tcell.
package termview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"raymaze/internal/caster"
	"raymaze/internal/config"
	"raymaze/internal/logging"
	"raymaze/internal/maze"
	"raymaze/internal/player"
	"raymaze/internal/projection"
	"raymaze/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// errQuit ends the input loop when the user asks to leave.
var errQuit = errors.New("quit requested")

const frameInterval = 33 * time.Millisecond

var (
	skyStyle    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	floorStyle  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorDarkGray)
	statusStyle = tcell.StyleDefault.Background(tcell.ColorDarkSlateBlue).Foreground(tcell.ColorWhite)
	playerStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorYellow)
)

// View drives the player from terminal key events and draws the latest pose.
type View struct {
	screen  tcell.Screen
	cfg     *config.Config
	grid    *maze.Grid
	caster  *caster.Caster
	params  projection.Params
	palette render.Palette
	player  *player.Player
	poses   *player.Store
	mode3D  atomic.Bool
	log     *logrus.Entry
}

// New creates a terminal view over an initialised screen.
func New(screen tcell.Screen, cfg *config.Config, grid *maze.Grid) *View {
	p := player.New(mgl64.Vec2{cfg.Player.StartX, cfg.Player.StartY}, cfg.Player.StartHeading, cfg.GetCameraFOV())
	p.SetCollisionMode(player.ParseCollisionMode(cfg.Movement.Collision))

	v := &View{
		screen: screen,
		cfg:    cfg,
		grid:   grid,
		caster: caster.New(grid, cfg.GetBlockSize(), cfg.GetMaxDepth(), cfg.Camera.StepSize),
		params: projection.Params{
			Scale:   cfg.Camera.ScaleFactor,
			FishEye: projection.ParseFishEyeMode(cfg.Camera.FishEye),
		},
		palette: render.NewPalette(config.PackRGB(cfg.Graphics.WallColor), cfg.PaletteColors()),
		player:  p,
		poses:   player.NewStore(p.Pose()),
		log:     logging.For("termview"),
	}
	v.mode3D.Store(cfg.Display.StartView == "3d")
	return v
}

// Run processes input and redraws until the user quits or ctx is cancelled.
func (v *View) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return v.inputLoop(gctx)
	})
	g.Go(func() error {
		return v.renderLoop(gctx)
	})
	g.Go(func() error {
		// Wake PollEvent so the input loop can observe cancellation.
		<-gctx.Done()
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	err := g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (v *View) inputLoop(ctx context.Context) error {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return errQuit
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if !v.HandleKey(ev) {
				v.log.Info("quit key pressed")
				return errQuit
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

func (v *View) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		v.Draw()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// HandleKey applies one key event to the player. It returns false on a quit key.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	speed := v.cfg.GetMoveSpeed()
	rot := v.cfg.GetRotSpeed()
	bs := v.caster.BlockSize

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.player.MoveForward(v.grid, bs, speed)
	case tcell.KeyDown:
		v.player.MoveBackward(v.grid, bs, speed)
	case tcell.KeyLeft:
		v.player.RotateLeft(rot)
	case tcell.KeyRight:
		v.player.RotateRight(rot)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			v.player.MoveForward(v.grid, bs, speed)
		case 's', 'S':
			v.player.MoveBackward(v.grid, bs, speed)
		case 'a', 'A':
			v.player.RotateLeft(rot)
		case 'd', 'D':
			v.player.RotateRight(rot)
		case 'q', 'Q':
			v.player.Strafe(v.grid, bs, -speed)
		case 'e', 'E':
			v.player.Strafe(v.grid, bs, speed)
		case 'm', 'M':
			v.mode3D.Store(!v.mode3D.Load())
			v.log.WithField("3d", v.mode3D.Load()).Debug("view toggled")
		}
	}
	v.poses.Publish(v.player.Pose())
	return true
}

// Draw renders the most recently published pose.
func (v *View) Draw() {
	pose := v.poses.Load()
	width, height := v.screen.Size()
	if width <= 0 || height <= 1 {
		return
	}
	v.screen.Clear()

	viewHeight := height - 1
	if v.mode3D.Load() {
		v.draw3D(pose, width, viewHeight)
	} else {
		v.draw2D(pose, width, viewHeight)
	}
	v.drawStatus(pose, width, height-1)
	v.screen.Show()
}

func (v *View) draw3D(pose player.Pose, width, height int) {
	params := v.params
	params.ScreenWidth = width
	params.ScreenHeight = height

	for x := 0; x < width; x++ {
		col := projection.ProjectColumn(v.caster, pose, params, x)
		for y := 0; y < height; y++ {
			switch {
			case col.Visible && y >= col.Start && y < col.End:
				style := tcell.StyleDefault.Background(tcell.ColorBlack).
					Foreground(tcell.NewHexColor(int32(v.palette.Color(col.Cell))))
				v.screen.SetContent(x, y, Shade(col.Corrected, v.caster.BlockSize), nil, style)
			case y < height/2:
				v.screen.SetContent(x, y, ' ', nil, skyStyle)
			default:
				v.screen.SetContent(x, y, floorRune(y, height), nil, floorStyle)
			}
		}
	}
}

func (v *View) draw2D(pose player.Pose, width, height int) {
	rows, cols := v.grid.Size()
	for row := 0; row < rows && row < height; row++ {
		for col := 0; col < cols && col < width; col++ {
			if v.grid.CellAt(row, col) != maze.Wall {
				continue
			}
			style := tcell.StyleDefault.Background(tcell.ColorBlack).
				Foreground(tcell.NewHexColor(int32(v.palette.Color(v.grid.Rune(row, col)))))
			v.screen.SetContent(col, row, v.grid.Rune(row, col), nil, style)
		}
	}

	row, col := maze.WorldToCell(pose.Position[0], pose.Position[1], v.caster.BlockSize)
	if row >= 0 && row < height && col >= 0 && col < width {
		v.screen.SetContent(col, row, Arrow(pose.Heading), nil, playerStyle)
	}
}

func (v *View) drawStatus(pose player.Pose, width, y int) {
	mode := "2D"
	if v.mode3D.Load() {
		mode = "3D"
	}
	status := fmt.Sprintf(" %s  x=%.1f y=%.1f heading=%.1f°  arrows/WASD move  m toggle  Esc quit",
		mode, pose.Position[0], pose.Position[1], player.NormalizeAngle(pose.Heading)*180/math.Pi)

	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, r, nil, statusStyle)
		x++
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, statusStyle)
	}
}

// Poses exposes the published pose snapshots.
func (v *View) Poses() *player.Store {
	return v.poses
}

// Shade picks a block character for a corrected wall distance; nearer is denser.
func Shade(distance, blockSize float64) rune {
	switch {
	case distance <= 1.5*blockSize:
		return '█'
	case distance <= 3*blockSize:
		return '▓'
	case distance <= 5*blockSize:
		return '▒'
	default:
		return '░'
	}
}

// Arrow returns a glyph pointing along heading, with +y drawn downward.
func Arrow(heading float64) rune {
	octant := int(math.Round(player.NormalizeAngle(heading)/(math.Pi/2))) % 4
	return [...]rune{'>', 'v', '<', '^'}[octant]
}

func floorRune(y, height int) rune {
	b := 1.0 - (float64(y)-float64(height)/2)/(float64(height)/2)
	switch {
	case b < 0.25:
		return '#'
	case b < 0.5:
		return 'x'
	case b < 0.75:
		return '.'
	case b < 0.9:
		return '-'
	default:
		return ' '
	}
}
