package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"raymaze/internal/maze"
	"raymaze/internal/player"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	hudLineHeight = 16
	hudPadding    = 6
	controlsHint  = "WASD/arrows: move  Q/E: strafe  M: 2D/3D  Tab: minimap  /: HUD  Esc: quit"
)

var (
	hudBackground = color.RGBA{0, 0, 0, 160}
	hudText       = color.RGBA{230, 230, 230, 255}
)

// HUD draws frame statistics and the player pose over the view.
type HUD struct {
	game *Game
}

func NewHUD(game *Game) *HUD {
	return &HUD{game: game}
}

// Lines returns the text rows of the HUD.
func (h *HUD) Lines(fps, tps float64) []string {
	g := h.game
	pose := g.poses.Load()
	row, col := maze.WorldToCell(pose.Position[0], pose.Position[1], g.camera.BlockSize())

	lines := []string{
		fmt.Sprintf("FPS: %.1f  TPS: %.1f", fps, tps),
		fmt.Sprintf("View: %s", g.mode),
		fmt.Sprintf("Pos: %.1f, %.1f  Cell: %d, %d", pose.Position[0], pose.Position[1], row, col),
		fmt.Sprintf("Heading: %.1f deg", player.NormalizeAngle(pose.Heading)*180/math.Pi),
	}
	if g.mode == View3D {
		metrics := g.threading.GetPerformanceMetrics()
		lines = append(lines, fmt.Sprintf("Raycast: %s  hits %d/%d  skipped %d",
			metrics.RaycastTime.Round(time.Microsecond), g.lastStats.Hits, g.lastStats.Columns, g.lastStats.Skipped))
	}
	return lines
}

// Draw renders the HUD panel in the top-left corner and the controls hint at the bottom.
func (h *HUD) Draw(screen *ebiten.Image) {
	lines := h.Lines(ebiten.ActualFPS(), ebiten.ActualTPS())
	face := basicfont.Face7x13

	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, font.MeasureString(face, line).Round())
	}
	panelW := maxWidth + hudPadding*2
	panelH := len(lines)*hudLineHeight + hudPadding*2
	vector.DrawFilledRect(screen, 10, 10, float32(panelW), float32(panelH), hudBackground, false)

	for i, line := range lines {
		baseline := 10 + hudPadding + i*hudLineHeight + face.Ascent
		ebitext.Draw(screen, line, face, 10+hudPadding, baseline, hudText)
	}

	ebitenutil.DebugPrintAt(screen, controlsHint, 10, h.game.fb.Height()-20)
}
