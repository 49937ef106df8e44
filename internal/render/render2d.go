package render

import (
	"math"

	"raymaze/internal/caster"
	"raymaze/internal/framebuffer"
	"raymaze/internal/maze"
	"raymaze/internal/player"
	"raymaze/internal/threading/core"

	"github.com/go-gl/mathgl/mgl64"
)

// View2D configures the top-down view.
type View2D struct {
	Scale       float64 // Pixels per world unit
	OffsetX     int
	OffsetY     int
	Palette     Palette
	PlayerColor uint32
	RayColor    uint32
	PlayerSize  float64 // World units from centre to tip
	Rays        int     // Rays spread across the field of view
}

// Render2D clears fb and draws the maze, the view rays and the player.
func Render2D(fb *framebuffer.Framebuffer, grid *maze.Grid, pose player.Pose, c *caster.Caster, view View2D) {
	fb.Clear()
	draw2D(fb, grid, pose, c, view)
}

// RenderMinimap draws the top-down view in the top-right corner of fb over a
// panel of panelColor, leaving the rest of the frame untouched.
func RenderMinimap(fb *framebuffer.Framebuffer, grid *maze.Grid, pose player.Pose, c *caster.Caster, view View2D, margin int, panelColor uint32) {
	rows, cols := grid.Size()
	width := int(math.Floor(float64(cols) * c.BlockSize * view.Scale))
	height := int(math.Floor(float64(rows) * c.BlockSize * view.Scale))

	view.OffsetX = fb.Width() - width - margin
	view.OffsetY = margin

	fb.SetCurrentColor(panelColor)
	fb.FillRect(view.OffsetX, view.OffsetY, width, height)
	draw2D(fb, grid, pose, c, view)
}

func draw2D(fb *framebuffer.Framebuffer, grid *maze.Grid, pose player.Pose, c *caster.Caster, view View2D) {
	if view.Scale <= 0 {
		return
	}
	drawCells(fb, grid, c.BlockSize, view)
	drawRays(fb, pose, c, view)
	drawPlayer(fb, pose, view)
}

func drawCells(fb *framebuffer.Framebuffer, grid *maze.Grid, blockSize float64, view View2D) {
	rows, cols := grid.Size()
	edge := func(i int) int {
		return int(math.Floor(float64(i) * blockSize * view.Scale))
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if grid.CellAt(row, col) != maze.Wall {
				continue
			}
			x0, x1 := edge(col), edge(col+1)
			y0, y1 := edge(row), edge(row+1)
			fb.SetCurrentColor(view.Palette.Color(grid.Rune(row, col)))
			fb.FillRect(view.OffsetX+x0, view.OffsetY+y0, x1-x0, y1-y0)
		}
	}
}

func drawRays(fb *framebuffer.Framebuffer, pose player.Pose, c *caster.Caster, view View2D) {
	if view.Rays <= 0 {
		return
	}
	angles := make([]float64, view.Rays)
	for i := range angles {
		if view.Rays == 1 {
			angles[i] = pose.Heading
			continue
		}
		angles[i] = pose.Heading - pose.FOV/2 + float64(i)*pose.FOV/float64(view.Rays-1)
	}

	ends := core.ParallelMap(angles, func(angle float64) mgl64.Vec2 {
		if hit, ok := c.Cast(pose.Position, angle); ok {
			return hit.Point()
		}
		return pose.Position.Add(caster.Direction(angle).Mul(c.MaxDepth))
	})

	x0, y0 := view.toScreen(pose.Position)
	fb.SetCurrentColor(view.RayColor)
	for _, end := range ends {
		x1, y1 := view.toScreen(end)
		fb.Line(x0, y0, x1, y1)
	}
}

func drawPlayer(fb *framebuffer.Framebuffer, pose player.Pose, view View2D) {
	forward := caster.Direction(pose.Heading)
	side := mgl64.Vec2{-forward[1], forward[0]}
	size := view.PlayerSize

	tip := pose.Position.Add(forward.Mul(size))
	back := pose.Position.Sub(forward.Mul(size / 2))
	corners := []mgl64.Vec2{
		view.project(tip),
		view.project(back.Add(side.Mul(size / 2))),
		view.project(back.Sub(side.Mul(size / 2))),
	}

	fb.SetCurrentColor(view.PlayerColor)
	fb.FilledPolygon(corners)
}

func (v View2D) project(p mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{p[0]*v.Scale + float64(v.OffsetX), p[1]*v.Scale + float64(v.OffsetY)}
}

func (v View2D) toScreen(p mgl64.Vec2) (int, int) {
	s := v.project(p)
	return int(math.Round(s[0])), int(math.Round(s[1]))
}
