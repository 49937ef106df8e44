package render

import (
	"math"
	"testing"

	"raymaze/internal/caster"
	"raymaze/internal/framebuffer"
	"raymaze/internal/maze"
	"raymaze/internal/player"
	"raymaze/internal/projection"
	"raymaze/internal/threading/core"
	"raymaze/internal/threading/monitoring"
	"raymaze/internal/threading/rendering"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	background = 0x333355
	wall       = 0xFFDDDD
)

func room() *maze.Grid {
	return maze.NewGrid([]string{
		"###",
		"# #",
		"###",
	})
}

func newFB(w, h int) *framebuffer.Framebuffer {
	fb := framebuffer.New(w, h)
	fb.SetBackgroundColor(background)
	return fb
}

func pixel(t *testing.T, fb *framebuffer.Framebuffer, x, y int) uint32 {
	t.Helper()
	c, ok := fb.Pixel(x, y)
	require.True(t, ok, "pixel (%d, %d) out of range", x, y)
	return c
}

func TestRender3D_CentreColumnHasSpan(t *testing.T) {
	fb := newFB(30, 20)
	c := caster.New(room(), 100, 1000, caster.DefaultStep)
	pose := player.Pose{Position: mgl64.Vec2{150, 150}, Heading: 0, FOV: math.Pi / 3}
	params := projection.Params{Scale: 10}

	stats := Render3D(fb, c, pose, params, NewPalette(wall, nil))

	assert.Equal(t, 30, stats.Columns)
	assert.Equal(t, 30, stats.Hits)
	assert.Zero(t, stats.Skipped)

	// Distance 50 at scale 10 gives a 4 pixel wall centred on row 10.
	assert.Equal(t, uint32(wall), pixel(t, fb, 15, 10))
	assert.Equal(t, uint32(wall), pixel(t, fb, 15, 8))
	assert.Equal(t, uint32(background), pixel(t, fb, 15, 0))
	assert.Equal(t, uint32(background), pixel(t, fb, 15, 19))
}

func TestRender3D_MissLeavesBackground(t *testing.T) {
	fb := newFB(16, 10)
	open := maze.NewGrid([]string{"          "})
	c := caster.New(open, 100, 100, caster.DefaultStep)
	pose := player.Pose{Position: mgl64.Vec2{50, 50}, Heading: 0, FOV: 0.2}

	stats := Render3D(fb, c, pose, projection.Params{Scale: 100}, NewPalette(wall, nil))

	assert.Zero(t, stats.Hits)
	for _, p := range fb.Buffer() {
		require.Equal(t, uint32(background), p)
	}
}

func TestRender3D_DegenerateColumnsSkipped(t *testing.T) {
	fb := newFB(10, 10)
	c := caster.New(room(), 100, 1000, caster.DefaultStep)
	// Standing inside a wall: every ray hits at distance 0.
	pose := player.Pose{Position: mgl64.Vec2{50, 50}, Heading: 0, FOV: math.Pi / 3}

	stats := Render3D(fb, c, pose, projection.Params{Scale: 100}, NewPalette(wall, nil))

	assert.Equal(t, 10, stats.Hits)
	assert.Equal(t, 10, stats.Skipped)
	for _, p := range fb.Buffer() {
		require.Equal(t, uint32(background), p)
	}
}

func TestView3D_PaletteAndMonitor(t *testing.T) {
	grid := maze.NewGrid([]string{
		"#|#",
		"# #",
		"###",
	})
	pool := core.CreateDefaultWorkerPool(2)
	monitor := monitoring.NewPerformanceMonitor(30)
	v := View3D{
		Caster:  caster.New(grid, 100, 1000, caster.DefaultStep),
		Params:  projection.Params{Scale: 10},
		Palette: NewPalette(wall, map[rune]uint32{'|': 0x00FF00}),
		Columns: rendering.NewColumnCaster(pool),
		Monitor: monitor,
	}
	defer v.Columns.Stop()

	fb := newFB(40, 20)
	// Facing north (negative y) into the '|' cell.
	pose := player.Pose{Position: mgl64.Vec2{150, 150}, Heading: -math.Pi / 2, FOV: math.Pi / 3}
	stats := v.Render(fb, pose)

	assert.Equal(t, 40, stats.Hits)
	assert.Equal(t, uint32(0x00FF00), pixel(t, fb, 20, 10))
	assert.Equal(t, uint64(40), monitor.GetCurrentMetrics().ColumnsCast)
}

func TestPalette(t *testing.T) {
	src := map[rune]uint32{'+': 1}
	p := NewPalette(9, src)
	src['+'] = 2

	assert.Equal(t, uint32(1), p.Color('+'))
	assert.Equal(t, uint32(9), p.Color('#'))
}

func testView() View2D {
	return View2D{
		Scale:       0.5,
		Palette:     NewPalette(wall, nil),
		PlayerColor: 0xFFFF00,
		RayColor:    0xFFFFFF,
		PlayerSize:  20,
		Rays:        1,
	}
}

func TestRender2D(t *testing.T) {
	fb := newFB(150, 150)
	c := caster.New(room(), 100, 1000, caster.DefaultStep)
	pose := player.Pose{Position: mgl64.Vec2{150, 150}, Heading: 0, FOV: math.Pi / 3}

	Render2D(fb, room(), pose, c, testView())

	assert.Equal(t, uint32(wall), pixel(t, fb, 25, 25), "wall cell")
	assert.Equal(t, uint32(background), pixel(t, fb, 60, 60), "open cell")
	assert.Equal(t, uint32(0xFFFF00), pixel(t, fb, 75, 75), "player")
	assert.Equal(t, uint32(0xFFFFFF), pixel(t, fb, 95, 75), "ray toward the east wall")
	assert.Equal(t, uint32(wall), pixel(t, fb, 110, 75), "east wall beyond the ray")
}

func TestRenderMinimap(t *testing.T) {
	fb := newFB(200, 100)
	fb.Clear()
	c := caster.New(room(), 100, 1000, caster.DefaultStep)
	pose := player.Pose{Position: mgl64.Vec2{150, 150}, Heading: 0, FOV: math.Pi / 3}
	view := testView()
	view.Scale = 0.1
	view.Rays = 0

	RenderMinimap(fb, room(), pose, c, view, 10, 0x000000)

	// 3x3 cells of 10px, placed 10px from the top-right corner.
	assert.Equal(t, uint32(wall), pixel(t, fb, 165, 15))
	assert.Equal(t, uint32(0x000000), pixel(t, fb, 171, 21), "panel behind open cell")
	assert.Equal(t, uint32(background), pixel(t, fb, 5, 5))
	assert.Equal(t, uint32(background), pixel(t, fb, 155, 15))
}
