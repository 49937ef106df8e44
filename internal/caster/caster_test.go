package caster

import (
	"math"
	"testing"

	"raymaze/internal/maze"

	"github.com/go-gl/mathgl/mgl64"
)

func roomGrid() *maze.Grid {
	return maze.NewGrid([]string{
		"###",
		"# #",
		"###",
	})
}

func openGrid(rows, cols int) *maze.Grid {
	lines := make([]string, rows)
	for i := range lines {
		line := make([]byte, cols)
		for j := range line {
			line[j] = ' '
		}
		lines[i] = string(line)
	}
	return maze.NewGrid(lines)
}

func TestCastRay_EastWallOfRoom(t *testing.T) {
	hit, ok := CastRay(roomGrid(), mgl64.Vec2{150, 150}, 0, 100, 1000, DefaultStep)
	if !ok {
		t.Fatal("Expected a hit on the east wall")
	}
	if math.Abs(hit.Distance-50) > DefaultStep {
		t.Errorf("Expected distance ~50, got %f", hit.Distance)
	}
	if hit.X < 200 || hit.X > 200+DefaultStep {
		t.Errorf("Expected hit x at the x=200 boundary, got %f", hit.X)
	}
	if math.Abs(hit.Y-150) > 1e-9 {
		t.Errorf("Expected hit y to stay at 150, got %f", hit.Y)
	}
}

func TestCastRay_AllFourDirections(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
	}{
		{"east", 0},
		{"south", math.Pi / 2},
		{"west", math.Pi},
		{"north", -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := CastRay(roomGrid(), mgl64.Vec2{150, 150}, tt.heading, 100, 1000, DefaultStep)
			if !ok {
				t.Fatal("Expected a hit")
			}
			// West/north walls are entered once the sample drops below x/y = 100.
			if hit.Distance < 50-DefaultStep || hit.Distance > 50+2*DefaultStep {
				t.Errorf("Expected distance ~50, got %f", hit.Distance)
			}
		})
	}
}

func TestCastRay_OriginInsideWall(t *testing.T) {
	hit, ok := CastRay(roomGrid(), mgl64.Vec2{50, 50}, 1.234, 100, 1000, DefaultStep)
	if !ok {
		t.Fatal("Expected an immediate hit when starting inside a wall")
	}
	if hit.Distance > DefaultStep {
		t.Errorf("Expected distance ~0, got %f", hit.Distance)
	}
}

func TestCastRay_NoHitWithinMaxDepth(t *testing.T) {
	grid := openGrid(3, 30)

	_, ok := CastRay(grid, mgl64.Vec2{50, 150}, 0, 100, 500, DefaultStep)
	if ok {
		t.Error("Expected no hit for an open corridor longer than max depth")
	}
}

func TestCastRay_OutOfBoundsIsWall(t *testing.T) {
	grid := openGrid(3, 3)

	hit, ok := CastRay(grid, mgl64.Vec2{150, 150}, 0, 100, 1000, DefaultStep)
	if !ok {
		t.Fatal("Expected the grid boundary to stop the ray")
	}
	if math.Abs(hit.Distance-150) > DefaultStep {
		t.Errorf("Expected distance ~150 to the boundary, got %f", hit.Distance)
	}

	// Origin left of the grid: the first sample is already outside.
	hit, ok = CastRay(grid, mgl64.Vec2{-10, 150}, 0, 100, 1000, DefaultStep)
	if !ok || hit.Distance != 0 {
		t.Errorf("Expected immediate hit outside the grid, got ok=%v dist=%f", ok, hit.Distance)
	}
}

func TestCastRay_FirstHitIsSmallest(t *testing.T) {
	// Two walls on the same row; the nearer one must be reported.
	grid := maze.NewGrid([]string{
		"      ",
		"  # # ",
		"      ",
	})

	hit, ok := CastRay(grid, mgl64.Vec2{50, 150}, 0, 100, 1000, DefaultStep)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if math.Abs(hit.Distance-150) > DefaultStep {
		t.Errorf("Expected the nearer wall at ~150, got %f", hit.Distance)
	}
	if row, col := maze.WorldToCell(hit.X, hit.Y, 100); row != 1 || col != 2 {
		t.Errorf("Expected hit cell (1, 2), got (%d, %d)", row, col)
	}

	// Every sample before the hit must be open.
	for d := 0.0; d < hit.Distance; d += DefaultStep {
		if maze.Blocked(grid, 50+d, 150, 100) {
			t.Fatalf("Found a wall at %f before reported hit %f", d, hit.Distance)
		}
	}
}

func TestCastRay_UnnormalizedHeading(t *testing.T) {
	base, ok1 := CastRay(roomGrid(), mgl64.Vec2{150, 150}, 0.3, 100, 1000, DefaultStep)
	wound, ok2 := CastRay(roomGrid(), mgl64.Vec2{150, 150}, 0.3+6*math.Pi, 100, 1000, DefaultStep)
	if !ok1 || !ok2 {
		t.Fatal("Expected both rays to hit")
	}
	if math.Abs(base.Distance-wound.Distance) > DefaultStep {
		t.Errorf("Expected equal distances, got %f and %f", base.Distance, wound.Distance)
	}
}

func TestCastRay_DegenerateInputs(t *testing.T) {
	grid := roomGrid()
	origin := mgl64.Vec2{150, 150}

	cases := []struct {
		name                        string
		origin                      mgl64.Vec2
		heading, block, depth, step float64
	}{
		{"zero step", origin, 0, 100, 1000, 0},
		{"negative depth", origin, 0, 100, -1, DefaultStep},
		{"zero block", origin, 0, 0, 1000, DefaultStep},
		{"nan heading", origin, math.NaN(), 100, 1000, DefaultStep},
		{"inf origin", mgl64.Vec2{math.Inf(1), 150}, 0, 100, 1000, DefaultStep},
	}

	for _, c := range cases {
		if _, ok := CastRay(grid, c.origin, c.heading, c.block, c.depth, c.step); ok {
			t.Errorf("%s: expected no hit", c.name)
		}
	}
}

func TestCaster_Cast(t *testing.T) {
	c := New(roomGrid(), 100, 1000, 0)
	if c.Step != DefaultStep {
		t.Errorf("Expected default step, got %f", c.Step)
	}

	hit, ok := c.Cast(mgl64.Vec2{150, 150}, 0)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if row, col := c.CellAtHit(hit); row != 1 || col != 2 {
		t.Errorf("Expected hit cell (1, 2), got (%d, %d)", row, col)
	}
}

func TestCastRay_SmallerStepIsMorePrecise(t *testing.T) {
	coarse, _ := CastRay(roomGrid(), mgl64.Vec2{150.05, 150}, 0, 100, 1000, 1)
	fine, _ := CastRay(roomGrid(), mgl64.Vec2{150.05, 150}, 0, 100, 1000, 0.01)

	exact := 200 - 150.05
	if math.Abs(fine.Distance-exact) > math.Abs(coarse.Distance-exact) {
		t.Errorf("Expected finer step to be at least as precise: fine=%f coarse=%f", fine.Distance, coarse.Distance)
	}
}
