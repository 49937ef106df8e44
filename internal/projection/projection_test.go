package projection

import (
	"math"
	"testing"

	"raymaze/internal/caster"
	"raymaze/internal/maze"
	"raymaze/internal/player"

	"github.com/go-gl/mathgl/mgl64"
)

const fov = math.Pi / 3

func TestColumnAngle(t *testing.T) {
	heading := 0.5

	if got := ColumnAngle(heading, fov, 0, 640); math.Abs(got-(heading-fov/2)) > 1e-12 {
		t.Errorf("Expected column 0 at the left edge, got %f", got)
	}
	if got := ColumnAngle(heading, fov, 320, 640); math.Abs(got-heading) > 1e-12 {
		t.Errorf("Expected the middle column on the heading, got %f", got)
	}
	last := ColumnAngle(heading, fov, 639, 640)
	if last >= heading+fov/2 || last < heading+fov/2-fov/640-1e-12 {
		t.Errorf("Expected the last column one step short of the right edge, got %f", last)
	}
}

func TestCorrectDistance(t *testing.T) {
	// On the heading the exact correction is the identity.
	if got := CorrectDistance(100, 1.0, 1.0, fov, FishEyeExact); got != 100 {
		t.Errorf("Expected 100, got %f", got)
	}
	if got := CorrectDistance(100, 1.0+fov/2, 1.0, fov, FishEyeExact); math.Abs(got-100*math.Cos(fov/2)) > 1e-9 {
		t.Errorf("Expected edge ray scaled by cos(fov/2), got %f", got)
	}
	// The approximation ignores the ray angle.
	if got := CorrectDistance(100, 1.0, 1.0, fov, FishEyeApprox); math.Abs(got-100*math.Cos(fov/2)) > 1e-9 {
		t.Errorf("Expected constant cos(fov/2) factor, got %f", got)
	}
}

func TestWallHeight(t *testing.T) {
	h, ok := WallHeight(900, 50, 100)
	if !ok || h != 1800 {
		t.Errorf("Expected height 1800, got %f (ok=%v)", h, ok)
	}

	for _, d := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		if _, ok := WallHeight(900, d, 100); ok {
			t.Errorf("Expected distance %f to be rejected", d)
		}
	}
}

func TestCenteredSpan(t *testing.T) {
	start, end, ok := CenteredSpan(900, 300)
	if !ok || start != 300 || end != 600 {
		t.Errorf("Expected [300, 600), got [%d, %d) ok=%v", start, end, ok)
	}

	// Taller than the screen: clamped to the full height.
	start, end, ok = CenteredSpan(900, 5000)
	if !ok || start != 0 || end != 900 {
		t.Errorf("Expected [0, 900), got [%d, %d) ok=%v", start, end, ok)
	}

	if _, _, ok := CenteredSpan(900, 0); ok {
		t.Error("Expected zero height to be invisible")
	}
}

func roomCaster() *caster.Caster {
	grid := maze.NewGrid([]string{
		"#######",
		"#     #",
		"#     |",
		"#     #",
		"#######",
	})
	return caster.New(grid, 100, 1000, caster.DefaultStep)
}

func TestProjectColumn_WallDirectlyAhead(t *testing.T) {
	c := roomCaster()
	pose := player.Pose{Position: mgl64.Vec2{150, 250}, Heading: 0, FOV: fov}
	params := Params{ScreenWidth: 640, ScreenHeight: 480, Scale: 100, FishEye: FishEyeApprox}

	col := ProjectColumn(c, pose, params, 320)
	if !col.HasHit {
		t.Fatal("Expected a hit on the east wall")
	}
	d := col.Hit.Distance
	if math.Abs(d-450) > caster.DefaultStep {
		t.Errorf("Expected raw distance ~450, got %f", d)
	}

	want := 480 / (d * math.Cos(fov/2)) * 100
	if math.Abs(col.Height-want) > 1e-9 {
		t.Errorf("Expected height %f, got %f", want, col.Height)
	}
	if !col.Visible {
		t.Fatal("Expected a visible span")
	}
	if span := col.End - col.Start; math.Abs(float64(span)-want) > 1 {
		t.Errorf("Expected span ~%f rows, got %d", want, span)
	}
	if col.Cell != '|' {
		t.Errorf("Expected wall character '|', got %q", col.Cell)
	}
}

func TestProjectColumn_ExactModeOnHeading(t *testing.T) {
	c := roomCaster()
	pose := player.Pose{Position: mgl64.Vec2{150, 250}, Heading: 0, FOV: fov}
	params := Params{ScreenWidth: 640, ScreenHeight: 480, Scale: 100}

	col := ProjectColumn(c, pose, params, 320)
	if col.Corrected != col.Hit.Distance {
		t.Errorf("Expected no correction on the heading, got %f vs %f", col.Corrected, col.Hit.Distance)
	}
}

func TestProjectColumn_Miss(t *testing.T) {
	grid := maze.NewGrid([]string{"          "})
	c := caster.New(grid, 100, 200, caster.DefaultStep)
	pose := player.Pose{Position: mgl64.Vec2{50, 50}, Heading: 0, FOV: fov}

	col := ProjectColumn(c, pose, Params{ScreenWidth: 10, ScreenHeight: 10, Scale: 1}, 5)
	if col.HasHit || col.Visible {
		t.Errorf("Expected miss with no span, got %+v", col)
	}
}

func TestProjectColumn_DegenerateDistanceSkipped(t *testing.T) {
	// Origin inside a wall: distance 0 must not reach the height math.
	c := roomCaster()
	pose := player.Pose{Position: mgl64.Vec2{50, 50}, Heading: 0, FOV: fov}

	col := ProjectColumn(c, pose, Params{ScreenWidth: 10, ScreenHeight: 10, Scale: 1}, 5)
	if !col.HasHit {
		t.Fatal("Expected a hit")
	}
	if col.Visible || col.Height != 0 {
		t.Errorf("Expected column to be skipped, got %+v", col)
	}
}

func TestParseFishEyeMode(t *testing.T) {
	if ParseFishEyeMode("approx") != FishEyeApprox {
		t.Error("Expected approx mode")
	}
	if ParseFishEyeMode("exact") != FishEyeExact || ParseFishEyeMode("") != FishEyeExact {
		t.Error("Expected exact mode fallback")
	}
	if FishEyeApprox.String() != "approx" || FishEyeExact.String() != "exact" {
		t.Error("Unexpected mode names")
	}
}
