package projection

import (
	"math"

	"raymaze/internal/caster"
	"raymaze/internal/maze"
	"raymaze/internal/player"
)

// FishEyeMode selects how raw ray distances are flattened onto the view plane.
type FishEyeMode int

const (
	// FishEyeExact multiplies each ray by cos(rayAngle - heading).
	FishEyeExact FishEyeMode = iota
	// FishEyeApprox multiplies every ray by the constant cos(fov/2).
	FishEyeApprox
)

// ParseFishEyeMode maps a config string to a mode; anything but "approx" is exact.
func ParseFishEyeMode(s string) FishEyeMode {
	if s == "approx" {
		return FishEyeApprox
	}
	return FishEyeExact
}

func (m FishEyeMode) String() string {
	if m == FishEyeApprox {
		return "approx"
	}
	return "exact"
}

// Params are the screen-side parameters of the 3D projection.
type Params struct {
	ScreenWidth  int
	ScreenHeight int
	Scale        float64 // Wall thickness tuning factor
	FishEye      FishEyeMode
}

// Column is the projection of one screen column.
type Column struct {
	Index     int
	Angle     float64 // Ray angle in radians
	Hit       caster.Hit
	HasHit    bool
	Corrected float64 // Fish-eye corrected distance
	Height    float64 // Unclamped wall height in pixels
	Start     int     // First visible row
	End       int     // One past the last visible row
	Visible   bool    // Whether a span should be drawn
	Cell      rune    // Map character of the wall that was hit
}

// ColumnAngle returns the ray angle for column in a screen of width columns.
// Column 0 is the left edge of the field of view.
func ColumnAngle(heading, fov float64, column, width int) float64 {
	return heading - fov/2 + (float64(column)/float64(width))*fov
}

// CorrectDistance removes fish-eye distortion from a raw ray distance.
func CorrectDistance(raw, rayAngle, heading, fov float64, mode FishEyeMode) float64 {
	if mode == FishEyeApprox {
		return raw * math.Cos(fov/2)
	}
	return raw * math.Cos(rayAngle-heading)
}

// WallHeight returns screenHeight / corrected * scale. It reports false when the distance
// or the resulting height is non-positive or not finite.
func WallHeight(screenHeight int, corrected, scale float64) (float64, bool) {
	if !(corrected > 0) || math.IsInf(corrected, 0) {
		return 0, false
	}
	height := float64(screenHeight) / corrected * scale
	if !(height > 0) || math.IsInf(height, 0) {
		return 0, false
	}
	return height, true
}

// CenteredSpan centers a wall of height pixels on the horizon and clamps it to the screen.
// end is exclusive.
func CenteredSpan(screenHeight int, height float64) (start, end int, ok bool) {
	if screenHeight <= 0 || !(height > 0) {
		return 0, 0, false
	}
	top := float64(screenHeight)/2 - height/2
	bottom := top + height

	start = int(math.Max(0, math.Floor(top)))
	end = int(math.Min(float64(screenHeight), math.Floor(bottom)))
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// ProjectColumn casts the ray for one screen column and computes its wall span.
// A miss leaves the column at background; degenerate distances are skipped.
func ProjectColumn(c *caster.Caster, pose player.Pose, params Params, column int) Column {
	angle := ColumnAngle(pose.Heading, pose.FOV, column, params.ScreenWidth)
	col := Column{Index: column, Angle: angle}

	hit, ok := c.Cast(pose.Position, angle)
	if !ok {
		return col
	}
	col.Hit = hit
	col.HasHit = true
	col.Corrected = CorrectDistance(hit.Distance, angle, pose.Heading, pose.FOV, params.FishEye)

	if g, isGrid := c.Grid.(*maze.Grid); isGrid {
		row, cell := c.CellAtHit(hit)
		col.Cell = g.Rune(row, cell)
	}

	height, ok := WallHeight(params.ScreenHeight, col.Corrected, params.Scale)
	if !ok {
		return col
	}
	col.Height = height
	col.Start, col.End, col.Visible = CenteredSpan(params.ScreenHeight, height)
	return col
}
