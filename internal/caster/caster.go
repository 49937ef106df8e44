package caster

import (
	"math"

	"raymaze/internal/maze"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultStep is the march increment in world units.
const DefaultStep = 0.1

// Hit is the first wall sample found along a ray.
type Hit struct {
	Distance float64 // Distance marched from the origin
	X, Y     float64 // World coordinates of the sample inside the wall cell
}

// Point returns the hit position as a vector.
func (h Hit) Point() mgl64.Vec2 {
	return mgl64.Vec2{h.X, h.Y}
}

// Direction returns the unit vector for a heading in radians.
func Direction(heading float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(heading), math.Sin(heading)}
}

// CastRay marches from origin along heading in fixed steps until a sample lands in a wall
// cell or the marched distance reaches maxDepth. Samples outside the grid count as walls,
// so rays stop at the maze boundary. The returned distance is the first one at which a
// wall is encountered.
func CastRay(grid maze.Lookup, origin mgl64.Vec2, heading, blockSize, maxDepth, step float64) (Hit, bool) {
	if blockSize <= 0 || maxDepth <= 0 || step <= 0 {
		return Hit{}, false
	}
	if !finite(origin[0]) || !finite(origin[1]) || !finite(heading) {
		return Hit{}, false
	}

	dir := Direction(heading)

	// Distance is derived from the step index so it never drifts.
	for i := 0; ; i++ {
		distance := float64(i) * step
		if distance >= maxDepth {
			break
		}

		sample := origin.Add(dir.Mul(distance))
		if maze.Blocked(grid, sample[0], sample[1], blockSize) {
			return Hit{Distance: distance, X: sample[0], Y: sample[1]}, true
		}
	}

	return Hit{}, false
}

// Caster binds the maze and the march parameters shared by every view of one frame,
// so the renderers and the player agree on block size.
type Caster struct {
	Grid      maze.Lookup
	BlockSize float64
	MaxDepth  float64
	Step      float64
}

// New creates a caster. A non-positive step falls back to DefaultStep.
func New(grid maze.Lookup, blockSize, maxDepth, step float64) *Caster {
	if step <= 0 {
		step = DefaultStep
	}
	return &Caster{
		Grid:      grid,
		BlockSize: blockSize,
		MaxDepth:  maxDepth,
		Step:      step,
	}
}

// Cast casts a single ray from origin.
func (c *Caster) Cast(origin mgl64.Vec2, heading float64) (Hit, bool) {
	return CastRay(c.Grid, origin, heading, c.BlockSize, c.MaxDepth, c.Step)
}

// CellAtHit returns the grid indices of the wall cell a hit landed in.
func (c *Caster) CellAtHit(h Hit) (row, col int) {
	return maze.WorldToCell(h.X, h.Y, c.BlockSize)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
