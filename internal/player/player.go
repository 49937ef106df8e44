package player

import (
	"math"

	"raymaze/internal/caster"
	"raymaze/internal/maze"

	"github.com/go-gl/mathgl/mgl64"
)

// CollisionMode selects how a proposed move is tested against the maze.
type CollisionMode int

const (
	// CollisionPoint tests only the target point. A step longer than a cell can
	// pass through a one-cell wall.
	CollisionPoint CollisionMode = iota
	// CollisionSwept also samples the segment between the current and target positions.
	CollisionSwept
)

// ParseCollisionMode maps a config string to a mode; unknown values fall back to point.
func ParseCollisionMode(s string) CollisionMode {
	if s == "swept" {
		return CollisionSwept
	}
	return CollisionPoint
}

// sweptSamplesPerBlock is how many segment samples swept collision takes per block length.
const sweptSamplesPerBlock = 4

// Pose is an immutable view of the player used by renderers.
type Pose struct {
	Position mgl64.Vec2 // World coordinates
	Heading  float64    // Radians, never normalized
	FOV      float64    // Field of view in radians
}

// Player owns the simulation pose and enforces that it never enters a wall cell.
type Player struct {
	pos       mgl64.Vec2
	heading   float64
	fov       float64
	collision CollisionMode
}

// New creates a player at position facing heading.
func New(position mgl64.Vec2, heading, fov float64) *Player {
	return &Player{
		pos:     position,
		heading: heading,
		fov:     fov,
	}
}

// SetCollisionMode switches between point and swept collision.
func (p *Player) SetCollisionMode(mode CollisionMode) {
	p.collision = mode
}

// Position returns the current world position.
func (p *Player) Position() mgl64.Vec2 {
	return p.pos
}

// Heading returns the raw, accumulated heading in radians.
func (p *Player) Heading() float64 {
	return p.heading
}

// FOV returns the field of view in radians.
func (p *Player) FOV() float64 {
	return p.fov
}

// Pose returns a copy of the current pose.
func (p *Player) Pose() Pose {
	return Pose{Position: p.pos, Heading: p.heading, FOV: p.fov}
}

// NormalizedHeading returns the heading wrapped into [0, 2π), for display only.
func (p *Player) NormalizedHeading() float64 {
	return NormalizeAngle(p.heading)
}

// NormalizeAngle wraps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// RotateLeft turns counter-clockwise on screen by delta radians.
func (p *Player) RotateLeft(delta float64) {
	p.heading -= delta
}

// RotateRight turns clockwise on screen by delta radians.
func (p *Player) RotateRight(delta float64) {
	p.heading += delta
}

// MoveForward steps distance along the heading. It reports whether the move was committed.
func (p *Player) MoveForward(grid maze.Lookup, blockSize, distance float64) bool {
	return p.moveAlong(grid, blockSize, caster.Direction(p.heading).Mul(distance))
}

// MoveBackward steps distance against the heading. It reports whether the move was committed.
func (p *Player) MoveBackward(grid maze.Lookup, blockSize, distance float64) bool {
	return p.moveAlong(grid, blockSize, caster.Direction(p.heading).Mul(-distance))
}

// Strafe steps sideways; positive distance moves to the right of the heading.
func (p *Player) Strafe(grid maze.Lookup, blockSize, distance float64) bool {
	return p.moveAlong(grid, blockSize, caster.Direction(p.heading+math.Pi/2).Mul(distance))
}

func (p *Player) moveAlong(grid maze.Lookup, blockSize float64, delta mgl64.Vec2) bool {
	if blockSize <= 0 {
		return false
	}
	target := p.pos.Add(delta)
	if p.collides(grid, target, blockSize) {
		return false
	}
	p.pos = target
	return true
}

func (p *Player) collides(grid maze.Lookup, target mgl64.Vec2, blockSize float64) bool {
	if IsCollision(grid, target[0], target[1], blockSize) {
		return true
	}
	if p.collision != CollisionSwept {
		return false
	}

	segment := target.Sub(p.pos)
	length := segment.Len()
	spacing := blockSize / sweptSamplesPerBlock
	samples := int(math.Ceil(length / spacing))
	for i := 1; i < samples; i++ {
		point := p.pos.Add(segment.Mul(float64(i) / float64(samples)))
		if IsCollision(grid, point[0], point[1], blockSize) {
			return true
		}
	}
	return false
}

// IsCollision is the movement predicate: a point outside the grid or inside a wall
// cell is rejected.
func IsCollision(grid maze.Lookup, x, y, blockSize float64) bool {
	return maze.Blocked(grid, x, y, blockSize)
}
