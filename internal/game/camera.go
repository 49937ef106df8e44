package game

import (
	"math"

	"raymaze/internal/caster"
	"raymaze/internal/config"
	"raymaze/internal/maze"
	"raymaze/internal/projection"
)

// FirstPersonCamera binds the maze to the projection settings, so casting,
// collision and drawing agree on one block size.
type FirstPersonCamera struct {
	Caster *caster.Caster
	Params projection.Params
	FOV    float64
}

// NewFirstPersonCamera builds the camera from config.
func NewFirstPersonCamera(cfg *config.Config, grid maze.Lookup) *FirstPersonCamera {
	return &FirstPersonCamera{
		Caster: caster.New(grid, cfg.GetBlockSize(), cfg.GetMaxDepth(), cfg.Camera.StepSize),
		Params: projection.Params{
			ScreenWidth:  cfg.GetScreenWidth(),
			ScreenHeight: cfg.GetScreenHeight(),
			Scale:        cfg.Camera.ScaleFactor,
			FishEye:      projection.ParseFishEyeMode(cfg.Camera.FishEye),
		},
		FOV: cfg.GetCameraFOV(),
	}
}

// BlockSize returns the world units per cell edge.
func (c *FirstPersonCamera) BlockSize() float64 {
	return c.Caster.BlockSize
}

// FitScale returns the pixels per world unit that fit a rows x cols maze into a
// width x height screen.
func (c *FirstPersonCamera) FitScale(rows, cols, width, height int) float64 {
	if rows <= 0 || cols <= 0 {
		return 1
	}
	sx := float64(width) / (float64(cols) * c.BlockSize())
	sy := float64(height) / (float64(rows) * c.BlockSize())
	return math.Min(sx, sy)
}
