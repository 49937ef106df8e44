package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for values the renderer cannot work with.
var ErrInvalid = errors.New("invalid config")

// Config holds all raymaze configuration values
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	World     WorldConfig     `yaml:"world"`
	Player    PlayerConfig    `yaml:"player"`
	Camera    CameraConfig    `yaml:"camera"`
	Movement  MovementConfig  `yaml:"movement"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Threading ThreadingConfig `yaml:"threading"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`  // Framebuffer width in pixels
	ScreenHeight int    `yaml:"screen_height"` // Framebuffer height in pixels
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
	StartView    string `yaml:"start_view"` // 2d or 3d
}

type WorldConfig struct {
	MazeFile  string  `yaml:"maze_file"`
	BlockSize float64 `yaml:"block_size"` // World units per cell edge
	PadRows   bool    `yaml:"pad_rows"`   // Pad short rows instead of rejecting the maze
}

type PlayerConfig struct {
	StartX       float64 `yaml:"start_x"`
	StartY       float64 `yaml:"start_y"`
	StartHeading float64 `yaml:"start_heading"`
}

type CameraConfig struct {
	FieldOfView float64 `yaml:"field_of_view"`
	MaxDepth    float64 `yaml:"max_depth"`
	StepSize    float64 `yaml:"step_size"`
	ScaleFactor float64 `yaml:"scale_factor"`
	FishEye     string  `yaml:"fish_eye"` // exact or approx
}

type MovementConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	Collision     string  `yaml:"collision"` // point or swept
}

type MinimapConfig struct {
	Enabled bool    `yaml:"enabled"`
	Scale   float64 `yaml:"scale"`
	Margin  int     `yaml:"margin"`
}

type GraphicsConfig struct {
	BackgroundColor [3]int            `yaml:"background_color"`
	WallColor       [3]int            `yaml:"wall_color"`
	Palette         map[string][3]int `yaml:"palette"` // Map character -> wall colour
	PlayerColor     [3]int            `yaml:"player_color"`
	RayColor        [3]int            `yaml:"ray_color"`
	BackgroundImage string            `yaml:"background_image"`
	Rays2D          int               `yaml:"rays_2d"`
	PlayerSize      float64           `yaml:"player_size"`
	Minimap         MinimapConfig     `yaml:"minimap"`
}

type ThreadingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Workers   int     `yaml:"workers"` // 0 means one per CPU
	TargetFPS float64 `yaml:"target_fps"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"` // text or json
	PerfDebug bool   `yaml:"perf_debug"`
}

var GlobalConfig *Config

// Default returns the built-in configuration. Every field has a usable value.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1300,
			ScreenHeight: 900,
			WindowWidth:  1100,
			WindowHeight: 700,
			WindowTitle:  "raymaze",
			Resizable:    true,
			TPS:          60,
			StartView:    "2d",
		},
		World: WorldConfig{
			MazeFile:  "assets/maze.txt",
			BlockSize: 100,
		},
		Player: PlayerConfig{
			StartX:       150,
			StartY:       150,
			StartHeading: math.Pi / 3,
		},
		Camera: CameraConfig{
			FieldOfView: math.Pi / 3,
			MaxDepth:    1000,
			StepSize:    0.1,
			ScaleFactor: 100,
			FishEye:     "exact",
		},
		Movement: MovementConfig{
			MoveSpeed:     5,
			RotationSpeed: math.Pi / 60,
			Collision:     "point",
		},
		Graphics: GraphicsConfig{
			BackgroundColor: [3]int{0x33, 0x33, 0x55},
			WallColor:       [3]int{0xFF, 0xDD, 0xDD},
			Palette: map[string][3]int{
				"+": {0xFF, 0xDD, 0xDD},
				"-": {0xDD, 0xDD, 0xFF},
				"|": {0xDD, 0xFF, 0xDD},
				"g": {0xFF, 0xFF, 0x99},
			},
			PlayerColor: [3]int{0xFF, 0xFF, 0x00},
			RayColor:    [3]int{0xFF, 0xFF, 0xFF},
			Rays2D:      5,
			PlayerSize:  20,
			Minimap: MinimapConfig{
				Enabled: true,
				Scale:   0.1,
				Margin:  10,
			},
		},
		Threading: ThreadingConfig{
			Enabled:   true,
			Workers:   0,
			TargetFPS: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig overlays the YAML file on Default. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			GlobalConfig = config
			return config, nil
		}
		return nil, fmt.Errorf("read config %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}

	// Set global config for easy access
	GlobalConfig = config

	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate rejects values that would make casting or projection meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Display.ScreenWidth, c.Display.ScreenHeight)
	case c.World.BlockSize <= 0:
		return fmt.Errorf("%w: block_size %g", ErrInvalid, c.World.BlockSize)
	case c.Camera.StepSize <= 0:
		return fmt.Errorf("%w: step_size %g", ErrInvalid, c.Camera.StepSize)
	case c.Camera.MaxDepth <= 0:
		return fmt.Errorf("%w: max_depth %g", ErrInvalid, c.Camera.MaxDepth)
	case c.Camera.ScaleFactor <= 0:
		return fmt.Errorf("%w: scale_factor %g", ErrInvalid, c.Camera.ScaleFactor)
	case !(c.Camera.FieldOfView > 0 && c.Camera.FieldOfView < math.Pi):
		return fmt.Errorf("%w: field_of_view %g outside (0, π)", ErrInvalid, c.Camera.FieldOfView)
	case c.Camera.FishEye != "exact" && c.Camera.FishEye != "approx":
		return fmt.Errorf("%w: fish_eye %q", ErrInvalid, c.Camera.FishEye)
	case c.Display.StartView != "2d" && c.Display.StartView != "3d":
		return fmt.Errorf("%w: start_view %q", ErrInvalid, c.Display.StartView)
	case c.Movement.Collision != "point" && c.Movement.Collision != "swept":
		return fmt.Errorf("%w: collision %q", ErrInvalid, c.Movement.Collision)
	}
	for key := range c.Graphics.Palette {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("%w: palette key %q must be a single character", ErrInvalid, key)
		}
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetBlockSize() float64 {
	return c.World.BlockSize
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Movement.RotationSpeed
}

func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView
}

func (c *Config) GetMaxDepth() float64 {
	return c.Camera.MaxDepth
}

// GetWorkers resolves the worker count, 0 meaning one per CPU.
func (c *Config) GetWorkers() int {
	if c.Threading.Workers > 0 {
		return c.Threading.Workers
	}
	return runtime.NumCPU()
}

// PackRGB converts a config colour triple into 0xRRGGBB.
func PackRGB(c [3]int) uint32 {
	clamp := func(v int) uint32 {
		return uint32(max(0, min(255, v)))
	}
	return clamp(c[0])<<16 | clamp(c[1])<<8 | clamp(c[2])
}

// PaletteColors returns the palette keyed by map character, packed as 0xRRGGBB.
func (c *Config) PaletteColors() map[rune]uint32 {
	out := make(map[rune]uint32, len(c.Graphics.Palette))
	for key, color := range c.Graphics.Palette {
		r := []rune(key)
		if len(r) != 1 {
			continue
		}
		out[r[0]] = PackRGB(color)
	}
	return out
}
