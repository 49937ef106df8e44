package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// GameLoop manages the main update and render cycle
type GameLoop struct {
	game         *Game
	inputHandler *InputHandler
	hud          *HUD
	perf         perfWatch

	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
}

// NewGameLoop creates a new game loop. A nil keys source polls ebiten.
func NewGameLoop(game *Game, keys KeyState) *GameLoop {
	return &GameLoop{
		game:         game,
		inputHandler: NewInputHandler(keys),
		hud:          NewHUD(game),
		perf:         perfWatch{threshold: game.config.Threading.TargetFPS},
	}
}

// Update handles input for one tick and publishes the resulting pose.
func (gl *GameLoop) Update() error {
	start := time.Now()
	defer func() { gl.lastUpdateDuration = time.Since(start) }()

	intent := gl.inputHandler.Poll()
	if intent.Quit {
		gl.game.log.Info("escape pressed, quitting")
		return ebiten.Termination
	}
	gl.game.apply(intent)
	return nil
}

// Draw renders the latest published pose and the HUD.
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	monitor := gl.game.threading.PerformanceMonitor
	frameTimer := monitor.StartFrame()
	start := time.Now()

	gl.game.renderFrame(gl.game.poses.Load())
	gl.game.present(screen)
	if gl.game.showHUD {
		gl.hud.Draw(screen)
	}

	frameTimer.EndFrame()
	gl.lastDrawDuration = time.Since(start)
	monitor.LogAlerts(gl.game.log)
	gl.maybeLogPerfDrop()
}

// Layout returns the framebuffer dimensions
func (gl *GameLoop) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gl.game.fb.Width(), gl.game.fb.Height()
}
