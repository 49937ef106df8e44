package game

import (
	"raymaze/internal/game/keytracker"

	"github.com/hajimehoshi/ebiten/v2"
)

// KeyState reports whether a key is held this tick.
type KeyState func(ebiten.Key) bool

// Intent is the set of actions requested during one tick.
type Intent struct {
	Forward     bool
	Backward    bool
	RotateLeft  bool
	RotateRight bool
	StrafeLeft  bool
	StrafeRight bool

	ToggleView    bool
	ToggleMinimap bool
	ToggleHUD     bool
	Quit          bool
}

// InputHandler turns keyboard state into intents.
type InputHandler struct {
	pressed         KeyState
	mKeyTracker     keytracker.KeyStateTracker
	tabKeyTracker   keytracker.KeyStateTracker
	slashKeyTracker keytracker.KeyStateTracker
}

// NewInputHandler creates an input handler reading keys from pressed, or from
// ebiten when pressed is nil.
func NewInputHandler(pressed KeyState) *InputHandler {
	if pressed == nil {
		pressed = ebiten.IsKeyPressed
	}
	return &InputHandler{pressed: pressed}
}

// Poll samples the keyboard. Movement keys act while held; toggles fire once per press.
func (ih *InputHandler) Poll() Intent {
	return Intent{
		Forward:     ih.any(ebiten.KeyW, ebiten.KeyUp),
		Backward:    ih.any(ebiten.KeyS, ebiten.KeyDown),
		RotateLeft:  ih.any(ebiten.KeyA, ebiten.KeyLeft),
		RotateRight: ih.any(ebiten.KeyD, ebiten.KeyRight),
		StrafeLeft:  ih.pressed(ebiten.KeyQ),
		StrafeRight: ih.pressed(ebiten.KeyE),

		ToggleView:    ih.mKeyTracker.Observe(ih.pressed(ebiten.KeyM)),
		ToggleMinimap: ih.tabKeyTracker.Observe(ih.pressed(ebiten.KeyTab)),
		ToggleHUD:     ih.slashKeyTracker.Observe(ih.pressed(ebiten.KeySlash)),
		Quit:          ih.pressed(ebiten.KeyEscape),
	}
}

func (ih *InputHandler) any(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ih.pressed(k) {
			return true
		}
	}
	return false
}
