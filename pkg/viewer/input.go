package viewer

import (
	"netherbox/pkg/engine"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeySource reports the raw state of a key
type KeySource interface {
	GetKey(key glfw.Key) glfw.Action
}

// watchedKeys are the keys the viewer reacts to
var watchedKeys = []glfw.Key{
	glfw.KeyLeft,
	glfw.KeyRight,
	glfw.KeyUp,
	glfw.KeyDown,
	glfw.KeyW,
	glfw.KeyS,
	glfw.KeyEscape,
	glfw.KeyP,
}

// InputHandler tracks key state between frames
type InputHandler struct {
	source       KeySource
	currentKeys  map[glfw.Key]bool
	previousKeys map[glfw.Key]bool
	wheelDelta   float64
}

// NewInputHandler creates an input handler polling source
func NewInputHandler(source KeySource) *InputHandler {
	return &InputHandler{
		source:       source,
		currentKeys:  make(map[glfw.Key]bool),
		previousKeys: make(map[glfw.Key]bool),
	}
}

// Update snapshots the key state for this frame
func (ih *InputHandler) Update() {
	ih.previousKeys, ih.currentKeys = ih.currentKeys, ih.previousKeys
	for _, key := range watchedKeys {
		action := ih.source.GetKey(key)
		ih.currentKeys[key] = action == glfw.Press || action == glfw.Repeat
	}
}

// IsKeyDown reports whether key is held this frame
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsKeyReleased reports whether key went up this frame
func (ih *InputHandler) IsKeyReleased(key glfw.Key) bool {
	return !ih.currentKeys[key] && ih.previousKeys[key]
}

// Scroll accumulates mouse wheel movement
func (ih *InputHandler) Scroll(yoffset float64) {
	ih.wheelDelta += yoffset
}

// WheelDelta returns the wheel movement since the last call
func (ih *InputHandler) WheelDelta() float64 {
	d := ih.wheelDelta
	ih.wheelDelta = 0
	return d
}

// Controls maps held keys to camera motion
type Controls struct {
	OrbitSpeed float32
	ZoomSpeed  float32
}

// Action is what the input asked for this frame
type Action struct {
	Moved     bool
	Quit      bool
	SaveFrame bool
}

// Apply moves the camera according to the keys held this frame. Arrows orbit,
// W and S or the wheel zoom, Escape quits and P saves the frame.
func (c Controls) Apply(ih *InputHandler, cam *engine.Camera) Action {
	var act Action
	if ih.IsKeyDown(glfw.KeyEscape) {
		act.Quit = true
		return act
	}

	var yaw, pitch float32
	if ih.IsKeyDown(glfw.KeyLeft) {
		yaw += c.OrbitSpeed
	}
	if ih.IsKeyDown(glfw.KeyRight) {
		yaw -= c.OrbitSpeed
	}
	if ih.IsKeyDown(glfw.KeyUp) {
		pitch -= c.OrbitSpeed
	}
	if ih.IsKeyDown(glfw.KeyDown) {
		pitch += c.OrbitSpeed
	}
	if yaw != 0 || pitch != 0 {
		cam.Orbit(yaw, pitch)
		act.Moved = true
	}

	zoom := float32(ih.WheelDelta()) * c.ZoomSpeed
	if ih.IsKeyDown(glfw.KeyW) {
		zoom += c.ZoomSpeed
	}
	if ih.IsKeyDown(glfw.KeyS) {
		zoom -= c.ZoomSpeed
	}
	if zoom != 0 {
		cam.Zoom(zoom)
		act.Moved = true
	}

	act.SaveFrame = ih.IsKeyPressed(glfw.KeyP)
	return act
}
