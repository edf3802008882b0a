package engine

import "github.com/go-gl/glfw/v3.3/glfw"

// Input values passed to callbacks, mirroring GLFW's.
const (
	Release = int(glfw.Release)
	Press   = int(glfw.Press)
	Repeat  = int(glfw.Repeat)

	MouseButtonLeft   = int(glfw.MouseButtonLeft)
	MouseButtonRight  = int(glfw.MouseButtonRight)
	MouseButtonMiddle = int(glfw.MouseButtonMiddle)

	KeyEscape = int(glfw.KeyEscape)
	KeyW      = int(glfw.KeyW)
)

type (
	KeyboardCallback    func(key, scancode, action, mods int)
	MouseCursorCallback func(x, y float64)
	MouseButtonCallback func(button, action, mods int)
	MouseScrollCallback func(dx, dy float64)
)

func (e *Engine) SetKeyboardCallback(cb KeyboardCallback) {
	e.keyboardCallback = cb
}

func (e *Engine) SetMouseCursorCallback(cb MouseCursorCallback) {
	e.mouseCursorCallback = cb
}

func (e *Engine) SetMouseButtonCallback(cb MouseButtonCallback) {
	e.mouseButtonCallback = cb
}

func (e *Engine) SetMouseScrollCallback(cb MouseScrollCallback) {
	e.mouseScrollCallback = cb
}

func (e *Engine) onKey(key, scancode, action, mods int) {
	if e.keyboardCallback != nil {
		e.keyboardCallback(key, scancode, action, mods)
	}
}

func (e *Engine) onCursor(x, y float64) {
	if e.mouseCursorCallback != nil {
		e.mouseCursorCallback(x, y)
	}
}

func (e *Engine) onMouseButton(button, action, mods int) {
	if e.mouseButtonCallback != nil {
		e.mouseButtonCallback(button, action, mods)
	}
}

func (e *Engine) onScroll(dx, dy float64) {
	if e.mouseScrollCallback != nil {
		e.mouseScrollCallback(dx, dy)
	}
}
