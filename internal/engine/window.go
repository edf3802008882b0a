package engine

import (
	"fmt"
	"runtime"

	"Forge3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

func (e *Engine) openWindow() error {
	// GLFW and the GL context are bound to the thread that created them.
	runtime.LockOSThread()

	glfw.SetErrorCallback(func(code glfw.ErrorCode, desc string) {
		logger.Log.Error("[GLFW]", zap.Int("code", int(code)), zap.String("description", desc))
	})
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("engine: unable to init GLFW: %w", err)
	}
	major, minor, rev := glfw.GetVersion()
	logger.Log.Info("Using GLFW", zap.String("version", fmt.Sprintf("%d.%d.%d", major, minor, rev)))

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.StencilBits, 8)

	var monitor *glfw.Monitor
	if e.cfg.Window.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	title := e.cfg.Window.Title
	if title == "" {
		title = "Forge3D"
	}
	window, err := glfw.CreateWindow(int(e.width), int(e.height), title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("engine: unable to create window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return fmt.Errorf("engine: unable to init OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))))

	if e.cfg.Engine.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	w, h := window.GetFramebufferSize()
	e.width, e.height = int32(w), int32(h)

	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		e.onKey(int(key), scancode, int(action), int(mods))
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		e.onCursor(x, y)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		e.onMouseButton(int(button), int(action), int(mods))
	})
	window.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) {
		e.onScroll(dx, dy)
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		e.width, e.height = int32(w), int32(h)
		e.driver.Viewport(e.width, e.height)
	})

	applyTitleBar(window, e.cfg.Engine.ClearColor.Vec3())
	e.window = window
	return nil
}

func (e *Engine) closeWindow() {
	if e.window == nil {
		return
	}
	e.window.Destroy()
	e.window = nil
	glfw.Terminate()
}
