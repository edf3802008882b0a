package engine

import (
	"errors"
	"fmt"

	"Forge3D/internal/config"
	"Forge3D/internal/core"
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrNotInitialized     = errors.New("engine: not initialized")
	ErrAlreadyInitialized = errors.New("engine: already initialized")
	ErrLeakedObjects      = errors.New("engine: objects still alive at shutdown")
)

// Engine is the rendering context: configuration, graphics driver, window
// and frame counter. Init and Free bracket its life; everything else is
// called once per frame from the thread that called Init.
type Engine struct {
	cfg       config.Config
	container *scene.Container

	window     *glfw.Window
	driver     renderer.Driver
	prevDriver renderer.Driver

	width, height int32
	frameNr       uint64
	initialized   bool
	closeRequest  bool

	keyboardCallback    KeyboardCallback
	mouseCursorCallback MouseCursorCallback
	mouseButtonCallback MouseButtonCallback
	mouseScrollCallback MouseScrollCallback
}

// New returns an engine using cfg and the default scene container.
func New(cfg config.Config) *Engine {
	return &Engine{cfg: cfg, container: scene.Default()}
}

// Init starts logging, opens the window and installs the graphics driver.
// A headless configuration installs the null driver and opens nothing.
func (e *Engine) Init() error {
	if e.initialized {
		return ErrAlreadyInitialized
	}
	logger.Init()
	if e.cfg.Engine.LogLevel != "" {
		if err := logger.SetLevel(e.cfg.Engine.LogLevel); err != nil {
			logger.Log.Warn("Invalid log level", zap.String("level", e.cfg.Engine.LogLevel), zap.Error(err))
		}
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	logger.Log.Info("Forge3D initializing...", zap.Bool("headless", e.cfg.Engine.Headless))

	e.width = int32(e.cfg.Window.StartSize.X)
	e.height = int32(e.cfg.Window.StartSize.Y)
	if e.cfg.Engine.Headless {
		e.driver = renderer.NewNullDriver()
	} else {
		if err := e.openWindow(); err != nil {
			return err
		}
		e.driver = renderer.NewGLDriver()
	}

	e.prevDriver = renderer.CurrentDriver()
	renderer.SetDriver(e.driver)
	e.driver.Viewport(e.width, e.height)
	e.driver.SetDepthTest(true)

	e.frameNr = 0
	e.closeRequest = false
	e.initialized = true
	logger.Log.Info("Context initialized", zap.Int32("width", e.width), zap.Int32("height", e.height))
	return nil
}

// Free releases the scene, every managed resource still alive and the
// window. Objects that survive it are reported as ErrLeakedObjects, so every
// list, pipeline and loose node must be released before calling it.
func (e *Engine) Free() error {
	if !e.initialized {
		return ErrNotInitialized
	}
	logger.Log.Debug("Releasing context...")

	errs := e.container.Reset()
	if _, err := core.ForceRelease(); err != nil {
		errs = multierr.Append(errs, err)
	}
	e.closeWindow()
	renderer.SetDriver(e.prevDriver)
	e.initialized = false

	if n := core.NrOfObjects(); n != 0 {
		logger.Log.Warn("Objects still alive after shutdown", zap.Int64("count", n))
		errs = multierr.Append(errs, fmt.Errorf("%w: %d", ErrLeakedObjects, n))
	}
	logger.Log.Info("Context deinitialized")
	logger.Sync()
	return errs
}

// ProcessEvents polls the window system. It returns false once the window
// was asked to close.
func (e *Engine) ProcessEvents() bool {
	if !e.initialized {
		return false
	}
	if e.window != nil {
		glfw.PollEvents()
		if e.window.ShouldClose() {
			return false
		}
	}
	return !e.closeRequest
}

// RequestClose makes the next ProcessEvents return false.
func (e *Engine) RequestClose() {
	e.closeRequest = true
	if e.window != nil {
		e.window.SetShouldClose(true)
	}
}

// Clear clears color and depth with the configured clear color.
func (e *Engine) Clear() {
	if !e.initialized {
		return
	}
	c := e.cfg.Engine.ClearColor
	e.driver.ClearColor(float32(c.R), float32(c.G), float32(c.B), 1)
	e.driver.Clear(renderer.ClearColorBit | renderer.ClearDepthBit)
}

// Swap presents the frame and advances the frame counter.
func (e *Engine) Swap() {
	if !e.initialized {
		return
	}
	if e.window != nil {
		e.window.SwapBuffers()
	}
	e.frameNr++
}

func (e *Engine) FrameNr() uint64 {
	return e.frameNr
}

func (e *Engine) WindowSize() (int32, int32) {
	return e.width, e.height
}

func (e *Engine) IsInitialized() bool {
	return e.initialized
}

func (e *Engine) Config() config.Config {
	return e.cfg
}

// Container returns the container loaded scenes are stored in.
func (e *Engine) Container() *scene.Container {
	return e.container
}

// Driver returns the graphics driver installed by Init.
func (e *Engine) Driver() renderer.Driver {
	return e.driver
}
