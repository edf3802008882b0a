package main

import (
	"fmt"
	"path/filepath"

	"Forge3D/internal/config"
	"Forge3D/internal/engine"
	"Forge3D/internal/loader"
	"Forge3D/internal/logger"
	"Forge3D/internal/pipeline"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// viewState is what the input callbacks change between frames.
type viewState struct {
	oldMouseX, oldMouseY float64
	rotX, rotY           float32
	rightDown            bool
	transZ               float32
}

func runDemo(cfg config.Config, opts *options) (err error) {
	eng := engine.New(cfg)
	if err := eng.Init(); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, eng.Free())
	}()

	view := &viewState{transZ: -50}
	pipe, sources := newScenePipeline(opts)
	defer func() {
		err = multierr.Append(err, pipe.Release())
	}()

	eng.SetMouseCursorCallback(func(x, y float64) {
		if view.rightDown {
			view.rotY += float32(x - view.oldMouseX)
			view.rotX += float32(y - view.oldMouseY)
		}
		view.oldMouseX, view.oldMouseY = x, y
	})
	eng.SetMouseButtonCallback(func(button, action, _ int) {
		if button == engine.MouseButtonRight {
			view.rightDown = action == engine.Press
		}
	})
	eng.SetMouseScrollCallback(func(_, dy float64) {
		view.transZ += float32(dy)
	})
	eng.SetKeyboardCallback(func(key, _, action, _ int) {
		switch {
		case key == engine.KeyW && action == engine.Release:
			pipe.SetWireframe(!pipe.IsWireframe())
		case key == engine.KeyEscape && action == engine.Press:
			eng.RequestClose()
		}
	})

	root, err := loader.New(eng.Container()).Load(opts.scenePath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.scenePath, err)
	}
	fmt.Print(root.Base().TreeAsString())

	container := eng.Container()
	container.FindLight("Omni002").SetColor(mgl32.Vec3{1, 0, 0})
	container.FindLight("Omni003").SetColor(mgl32.Vec3{0, 0, 1})
	container.FindMaterial("01 - Default").SetEmission(mgl32.Vec3{1, 0, 0})

	if dir := cfg.Engine.ShaderDir; dir != "" && sources != nil {
		watcher, err := watchShaders(dir, sources)
		if err != nil {
			logger.Log.Warn("Shader hot reload disabled", zap.String("dir", dir), zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	camera := scene.NewCamera()
	camera.SetProjMatrix(mgl32.Perspective(mgl32.DegToRad(45), 1, 1, 1000))
	defer camera.Release()
	list := scene.NewList()
	defer list.Release()

	for eng.ProcessEvents() {
		camera.SetMatrix(mgl32.Translate3D(0, 10, -view.transZ))
		root.Base().SetMatrix(mgl32.HomogRotate3DX(mgl32.DegToRad(view.rotX)).
			Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(view.rotY))))

		list.Reset()
		if err := list.Process(root, mgl32.Ident4()); err != nil {
			return err
		}

		eng.Clear()
		pipe.SetViewport(eng.WindowSize())
		if err := pipe.Render(camera.ViewMatrix(), camera.ProjMatrix(), list); err != nil {
			return err
		}
		eng.Swap()

		if stopAfter(cfg, opts, eng.FrameNr()) {
			eng.RequestClose()
		}
	}
	return nil
}

// scenePipeline is what the demo needs from the forward and deferred pipelines.
type scenePipeline interface {
	Render(camera, proj mgl32.Mat4, list *scene.List) error
	SetViewport(width, height int32)
	IsWireframe() bool
	SetWireframe(enabled bool)
	Release() error
}

// newScenePipeline returns the pipeline chosen by opts and the sources that
// shader files may override. Only the forward pipeline reads default.vert
// and default.frag.
func newScenePipeline(opts *options) (scenePipeline, *pipeline.Sources) {
	if opts.deferred {
		return pipeline.NewDeferred(), nil
	}
	p := pipeline.NewDefault()
	return p, p.Sources()
}

// stopAfter reports whether the frame limit was reached. Headless runs
// without a limit render a single frame.
func stopAfter(cfg config.Config, opts *options, frameNr uint64) bool {
	limit := opts.frames
	if limit == 0 && cfg.Engine.Headless {
		limit = 1
	}
	return limit != 0 && frameNr >= limit
}

func watchShaders(dir string, src *pipeline.Sources) (*pipeline.Watcher, error) {
	w, err := pipeline.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Watch(filepath.Join(dir, "default.vert"), src, renderer.VertexShader); err != nil {
		return nil, multierr.Append(err, w.Close())
	}
	if err := w.Watch(filepath.Join(dir, "default.frag"), src, renderer.FragmentShader); err != nil {
		return nil, multierr.Append(err, w.Close())
	}
	return w, nil
}
