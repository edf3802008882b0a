package pipeline

import (
	"errors"
	"fmt"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrInvalidParams = errors.New("pipeline: invalid params")
	ErrInitFailed    = errors.New("pipeline: initialization failed")
)

// Pipeline is a managed rendering recipe built around one program.
type Pipeline interface {
	core.Resource
	Program() *renderer.Program
}

// Base carries what every pipeline shares: the program, its two shader
// stages, the sources they are built from and the window viewport restored
// after off-screen passes. A dirty pipeline rebuilds itself on the next
// render, and so does one whose sources changed since the last build.
type Base struct {
	core.Object
	core.Managed
	program  *renderer.Program
	vs, fs   *renderer.Shader
	sources  *Sources
	builtRev uint64
	viewport [2]int32
}

// Empty is the sentinel pipeline returned by Cached before any render.
var Empty = &Base{Object: core.NewStaticObject(core.EmptyName), program: renderer.EmptyProgram}

var cached Pipeline = Empty

// Cached returns the pipeline that rendered last.
func Cached() Pipeline {
	return cached
}

// NewBase returns a generic pipeline compiling the given sources.
func NewBase(name, vertex, fragment string) *Base {
	b := &Base{}
	b.initBase(vertex, fragment)
	if err := b.SetName(name); err != nil {
		logger.Log.Warn("Invalid pipeline name", zap.String("name", name))
	}
	return b
}

func (b *Base) initBase(vertex, fragment string) {
	b.Object = core.NewObject()
	b.program = renderer.NewProgram()
	b.vs = renderer.NewShader()
	b.fs = renderer.NewShader()
	b.sources = NewSources(vertex, fragment)
}

func (b *Base) Program() *renderer.Program {
	return b.program
}

// Sources returns the shader sources the pipeline is built from. Changing
// them triggers a rebuild on the next render.
func (b *Base) Sources() *Sources {
	return b.sources
}

// SetViewport records the window size bound again after off-screen passes.
func (b *Base) SetViewport(width, height int32) {
	b.viewport = [2]int32{width, height}
}

func (b *Base) Viewport() (int32, int32) {
	return b.viewport[0], b.viewport[1]
}

func (b *Base) Init() error {
	return b.initProgram(b)
}

func (b *Base) Free() error {
	return b.freeProgram()
}

// Release frees the pipeline and ends the identity of everything it owns.
func (b *Base) Release() error {
	errs := b.freeProgram()
	b.program.Destroy()
	b.vs.Destroy()
	b.fs.Destroy()
	b.Destroy()
	return errs
}

func (b *Base) initProgram(owner core.Resource) error {
	if b.program == nil || b.program == renderer.EmptyProgram {
		return ErrInvalidParams
	}
	if err := b.Managed.Init(owner); err != nil {
		return err
	}
	vertex, fragment, rev := b.sources.Get()
	err := b.vs.Load(renderer.VertexShader, vertex)
	if err == nil {
		err = b.fs.Load(renderer.FragmentShader, fragment)
	}
	if err == nil {
		err = b.program.Build(b.vs, b.fs)
	}
	if err != nil {
		logger.Log.Error("Unable to build program", zap.String("pipeline", b.Name()), zap.Error(err))
		return multierr.Append(err, b.freeProgram())
	}
	b.builtRev = rev
	b.SetDirty(false)
	return nil
}

func (b *Base) freeProgram() error {
	if !b.IsInitialized() {
		return nil
	}
	errs := multierr.Combine(b.program.Free(), b.vs.Free(), b.fs.Free(), b.Managed.Free())
	b.SetDirty(true)
	return errs
}

func (b *Base) stale() bool {
	return b.IsDirty() || !b.IsInitialized() || b.sources.Revision() != b.builtRev
}

// begin validates the list, caches owner, (re)builds it when stale and makes
// its program current.
func (b *Base) begin(owner Pipeline, list *scene.List) error {
	if list == nil || list == scene.EmptyList {
		logger.Log.Error("Invalid params", zap.String("pipeline", b.Name()))
		return ErrInvalidParams
	}
	cached = owner
	if b.stale() {
		if err := owner.Free(); err != nil {
			return err
		}
		if err := owner.Init(); err != nil {
			logger.Log.Error("Unable to render (initialization failed)", zap.String("pipeline", b.Name()))
			return fmt.Errorf("%w: %w", ErrInitFailed, err)
		}
	}
	return b.program.Render()
}
