package renderer

import (
	"errors"
	"fmt"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrShaderNotReady = errors.New("renderer: shader not compiled")

// Program is a linked set of shader stages with a uniform location cache.
type Program struct {
	core.Object
	core.Managed
	handle   uint32
	shaders  []*Shader
	uniforms *UniformCache
}

// EmptyProgram is the sentinel program. CachedProgram returns it until a
// program is rendered.
var EmptyProgram = &Program{Object: core.NewStaticObject(core.EmptyName), uniforms: NewUniformCache(0)}

var cachedProgram = EmptyProgram

// CachedProgram returns the program most recently made current by Render.
func CachedProgram() *Program {
	return cachedProgram
}

func NewProgram() *Program {
	return &Program{Object: core.NewObject(), uniforms: NewUniformCache(0)}
}

// Build links the given compiled shaders, replacing any previous program.
func (p *Program) Build(shaders ...*Shader) error {
	for _, s := range shaders {
		if s == nil || !s.IsInitialized() {
			return ErrShaderNotReady
		}
	}
	if err := p.Free(); err != nil {
		return err
	}
	p.shaders = shaders
	return p.Init()
}

func (p *Program) Init() error {
	if len(p.shaders) == 0 {
		return fmt.Errorf("%w: no shaders attached", ErrProgramLink)
	}
	if err := p.Managed.Init(p); err != nil {
		return err
	}
	handles := make([]uint32, len(p.shaders))
	for i, s := range p.shaders {
		handles[i] = s.Handle()
	}
	h, err := driver.LinkProgram(handles)
	if err != nil {
		p.Managed.Free()
		return err
	}
	p.handle = h
	p.uniforms.Reset(h)
	logger.Log.Debug("Program linked", zap.String("name", p.Name()), zap.Uint32("program", h))
	return nil
}

func (p *Program) Free() error {
	if !p.IsInitialized() {
		return nil
	}
	if cachedProgram == p {
		cachedProgram = EmptyProgram
	}
	driver.DeleteProgram(p.handle)
	p.handle = 0
	p.uniforms.Reset(0)
	return p.Managed.Free()
}

// Render makes the program current and caches it for the uniform setters of
// lights, meshes and materials.
func (p *Program) Render() error {
	if !p.IsInitialized() {
		return fmt.Errorf("renderer: program %q not built", p.Name())
	}
	driver.UseProgram(p.handle)
	cachedProgram = p
	return nil
}

func (p *Program) Handle() uint32 {
	return p.handle
}

func (p *Program) SetInt(name string, v int32) {
	p.uniforms.SetInt(name, v)
}

func (p *Program) SetFloat(name string, v float32) {
	p.uniforms.SetFloat(name, v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.uniforms.SetVec3(name, v)
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	p.uniforms.SetMat3(name, m)
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	p.uniforms.SetMat4(name, m)
}
