package renderer

import (
	"errors"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"

	"go.uber.org/zap"
)

var ErrNoSource = errors.New("renderer: shader has no source")

// Shader is one compiled shader stage.
type Shader struct {
	core.Object
	core.Managed
	handle uint32
	kind   ShaderKind
	source string
}

func NewShader() *Shader {
	return &Shader{Object: core.NewObject()}
}

// Load compiles source as a shader of the given kind, replacing any previous stage.
func (s *Shader) Load(kind ShaderKind, source string) error {
	if err := s.Free(); err != nil {
		return err
	}
	s.kind = kind
	s.source = source
	return s.Init()
}

func (s *Shader) Init() error {
	if s.source == "" {
		return ErrNoSource
	}
	if err := s.Managed.Init(s); err != nil {
		return err
	}
	h, err := driver.CompileShader(s.kind, s.source)
	if err != nil {
		s.Managed.Free()
		return err
	}
	s.handle = h
	logger.Log.Debug("Shader compiled", zap.Stringer("kind", s.kind), zap.Uint32("shader", h))
	return nil
}

func (s *Shader) Free() error {
	if !s.IsInitialized() {
		return nil
	}
	driver.DeleteShader(s.handle)
	s.handle = 0
	return s.Managed.Free()
}

func (s *Shader) Kind() ShaderKind {
	return s.kind
}

func (s *Shader) Handle() uint32 {
	return s.handle
}
