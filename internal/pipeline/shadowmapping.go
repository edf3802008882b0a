package pipeline

import (
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DepthTextureSize is the default side of the square shadow map.
const DepthTextureSize = 1024

const shadowVertexShader = `#version 410 core

layout(location = 0) in vec3 a_vertex;
layout(location = 1) in vec4 a_normal;
layout(location = 2) in vec2 a_uv;
layout(location = 3) in vec4 a_tangent;

uniform mat4 modelviewMat;
uniform mat4 projectionMat;

void main()
{
   gl_Position = projectionMat * modelviewMat * vec4(a_vertex, 1.0);
}
`

const shadowFragmentShader = `#version 410 core

void main()
{
}
`

// ShadowMapping renders the depth of the scene as seen from a light into a
// depth texture.
type ShadowMapping struct {
	Base
	size     int32
	depthMap *renderer.Texture
	fbo      *renderer.Framebuffer
}

func NewShadowMapping() *ShadowMapping {
	return NewShadowMappingSize(DepthTextureSize)
}

// NewShadowMappingSize returns a shadow mapping pipeline with a size x size
// depth map.
func NewShadowMappingSize(size int32) *ShadowMapping {
	s := &ShadowMapping{
		size:     size,
		depthMap: renderer.NewTexture(),
		fbo:      renderer.NewFramebuffer(),
	}
	s.initBase(shadowVertexShader, shadowFragmentShader)
	return s
}

func (s *ShadowMapping) Init() error {
	if err := s.initProgram(s); err != nil {
		return err
	}
	err := s.depthMap.Create(s.size, s.size, renderer.FormatDepth)
	if err != nil {
		logger.Log.Error("Unable to init depth map", zap.Error(err))
	} else if err = s.fbo.AttachTexture(s.depthMap); err == nil {
		err = s.fbo.Validate()
	}
	if err != nil {
		logger.Log.Error("Unable to init depth FBO", zap.Error(err))
		return multierr.Append(err, s.Free())
	}
	return nil
}

func (s *ShadowMapping) Free() error {
	return multierr.Combine(s.fbo.Free(), s.depthMap.Free(), s.freeProgram())
}

// Release frees the pipeline along with its depth map and framebuffer.
func (s *ShadowMapping) Release() error {
	errs := multierr.Combine(s.Free(), s.Base.Release())
	s.fbo.Destroy()
	s.depthMap.Destroy()
	return errs
}

// ShadowMap returns the depth texture filled by the last render.
func (s *ShadowMapping) ShadowMap() *renderer.Texture {
	return s.depthMap
}

// Render fills the shadow map from the light referenced by lightRe, using
// the light's projection and the inverse of its world matrix as view. The
// window framebuffer is bound again afterwards.
func (s *ShadowMapping) Render(lightRe scene.RenderableElem, list *scene.List) error {
	light, ok := lightRe.Reference.(*scene.Light)
	if !ok || light == scene.EmptyLight {
		logger.Log.Error("Invalid params", zap.String("pipeline", s.Name()))
		return ErrInvalidParams
	}
	if err := s.begin(s, list); err != nil {
		return err
	}
	s.program.SetMat4("projectionMat", light.ProjMatrix())

	if err := s.fbo.Render(); err != nil {
		return err
	}
	drv := renderer.CurrentDriver()
	drv.Clear(renderer.ClearDepthBit)
	drv.SetColorMask(false)
	drv.SetCullFace(renderer.CullFront)

	err := list.Render(lightRe.Matrix.Inv(), scene.PassMeshes)

	drv.SetCullFace(renderer.CullNone)
	drv.SetColorMask(true)
	renderer.ResetFramebuffer(s.Viewport())
	return err
}
