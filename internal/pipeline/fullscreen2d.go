package pipeline

import (
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// The triangle is generated from gl_VertexID and covers the whole viewport.
const fullscreenVertexShader = `#version 410 core

out vec2 texCoord;

void main()
{
   float x = -1.0 + float((gl_VertexID & 1) << 2);
   float y = -1.0 + float((gl_VertexID & 2) << 1);

   texCoord.x = (x + 1.0) * 0.5;
   texCoord.y = (y + 1.0) * 0.5;

   gl_Position = vec4(x, y, 1.0, 1.0);
}
`

const fullscreenFragmentShader = `#version 410 core

uniform sampler2D texture0;

in vec2 texCoord;

out vec4 outFragment;

void main()
{
   outFragment = texture(texture0, texCoord);
}
`

// Fullscreen2D copies a texture over the window.
type Fullscreen2D struct {
	Base
	vao *renderer.VertexArray
}

func NewFullscreen2D() *Fullscreen2D {
	f := &Fullscreen2D{vao: renderer.NewVertexArray()}
	f.initBase(fullscreenVertexShader, fullscreenFragmentShader)
	return f
}

func (f *Fullscreen2D) Init() error {
	if err := f.initProgram(f); err != nil {
		return err
	}
	// Core profiles refuse to draw without a bound vertex array.
	if err := f.vao.Init(); err != nil {
		logger.Log.Error("Unable to init VAO for fullscreen2D", zap.Error(err))
		return multierr.Append(err, f.freeProgram())
	}
	return nil
}

func (f *Fullscreen2D) Free() error {
	return multierr.Combine(f.vao.Free(), f.freeProgram())
}

func (f *Fullscreen2D) Release() error {
	errs := multierr.Combine(f.Free(), f.Base.Release())
	f.vao.Destroy()
	return errs
}

// Render draws texture over the window framebuffer.
func (f *Fullscreen2D) Render(texture *renderer.Texture, list *scene.List) error {
	if texture == nil || texture == renderer.EmptyTexture {
		logger.Log.Error("Invalid params", zap.String("pipeline", f.Name()))
		return ErrInvalidParams
	}
	if err := f.begin(f, list); err != nil {
		return err
	}
	if err := texture.Render(0); err != nil {
		return err
	}
	renderer.ResetFramebuffer(f.Viewport())

	drv := renderer.CurrentDriver()
	drv.BindVertexArray(f.vao.Handle())
	drv.DrawArrays(3)
	return nil
}
