package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ShaderKind int

const (
	VertexShader ShaderKind = iota
	FragmentShader
	GeometryShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	case GeometryShader:
		return "geometry"
	}
	return "unknown"
}

type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementBuffer
	// StorageBuffer needs a GL 4.3 context.
	StorageBuffer
)

type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatRGBA16F
	FormatDepth
)

type CullFace int

const (
	CullNone CullFace = iota
	CullFront
	CullBack
)

type ClearMask int

const (
	ClearColorBit ClearMask = 1 << iota
	ClearDepthBit
)

// TextureDesc describes the storage of a 2D texture.
type TextureDesc struct {
	Width, Height int32
	Format        TextureFormat
	Mipmaps       bool
}

// Driver is the set of graphics calls the GPU wrappers are built on. The GL
// implementation talks to the current OpenGL context; the null implementation
// only hands out handles and records state so everything above it can run
// without a window.
type Driver interface {
	CreateBuffer(target BufferTarget, data []byte) (uint32, error)
	DeleteBuffer(id uint32)
	UpdateBuffer(target BufferTarget, id uint32, offset int, data []byte)
	ReadBuffer(target BufferTarget, id uint32, offset int, out []byte)
	BindBufferBase(target BufferTarget, index, id uint32)

	CreateVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	// SetupVertexLayout declares the VertexData attribute layout on the bound array.
	SetupVertexLayout()

	CreateTexture(desc TextureDesc, rgba []byte) (uint32, error)
	DeleteTexture(id uint32)
	BindTexture(unit int32, id uint32)

	CompileShader(kind ShaderKind, source string) (uint32, error)
	DeleteShader(id uint32)
	LinkProgram(shaders []uint32) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	SetUniformInt(loc int32, v int32)
	SetUniformFloat(loc int32, v float32)
	SetUniformVec3(loc int32, v mgl32.Vec3)
	SetUniformMat3(loc int32, m mgl32.Mat3)
	SetUniformMat4(loc int32, m mgl32.Mat4)

	CreateFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	AttachTexture(fbo, texture uint32, format TextureFormat, slot int)
	CheckFramebuffer(fbo uint32) error
	BindFramebuffer(fbo uint32, width, height int32)

	DrawElements(count int32)
	DrawArrays(count int32)

	Clear(mask ClearMask)
	ClearColor(r, g, b, a float32)
	Viewport(width, height int32)
	SetDepthTest(enabled bool)
	SetAdditiveBlend(enabled bool)
	SetWireframe(enabled bool)
	SetCullFace(face CullFace)
	SetColorMask(enabled bool)
}

var driver Driver = NewNullDriver()

// SetDriver selects the driver behind every GPU wrapper. The engine calls it
// once the window and context exist.
func SetDriver(d Driver) {
	driver = d
}

// CurrentDriver returns the active driver.
func CurrentDriver() Driver {
	return driver
}
