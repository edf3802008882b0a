package renderer

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"Forge3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	ErrShaderCompile     = errors.New("renderer: shader compilation failed")
	ErrProgramLink       = errors.New("renderer: program link failed")
	ErrIncompleteTarget  = errors.New("renderer: framebuffer incomplete")
	ErrUnsupportedFormat = errors.New("renderer: unsupported texture format")
	ErrUnsupportedTarget = errors.New("renderer: buffer target not supported by this context")
)

// The 4.1 core bindings predate shader storage buffers; the enum is stable
// and the remaining calls exist since GL 3.0.
const glShaderStorageBuffer = 0x90D2

// maxColorAttachments is the minimum every GL 4.x context supports.
const maxColorAttachments = 8

// GLDriver issues OpenGL 4.1 core calls. gl.Init must have run on the
// calling thread with a current context.
type GLDriver struct{}

func NewGLDriver() *GLDriver {
	return &GLDriver{}
}

func glBufferTarget(t BufferTarget) uint32 {
	switch t {
	case ElementBuffer:
		return gl.ELEMENT_ARRAY_BUFFER
	case StorageBuffer:
		return glShaderStorageBuffer
	}
	return gl.ARRAY_BUFFER
}

// supportsStorage reports whether the current context is at least GL 4.3.
func supportsStorage() bool {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	return major > 4 || (major == 4 && minor >= 3)
}

func (d *GLDriver) CreateBuffer(target BufferTarget, data []byte) (uint32, error) {
	usage := uint32(gl.STATIC_DRAW)
	if target == StorageBuffer {
		if !supportsStorage() {
			return 0, ErrUnsupportedTarget
		}
		usage = gl.DYNAMIC_DRAW
	}
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("renderer: glGenBuffers returned no handle")
	}
	t := glBufferTarget(target)
	gl.BindBuffer(t, id)
	if len(data) > 0 {
		gl.BufferData(t, len(data), gl.Ptr(data), usage)
	}
	return id, nil
}

func (d *GLDriver) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (d *GLDriver) UpdateBuffer(target BufferTarget, id uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	t := glBufferTarget(target)
	gl.BindBuffer(t, id)
	gl.BufferSubData(t, offset, len(data), gl.Ptr(data))
}

func (d *GLDriver) ReadBuffer(target BufferTarget, id uint32, offset int, out []byte) {
	if len(out) == 0 {
		return
	}
	t := glBufferTarget(target)
	gl.BindBuffer(t, id)
	gl.GetBufferSubData(t, offset, len(out), gl.Ptr(out))
}

func (d *GLDriver) BindBufferBase(target BufferTarget, index, id uint32) {
	gl.BindBufferBase(glBufferTarget(target), index, id)
}

func (d *GLDriver) CreateVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (d *GLDriver) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (d *GLDriver) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (d *GLDriver) SetupVertexLayout() {
	stride := int32(VertexDataSize)

	// Position
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))

	// Normal, packed 10_10_10_2
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.INT_2_10_10_10_REV, true, stride, gl.PtrOffset(12))

	// UV, packed 2x half float
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.HALF_FLOAT, false, stride, gl.PtrOffset(16))

	// Tangent, packed 10_10_10_2
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.INT_2_10_10_10_REV, true, stride, gl.PtrOffset(20))
}

func (d *GLDriver) CreateTexture(desc TextureDesc, rgba []byte) (uint32, error) {
	var internal int32
	var format, kind uint32
	switch desc.Format {
	case FormatRGBA8:
		internal, format, kind = gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	case FormatRGBA16F:
		internal, format, kind = gl.RGBA16F, gl.RGBA, gl.FLOAT
	case FormatDepth:
		internal, format, kind = gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	default:
		return 0, ErrUnsupportedFormat
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	var pixels unsafe.Pointer
	if len(rgba) > 0 {
		pixels = gl.Ptr(rgba)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, desc.Width, desc.Height, 0, format, kind, pixels)

	if desc.Format == FormatDepth {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
		border := []float32{1, 1, 1, 1}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
		return id, nil
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if desc.Mipmaps {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	return id, nil
}

func (d *GLDriver) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *GLDriver) BindTexture(unit int32, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func glShaderKind(k ShaderKind) uint32 {
	switch k {
	case FragmentShader:
		return gl.FRAGMENT_SHADER
	case GeometryShader:
		return gl.GEOMETRY_SHADER
	}
	return gl.VERTEX_SHADER
}

func (d *GLDriver) CompileShader(kind ShaderKind, source string) (uint32, error) {
	shader := gl.CreateShader(glShaderKind(kind))
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Stringer("kind", kind), zap.String("log", log))
		return 0, fmt.Errorf("%w: %s shader: %s", ErrShaderCompile, kind, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *GLDriver) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (d *GLDriver) LinkProgram(shaders []uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("%w: %s", ErrProgramLink, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func (d *GLDriver) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (d *GLDriver) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *GLDriver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDriver) SetUniformInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *GLDriver) SetUniformFloat(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *GLDriver) SetUniformVec3(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

func (d *GLDriver) SetUniformMat3(loc int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func (d *GLDriver) SetUniformMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *GLDriver) CreateFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (d *GLDriver) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

func (d *GLDriver) AttachTexture(fbo, texture uint32, format TextureFormat, slot int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	if format == FormatDepth {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, texture, 0)
		return
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(slot), gl.TEXTURE_2D, texture, 0)
}

func (d *GLDriver) CheckFramebuffer(fbo uint32) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	var drawBuffers []uint32
	for slot := uint32(0); slot < maxColorAttachments; slot++ {
		var color int32
		gl.GetFramebufferAttachmentParameteriv(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+slot, gl.FRAMEBUFFER_ATTACHMENT_OBJECT_TYPE, &color)
		if color == gl.NONE {
			break
		}
		drawBuffers = append(drawBuffers, gl.COLOR_ATTACHMENT0+slot)
	}
	if len(drawBuffers) == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	} else {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%x", ErrIncompleteTarget, status)
	}
	return nil
}

func (d *GLDriver) BindFramebuffer(fbo uint32, width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, width, height)
}

func (d *GLDriver) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

func (d *GLDriver) DrawArrays(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (d *GLDriver) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColorBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepthBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *GLDriver) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *GLDriver) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (d *GLDriver) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *GLDriver) SetAdditiveBlend(enabled bool) {
	if enabled {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
	} else {
		gl.Disable(gl.BLEND)
	}
}

func (d *GLDriver) SetWireframe(enabled bool) {
	if enabled {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (d *GLDriver) SetCullFace(face CullFace) {
	switch face {
	case CullNone:
		gl.Disable(gl.CULL_FACE)
	case CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func (d *GLDriver) SetColorMask(enabled bool) {
	gl.ColorMask(enabled, enabled, enabled, enabled)
}
