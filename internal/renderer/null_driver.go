package renderer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// HandleKind groups the handles a driver hands out.
type HandleKind int

const (
	KindBuffer HandleKind = iota
	KindVertexArray
	KindTexture
	KindShader
	KindProgram
	KindFramebuffer
)

// NullDriver is a headless Driver. It issues handles, tracks which are still
// alive and remembers the last value written to every uniform so rendering
// can be inspected without a GPU.
type NullDriver struct {
	mu   sync.Mutex
	next uint32
	live map[HandleKind]map[uint32]struct{}
	// buffers keeps a copy of every buffer's contents.
	buffers map[uint32][]byte

	locations map[uint32]map[string]int32
	names     map[int32]string
	uniforms  map[uint32]map[string]interface{}
	program   uint32

	// FailCompile makes CompileShader fail for sources containing this text.
	FailCompile string
	// FailFramebuffer makes CheckFramebuffer report an incomplete target.
	FailFramebuffer bool

	DrawCalls     int
	Vertices      int64
	Bound         map[int32]uint32
	Framebuffer   uint32
	ViewportSize  [2]int32
	ClearRGBA     [4]float32
	Clears        int
	DepthTest     bool
	AdditiveBlend bool
	Wireframe     bool
	Cull          CullFace
	ColorMask     bool
	// BlendedDraws counts draw calls issued with additive blending on.
	BlendedDraws int
	// StorageBindings maps storage buffer binding points to buffers.
	StorageBindings map[uint32]uint32
}

func NewNullDriver() *NullDriver {
	n := &NullDriver{
		live:      make(map[HandleKind]map[uint32]struct{}),
		locations: make(map[uint32]map[string]int32),
		names:     make(map[int32]string),
		uniforms:  make(map[uint32]map[string]interface{}),
		Bound:     make(map[int32]uint32),
		buffers:   make(map[uint32][]byte),
		ColorMask: true,

		StorageBindings: make(map[uint32]uint32),
	}
	return n
}

func (n *NullDriver) issue(kind HandleKind) uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	if n.live[kind] == nil {
		n.live[kind] = make(map[uint32]struct{})
	}
	n.live[kind][n.next] = struct{}{}
	return n.next
}

func (n *NullDriver) release(kind HandleKind, id uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.live[kind], id)
}

// Live returns how many handles of the given kind have not been deleted.
func (n *NullDriver) Live(kind HandleKind) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.live[kind])
}

// LiveTotal returns the number of handles of any kind not yet deleted.
func (n *NullDriver) LiveTotal() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, m := range n.live {
		total += len(m)
	}
	return total
}

// Uniform returns the last value set for name on program, or nil.
func (n *NullDriver) Uniform(program uint32, name string) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.uniforms[program][name]
}

// CurrentProgram returns the program most recently passed to UseProgram.
func (n *NullDriver) CurrentProgram() uint32 {
	return n.program
}

func (n *NullDriver) CreateBuffer(_ BufferTarget, data []byte) (uint32, error) {
	id := n.issue(KindBuffer)
	n.mu.Lock()
	n.buffers[id] = append([]byte(nil), data...)
	n.mu.Unlock()
	return id, nil
}

func (n *NullDriver) DeleteBuffer(id uint32) {
	n.release(KindBuffer, id)
	n.mu.Lock()
	delete(n.buffers, id)
	n.mu.Unlock()
}

func (n *NullDriver) UpdateBuffer(_ BufferTarget, id uint32, offset int, data []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	copy(n.buffers[id][offset:], data)
}

func (n *NullDriver) ReadBuffer(_ BufferTarget, id uint32, offset int, out []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	copy(out, n.buffers[id][offset:])
}

func (n *NullDriver) BindBufferBase(_ BufferTarget, index, id uint32) {
	n.StorageBindings[index] = id
}

func (n *NullDriver) CreateVertexArray() uint32 {
	return n.issue(KindVertexArray)
}

func (n *NullDriver) DeleteVertexArray(id uint32) {
	n.release(KindVertexArray, id)
}

func (n *NullDriver) BindVertexArray(uint32) {}

func (n *NullDriver) SetupVertexLayout() {}

func (n *NullDriver) CreateTexture(desc TextureDesc, rgba []byte) (uint32, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("renderer: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Format > FormatDepth || desc.Format < FormatRGBA8 {
		return 0, ErrUnsupportedFormat
	}
	return n.issue(KindTexture), nil
}

func (n *NullDriver) DeleteTexture(id uint32) {
	n.release(KindTexture, id)
}

func (n *NullDriver) BindTexture(unit int32, id uint32) {
	n.Bound[unit] = id
}

func (n *NullDriver) CompileShader(kind ShaderKind, source string) (uint32, error) {
	if n.FailCompile != "" && strings.Contains(source, n.FailCompile) {
		return 0, fmt.Errorf("%w: %s shader", ErrShaderCompile, kind)
	}
	return n.issue(KindShader), nil
}

func (n *NullDriver) DeleteShader(id uint32) {
	n.release(KindShader, id)
}

func (n *NullDriver) LinkProgram(shaders []uint32) (uint32, error) {
	if len(shaders) == 0 {
		return 0, fmt.Errorf("%w: no shaders", ErrProgramLink)
	}
	return n.issue(KindProgram), nil
}

func (n *NullDriver) DeleteProgram(id uint32) {
	n.release(KindProgram, id)
	n.mu.Lock()
	delete(n.uniforms, id)
	delete(n.locations, id)
	n.mu.Unlock()
}

func (n *NullDriver) UseProgram(id uint32) {
	n.program = id
}

// UniformLocation hands out a distinct location per program and name.
func (n *NullDriver) UniformLocation(program uint32, name string) int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.locations[program] == nil {
		n.locations[program] = make(map[string]int32)
	}
	if loc, ok := n.locations[program][name]; ok {
		return loc
	}
	loc := int32(len(n.names))
	n.locations[program][name] = loc
	n.names[loc] = name
	return loc
}

func (n *NullDriver) set(loc int32, v interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	name, ok := n.names[loc]
	if !ok {
		return
	}
	if n.uniforms[n.program] == nil {
		n.uniforms[n.program] = make(map[string]interface{})
	}
	n.uniforms[n.program][name] = v
}

func (n *NullDriver) SetUniformInt(loc int32, v int32)       { n.set(loc, v) }
func (n *NullDriver) SetUniformFloat(loc int32, v float32)   { n.set(loc, v) }
func (n *NullDriver) SetUniformVec3(loc int32, v mgl32.Vec3) { n.set(loc, v) }
func (n *NullDriver) SetUniformMat3(loc int32, m mgl32.Mat3) { n.set(loc, m) }
func (n *NullDriver) SetUniformMat4(loc int32, m mgl32.Mat4) { n.set(loc, m) }

func (n *NullDriver) CreateFramebuffer() uint32 {
	return n.issue(KindFramebuffer)
}

func (n *NullDriver) DeleteFramebuffer(id uint32) {
	n.release(KindFramebuffer, id)
}

func (n *NullDriver) AttachTexture(uint32, uint32, TextureFormat, int) {}

func (n *NullDriver) CheckFramebuffer(fbo uint32) error {
	if n.FailFramebuffer {
		return fmt.Errorf("%w: framebuffer %d", ErrIncompleteTarget, fbo)
	}
	return nil
}

func (n *NullDriver) BindFramebuffer(fbo uint32, width, height int32) {
	n.Framebuffer = fbo
	n.ViewportSize = [2]int32{width, height}
}

func (n *NullDriver) DrawElements(count int32) {
	n.DrawCalls++
	n.Vertices += int64(count)
	if n.AdditiveBlend {
		n.BlendedDraws++
	}
}

func (n *NullDriver) DrawArrays(count int32) {
	n.DrawElements(count)
}

func (n *NullDriver) Clear(ClearMask) {
	n.Clears++
}

func (n *NullDriver) ClearColor(r, g, b, a float32) {
	n.ClearRGBA = [4]float32{r, g, b, a}
}

func (n *NullDriver) Viewport(width, height int32) {
	n.ViewportSize = [2]int32{width, height}
}

func (n *NullDriver) SetDepthTest(enabled bool)     { n.DepthTest = enabled }
func (n *NullDriver) SetAdditiveBlend(enabled bool) { n.AdditiveBlend = enabled }
func (n *NullDriver) SetWireframe(enabled bool)     { n.Wireframe = enabled }
func (n *NullDriver) SetCullFace(face CullFace)     { n.Cull = face }
func (n *NullDriver) SetColorMask(enabled bool)     { n.ColorMask = enabled }
