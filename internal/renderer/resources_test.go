package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"Forge3D/internal/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalPacking(t *testing.T) {
	n := mgl32.Vec3{0, 1, 0}
	got := UnpackNormal(PackNormal(n))
	assert.InDelta(t, 0, got[0], 1e-3)
	assert.InDelta(t, 1, got[1], 1e-3)
	assert.InDelta(t, 0, got[2], 1e-3)

	n = mgl32.Vec3{-0.6, 0, 0.8}
	got = UnpackNormal(PackNormal(n))
	assert.InDelta(t, -0.6, got[0], 2e-3)
	assert.InDelta(t, 0.8, got[2], 2e-3)
}

func TestUVPacking(t *testing.T) {
	u, v := UnpackUV(PackUV(0.25, 1))
	assert.Equal(t, float32(0.25), u)
	assert.Equal(t, float32(1), v)

	u, v = UnpackUV(PackUV(-2.5, 0.3333))
	assert.Equal(t, float32(-2.5), u)
	assert.InDelta(t, 0.3333, v, 1e-3)
}

func TestVertexArraySetupAndRender(t *testing.T) {
	null := useNullDriver(t)
	reg := core.NewRegistry()

	vao, vbo, ebo := NewVertexArray(), NewVertexBuffer(), NewIndexBuffer()
	for _, r := range []interface{ SetRegistry(*core.Registry) }{vao, vbo, ebo} {
		r.SetRegistry(reg)
	}

	verts := []VertexData{{Vertex: mgl32.Vec3{0, 0, 0}}, {Vertex: mgl32.Vec3{1, 0, 0}}, {Vertex: mgl32.Vec3{0, 1, 0}}}
	require.NoError(t, vao.Setup(vbo, ebo, verts, []FaceData{{0, 1, 2}}))
	assert.Equal(t, 3, vbo.NrOfVertices())
	assert.Equal(t, 1, ebo.NrOfFaces())
	assert.Equal(t, 2, null.Live(KindBuffer))
	assert.Equal(t, 1, null.Live(KindVertexArray))

	vao.Render()
	assert.Equal(t, 1, null.DrawCalls)
	assert.EqualValues(t, 3, null.Vertices)

	// Reloading replaces the GPU buffer instead of leaking it.
	require.NoError(t, vbo.Load(verts[:2]))
	assert.Equal(t, 2, null.Live(KindBuffer))

	rep, err := reg.ForceRelease()
	require.NoError(t, err)
	assert.Zero(t, rep.Initialized)
	assert.Zero(t, null.LiveTotal())

	for _, r := range []core.Releasable{vao, vbo, ebo} {
		require.NoError(t, core.Release(r))
	}
}

func TestTextureLoadImage(t *testing.T) {
	null := useNullDriver(t)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})

	tex := NewTexture()
	defer core.Release(tex)
	require.NoError(t, tex.LoadImage(img))

	w, h := tex.Size()
	assert.EqualValues(t, 4, w)
	assert.EqualValues(t, 2, h)
	assert.Equal(t, 1, null.Live(KindTexture))

	assert.ErrorIs(t, NewTexture().LoadImage(image.NewRGBA(image.Rectangle{})), ErrEmptyImage)
}

func TestTextureCacheDecodesOnce(t *testing.T) {
	null := useNullDriver(t)
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "albedo.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	cache := NewTextureCache(dir)
	a, created, err := cache.Load("albedo.png")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "albedo.png", a.Name())

	b, created, err := cache.Load("albedo.png")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, a, b)
	assert.Equal(t, 1, null.Live(KindTexture))

	_, _, err = cache.Load("missing.png")
	assert.Error(t, err)

	stats := cache.GetStats()
	assert.Equal(t, TextureStats{Loaded: 1, CacheHits: 1, CacheMisses: 2, Failures: 1}, stats)
	require.NoError(t, core.Release(a))
}

func TestDefaultTextureUploadsOnFirstRender(t *testing.T) {
	null := useNullDriver(t)
	white := DefaultTexture(true)
	defer white.Free()

	require.NoError(t, white.Render(2))
	assert.True(t, white.IsInitialized())
	assert.Equal(t, white.Handle(), null.Bound[2])
	assert.NotSame(t, white, DefaultTexture(false))
}

func TestProgramBuildAndCache(t *testing.T) {
	null := useNullDriver(t)

	vs, fs := NewShader(), NewShader()
	require.NoError(t, vs.Load(VertexShader, "void main() {}"))
	require.NoError(t, fs.Load(FragmentShader, "void main() {}"))

	p := NewProgram()
	require.NoError(t, p.Build(vs, fs))
	require.NoError(t, p.Render())
	assert.Same(t, p, CachedProgram())
	assert.Equal(t, p.Handle(), null.CurrentProgram())

	p.SetMat4("projectionMat", mgl32.Ident4())
	assert.Equal(t, mgl32.Ident4(), null.Uniform(p.Handle(), "projectionMat"))

	require.NoError(t, p.Free())
	assert.Same(t, EmptyProgram, CachedProgram())

	for _, r := range []core.Releasable{p, vs, fs} {
		require.NoError(t, core.Release(r))
	}
	assert.Zero(t, null.LiveTotal())
}

func TestProgramRejectsUncompiledShaders(t *testing.T) {
	null := useNullDriver(t)
	null.FailCompile = "broken"

	bad := NewShader()
	defer bad.Destroy()
	assert.ErrorIs(t, bad.Load(FragmentShader, "broken source"), ErrShaderCompile)
	assert.False(t, bad.IsInitialized())

	p := NewProgram()
	defer p.Destroy()
	assert.ErrorIs(t, p.Build(bad), ErrShaderNotReady)
	assert.ErrorIs(t, NewShader().Init(), ErrNoSource)
}

func TestFramebufferValidate(t *testing.T) {
	null := useNullDriver(t)

	depth := NewTexture()
	require.NoError(t, depth.Create(512, 512, FormatDepth))
	fbo := NewFramebuffer()
	assert.ErrorIs(t, fbo.Validate(), ErrNoAttachments)

	require.NoError(t, fbo.AttachTexture(depth))
	require.NoError(t, fbo.Validate())
	require.NoError(t, fbo.Render())
	assert.Equal(t, fbo.Handle(), null.Framebuffer)
	assert.Equal(t, [2]int32{512, 512}, null.ViewportSize)

	ResetFramebuffer(800, 600)
	assert.Zero(t, null.Framebuffer)
	assert.Equal(t, [2]int32{800, 600}, null.ViewportSize)

	small := NewTexture()
	require.NoError(t, small.Create(64, 64, FormatRGBA8))
	assert.Error(t, fbo.AttachTexture(small))

	null.FailFramebuffer = true
	assert.ErrorIs(t, fbo.Validate(), ErrIncompleteTarget)

	for _, r := range []core.Releasable{fbo, depth, small} {
		require.NoError(t, core.Release(r))
	}
}
