package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"Forge3D/internal/core"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useNullDriver(t *testing.T) *renderer.NullDriver {
	t.Helper()
	prev := renderer.CurrentDriver()
	null := renderer.NewNullDriver()
	renderer.SetDriver(null)
	t.Cleanup(func() { renderer.SetDriver(prev) })
	return null
}

// newLoader returns a loader backed by a private container released at the
// end of the test.
func newLoader(t *testing.T) (*Loader, *scene.Container) {
	t.Helper()
	c := scene.NewContainer()
	t.Cleanup(func() { _ = c.Reset() })
	return New(c), c
}

func triangle() LOD {
	return LOD{
		Vertices: []renderer.VertexData{
			{Vertex: mgl32.Vec3{0, 0, 0}},
			{Vertex: mgl32.Vec3{1, 0, 0}},
			{Vertex: mgl32.Vec3{0, 1, 0}},
		},
		Faces: []renderer.FaceData{{0, 1, 2}},
	}
}

func TestLoadHierarchy(t *testing.T) {
	null := useNullDriver(t)
	ld, c := newLoader(t)

	var buf bytes.Buffer
	ow := NewWriter(&buf).
		Material(MaterialChunk{Name: "red", Emission: mgl32.Vec3{1, 0, 0}, Opacity: 1}).
		Node(NodeChunk{Name: "root", Matrix: mgl32.Ident4(), Children: 2}).
		Mesh(MeshChunk{
			NodeChunk: NodeChunk{Name: "box", Matrix: mgl32.Translate3D(1, 2, 3), Children: 1},
			Material:  "red",
			LODs:      []LOD{triangle(), triangle()},
		}).
		Light(LightChunk{NodeChunk: NodeChunk{Name: "lamp", Matrix: mgl32.Ident4()}, Color: mgl32.Vec3{0, 0, 1}, CastShadows: true}).
		Node(NodeChunk{Name: "helper", Matrix: mgl32.Ident4()})
	require.NoError(t, ow.Err())

	root, err := ld.LoadBytes(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, "root", root.Name())
	assert.Equal(t, "+ root\n + box\n  + lamp\n + helper\n", root.Base().TreeAsString())

	box := c.FindMesh("box")
	require.NotEqual(t, scene.EmptyMesh, box)
	assert.Equal(t, "red", box.Material().Name())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, box.Material().Emission())
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), box.Matrix())
	assert.Equal(t, 1, box.NrOfFaces(), "only the first LOD is uploaded")

	lamp := c.FindLight("lamp")
	require.NotEqual(t, scene.EmptyLight, lamp)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, lamp.Color())
	assert.True(t, lamp.CastShadows)
	assert.Equal(t, box.Base(), lamp.Parent())

	assert.Len(t, c.NodeList(), 2)
	assert.Len(t, c.MeshList(), 1)
	assert.Len(t, c.LightList(), 1)
	assert.Len(t, c.MaterialList(), 1)
	assert.Equal(t, 1, null.Live(renderer.KindVertexArray))
}

func TestLoadKeepsLastTopLevelNode(t *testing.T) {
	useNullDriver(t)
	ld, _ := newLoader(t)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).
		Node(NodeChunk{Name: "first"}).
		Node(NodeChunk{Name: "second"}).
		Material(MaterialChunk{Name: "trailing"}).
		Err())

	root, err := ld.LoadBytes(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, "second", root.Name())
}

func TestLoadSkipsUnknownChunks(t *testing.T) {
	useNullDriver(t)
	ld, c := newLoader(t)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).
		Raw(42, []byte{1, 2, 3, 4, 5}).
		Node(NodeChunk{Name: "root", Children: 1}).
		Raw(7, nil).
		Node(NodeChunk{Name: "child"}).
		Err())

	root, err := ld.LoadBytes(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, root.Base().NrOfChildren())
	assert.Equal(t, "child", root.Base().Child(0).Name())
	assert.Len(t, c.NodeList(), 2)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	useNullDriver(t)
	ld, _ := newLoader(t)

	var buf bytes.Buffer
	ow := &Writer{w: &buf}
	ow.Raw(ChunkVersion, []byte{7, 0, 0, 0})
	ow.Node(NodeChunk{Name: "root"})
	require.NoError(t, ow.Err())

	root, err := ld.LoadBytes(buf.Bytes(), "")
	assert.ErrorIs(t, err, ErrBadVersion)
	assert.Equal(t, scene.EmptyNode, root)

	var noVersion bytes.Buffer
	(&Writer{w: &noVersion}).Node(NodeChunk{Name: "root"})
	_, err = ld.LoadBytes(noVersion.Bytes(), "")
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestLoadRejectsPhysics(t *testing.T) {
	useNullDriver(t)
	ld, _ := newLoader(t)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).
		Mesh(MeshChunk{NodeChunk: NodeChunk{Name: "body"}, HasPhysics: true}).
		Err())

	root, err := ld.LoadBytes(buf.Bytes(), "")
	assert.ErrorIs(t, err, ErrPhysicsNotAllowed)
	assert.Equal(t, scene.EmptyNode, root)
}

func TestLoadTruncated(t *testing.T) {
	useNullDriver(t)
	ld, _ := newLoader(t)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).
		Node(NodeChunk{Name: "root", Children: 3}).
		Node(NodeChunk{Name: "only child"}).
		Err())

	_, err := ld.LoadBytes(buf.Bytes(), "")
	assert.ErrorIs(t, err, ErrTruncated)

	data := buf.Bytes()
	_, err = ld.LoadBytes(data[:len(data)-3], "")
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = ld.LoadBytes(nil, "")
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestLoadRejectsNestedVersion(t *testing.T) {
	useNullDriver(t)
	ld, _ := newLoader(t)

	var buf bytes.Buffer
	ow := NewWriter(&buf).Node(NodeChunk{Name: "root", Children: 1})
	ow.Raw(ChunkVersion, []byte{8, 0, 0, 0})
	require.NoError(t, ow.Err())

	_, err := ld.LoadBytes(buf.Bytes(), "")
	assert.ErrorIs(t, err, ErrUnexpectedChunk)
}

func TestLoadMissingMaterialFallsBack(t *testing.T) {
	useNullDriver(t)
	ld, c := newLoader(t)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).
		Mesh(MeshChunk{NodeChunk: NodeChunk{Name: "orphan"}, Material: "missing", LODs: []LOD{triangle()}}).
		Mesh(MeshChunk{NodeChunk: NodeChunk{Name: "plain"}}).
		Err())

	_, err := ld.LoadBytes(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, scene.EmptyMaterial, c.FindMesh("orphan").Material())
	assert.Equal(t, scene.EmptyMaterial, c.FindMesh("plain").Material())
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadFileWithTextures(t *testing.T) {
	null := useNullDriver(t)
	ld, c := newLoader(t)

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "albedo.png"))

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).
		Material(MaterialChunk{Name: "a", AlbedoTexture: "albedo.png", NormalTexture: "missing.png"}).
		Material(MaterialChunk{Name: "b", AlbedoTexture: "albedo.png", RoughnessTexture: "albedo.png"}).
		Node(NodeChunk{Name: "root"}).
		Err())
	path := filepath.Join(dir, "scene.ovo")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	root, err := ld.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "root", root.Name())

	require.Len(t, c.TextureList(), 1, "the shared image is decoded once")
	tex := c.LastTexture()
	a, b := c.FindMaterial("a"), c.FindMaterial("b")
	assert.Equal(t, tex, a.Texture(renderer.TextureAlbedo))
	assert.Equal(t, renderer.EmptyTexture, a.Texture(renderer.TextureNormal))
	assert.Equal(t, tex, b.Texture(renderer.TextureAlbedo))
	assert.Equal(t, tex, b.Texture(renderer.TextureRoughness))
	assert.Equal(t, 1, null.Live(renderer.KindTexture))

	require.NoError(t, c.Reset())
	assert.Equal(t, 0, null.Live(renderer.KindTexture))
}

func TestLoadMissingFile(t *testing.T) {
	ld, _ := newLoader(t)

	root, err := ld.Load(filepath.Join(t.TempDir(), "nope.ovo"))
	assert.Error(t, err)
	assert.Equal(t, scene.EmptyNode, root)

	_, err = ld.Load("")
	assert.Error(t, err)
}

func TestSampleSceneLoads(t *testing.T) {
	null := useNullDriver(t)
	ld, c := newLoader(t)
	before := core.NrOfObjects()

	var buf bytes.Buffer
	require.NoError(t, WriteSampleScene(&buf))
	root, err := ld.LoadBytes(buf.Bytes(), "")
	require.NoError(t, err)

	assert.Equal(t, "[root]", root.Name())
	assert.Equal(t, 4, root.Base().NrOfChildren())
	assert.NotEqual(t, scene.EmptyLight, c.FindLight("Omni002"))
	assert.NotEqual(t, scene.EmptyLight, c.FindLight("Omni003"))
	assert.Equal(t, "01 - Default", c.FindMesh("Box001").Material().Name())

	list := scene.NewList()
	require.NoError(t, list.Process(root, mgl32.Ident4()))
	assert.Equal(t, 2, list.NrOfLights())
	assert.Equal(t, 4, list.NrOfRenderableElems())
	require.NoError(t, list.Release())

	require.NoError(t, c.Reset())
	assert.Equal(t, 0, null.LiveTotal())
	assert.Equal(t, before, core.NrOfObjects())
}
