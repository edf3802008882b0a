package scene

import (
	"testing"

	"Forge3D/internal/core"
	"Forge3D/internal/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownEntity struct{ core.Object }

func TestContainerAddDispatchesByType(t *testing.T) {
	useProgram(t)
	c := NewContainer()
	defer c.Reset()

	node, mesh, light, mat, tex := NewNode(), NewMesh(), NewLight(), NewMaterial(), renderer.NewTexture()
	for _, e := range []core.Entity{node, mesh, light, mat, tex} {
		require.NoError(t, c.Add(e))
	}

	assert.Equal(t, []Element{node}, c.NodeList())
	assert.Equal(t, []*Mesh{mesh}, c.MeshList())
	assert.Equal(t, []*Light{light}, c.LightList())
	assert.Equal(t, []*Material{mat}, c.MaterialList())
	assert.Equal(t, []*renderer.Texture{tex}, c.TextureList())
	assert.Same(t, node, c.LastNode())
	assert.Same(t, mesh, c.LastMesh())
	assert.Same(t, light, c.LastLight())
	assert.Same(t, mat, c.LastMaterial())
	assert.Same(t, tex, c.LastTexture())
}

func TestContainerAddRejects(t *testing.T) {
	c := NewContainer()
	u := &unknownEntity{Object: core.NewObject()}
	defer u.Destroy()

	assert.ErrorIs(t, c.Add(u), ErrUnsupportedType)
	assert.ErrorIs(t, c.Add(nil), ErrInvalidParams)
	assert.ErrorIs(t, c.Add(EmptyNode), ErrInvalidParams)
	assert.ErrorIs(t, c.Add(EmptyLight), ErrInvalidParams)
	assert.ErrorIs(t, c.Add((*Mesh)(nil)), ErrInvalidParams)
	assert.ErrorIs(t, c.Add(EmptyCamera), ErrInvalidParams)
	assert.ErrorIs(t, c.Add((*Camera)(nil)), ErrInvalidParams)
	assert.Empty(t, c.NodeList())
}

func TestContainerAddCamera(t *testing.T) {
	before := core.NrOfObjects()
	c := NewContainer()
	camera := NewCamera()
	require.NoError(t, camera.SetName("camera"))

	require.NoError(t, c.Add(camera))
	require.Len(t, c.NodeList(), 1)
	assert.Same(t, camera, c.LastNode())

	got, ok := c.Find("camera").(*Camera)
	require.True(t, ok)
	assert.Same(t, camera, got)

	require.NoError(t, c.Reset())
	assert.Empty(t, c.NodeList())
	assert.Equal(t, before, core.NrOfObjects())
}

func TestContainerEmptyLasts(t *testing.T) {
	c := NewContainer()
	assert.Same(t, EmptyNode, c.LastNode())
	assert.Same(t, EmptyMesh, c.LastMesh())
	assert.Same(t, EmptyLight, c.LastLight())
	assert.Same(t, EmptyMaterial, c.LastMaterial())
	assert.Same(t, renderer.EmptyTexture, c.LastTexture())
}

func TestContainerFind(t *testing.T) {
	c := NewContainer()
	defer c.Reset()

	mat := NewMaterial()
	require.NoError(t, mat.SetName("shared"))
	node := NewNode()
	require.NoError(t, node.SetName("shared"))
	light := NewLight()
	require.NoError(t, light.SetName("Omni001"))
	require.NoError(t, c.Add(node))
	require.NoError(t, c.Add(light))
	require.NoError(t, c.Add(mat))

	// Materials are searched before nodes.
	assert.Same(t, mat, c.Find("shared"))
	assert.Same(t, light, c.Find("Omni001"))
	assert.Same(t, node, c.FindByID(node.ID()))
	assert.Same(t, light, c.FindLight("Omni001"))
	assert.Same(t, mat, c.FindMaterial("shared"))

	assert.Same(t, core.Empty, c.Find("nonexistent"))
	assert.Same(t, core.Empty, c.Find(""))
	assert.Same(t, core.Empty, c.FindByID(0))
	assert.Same(t, EmptyLight, c.FindLight("shared"))
	assert.Same(t, EmptyMesh, c.FindMesh("Omni001"))
}

func TestContainerResetReleasesEverything(t *testing.T) {
	null, _ := useProgram(t)
	before := core.NrOfObjects()

	c := NewContainer()
	root := NewNode()
	mesh := NewMesh()
	require.NoError(t, mesh.Load([]renderer.VertexData{{}, {}, {}}, []renderer.FaceData{{0, 1, 2}}))
	tex := renderer.NewTexture()
	require.NoError(t, tex.Create(4, 4, renderer.FormatRGBA8))
	require.NoError(t, root.AddChild(mesh))
	for _, e := range []core.Entity{root, mesh, NewMaterial(), tex} {
		require.NoError(t, c.Add(e))
	}
	liveBuffers := null.Live(renderer.KindBuffer)
	require.Equal(t, 2, liveBuffers)
	c.SetDirty(false)

	require.NoError(t, c.Reset())
	assert.True(t, c.IsDirty())
	assert.Empty(t, c.NodeList())
	assert.Empty(t, c.MeshList())
	assert.Empty(t, c.TextureList())
	assert.Zero(t, null.Live(renderer.KindBuffer))
	assert.Zero(t, null.Live(renderer.KindTexture))
	assert.Equal(t, before, core.NrOfObjects())
}

func TestDefaultContainerIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.True(t, Default().IsStatic())
}
