package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChildSetsParent(t *testing.T) {
	a := namedNode(t, "a")
	b := namedNode(t, "b")

	assert.Same(t, EmptyNode, b.Parent())
	require.NoError(t, a.AddChild(b))
	assert.Same(t, a, b.Parent())
	assert.Equal(t, 1, a.NrOfChildren())
	assert.Equal(t, []Element{b}, a.Children())

	assert.ErrorIs(t, a.AddChild(b), ErrAlreadyParented)
	assert.Equal(t, 1, a.NrOfChildren())
}

func TestAddChildRejectsInvalidInput(t *testing.T) {
	a := namedNode(t, "a")

	assert.ErrorIs(t, a.AddChild(EmptyNode), ErrInvalidParams)
	assert.ErrorIs(t, a.AddChild(nil), ErrInvalidParams)
	assert.ErrorIs(t, EmptyNode.AddChild(a), ErrInvalidParams)
	assert.ErrorIs(t, a.AddChild(a), ErrCycle)

	b := namedNode(t, "b")
	require.NoError(t, a.AddChild(b))
	assert.ErrorIs(t, b.AddChild(a), ErrCycle)
}

func TestAddChildRejectsSentinelSubtypes(t *testing.T) {
	a := namedNode(t, "a")

	for _, sentinel := range []Element{EmptyLight, EmptyMesh, EmptyCamera} {
		assert.ErrorIs(t, a.AddChild(sentinel), ErrInvalidParams)
		assert.Same(t, EmptyNode, sentinel.Base().Parent())
		assert.ErrorIs(t, sentinel.Base().AddChild(namedNode(t, "child")), ErrInvalidParams)
		assert.Zero(t, sentinel.Base().NrOfChildren())
	}
	assert.Zero(t, a.NrOfChildren())
}

func TestChildrenKeepDynamicType(t *testing.T) {
	root := namedNode(t, "root")
	light := namedLight(t, "light")
	require.NoError(t, root.AddChild(light))

	got, ok := root.Child(0).(*Light)
	require.True(t, ok)
	assert.Same(t, light, got)
}

func TestChildOutOfRange(t *testing.T) {
	a := namedNode(t, "a")
	assert.Same(t, EmptyNode, a.Child(0))
	assert.Same(t, EmptyNode, a.Child(-1))
}

func TestRemoveChild(t *testing.T) {
	a := namedNode(t, "a")
	b := namedNode(t, "b")
	c := namedNode(t, "c")
	require.NoError(t, a.AddChild(b))
	require.NoError(t, a.AddChild(c))

	assert.Same(t, EmptyNode, a.RemoveChild(5))
	assert.Equal(t, 2, a.NrOfChildren())

	removed := a.RemoveChild(0)
	assert.Same(t, b, removed)
	assert.Same(t, EmptyNode, b.Parent())
	assert.Equal(t, []Element{c}, a.Children())

	// Detached nodes can be parented again.
	require.NoError(t, c.AddChild(b))
	assert.Same(t, c, b.Parent())
}

func TestWorldMatrixComposition(t *testing.T) {
	root := namedNode(t, "root")
	a := namedNode(t, "a")
	b := namedNode(t, "b")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(b))

	mr := mgl32.Translate3D(0, 0, -5)
	ma := mgl32.HomogRotate3DY(mgl32.DegToRad(90))
	mb := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	root.SetMatrix(mr)
	a.SetMatrix(ma)
	b.SetMatrix(mb)

	want := mr.Mul4(ma).Mul4(mb)
	assert.True(t, want.ApproxEqual(b.WorldMatrix(nil)))

	// A root boundary excludes the boundary's own matrix.
	assert.True(t, ma.Mul4(mb).ApproxEqual(b.WorldMatrix(root)))
	assert.True(t, mb.ApproxEqual(b.WorldMatrix(a)))
	assert.True(t, mr.ApproxEqual(root.WorldMatrix(nil)))
}

func TestTreeAsString(t *testing.T) {
	root := namedNode(t, "root")
	a := namedNode(t, "a")
	b := namedNode(t, "b")
	c := namedNode(t, "c")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(b))
	require.NoError(t, root.AddChild(c))

	want := "+ root\n + a\n  + b\n + c\n"
	assert.Equal(t, want, root.TreeAsString())
	// Reentrant: a subtree dump starts at depth zero again.
	assert.Equal(t, "+ a\n + b\n", a.TreeAsString())
	assert.Equal(t, want, root.TreeAsString())
}
