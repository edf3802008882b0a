package loader

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlane(t *testing.T) {
	_, err := Plane(1, 1)
	assert.Error(t, err)

	g, err := Plane(3, 2)
	require.NoError(t, err)
	assert.Len(t, g.Vertices, 9)
	assert.Len(t, g.Faces, 8)

	min, max, _ := g.Bounds()
	assert.Equal(t, mgl32.Vec3{-2, 0, -2}, min)
	assert.Equal(t, mgl32.Vec3{2, 0, 2}, max)
}

func TestCube(t *testing.T) {
	g := Cube(2)
	assert.Len(t, g.Vertices, 24)
	assert.Len(t, g.Faces, 12)

	min, max, radius := g.Bounds()
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, max)
	assert.InDelta(t, 1.732, radius, 0.001)

	for _, f := range g.Faces {
		for _, idx := range f {
			assert.Less(t, idx, uint32(len(g.Vertices)))
		}
	}
}

func TestSphere(t *testing.T) {
	_, err := Sphere(1, 2)
	assert.Error(t, err)

	g, err := Sphere(3, 8)
	require.NoError(t, err)
	assert.Len(t, g.Vertices, 81)
	assert.Len(t, g.Faces, 128)
	_, _, radius := g.Bounds()
	assert.InDelta(t, 3, radius, 0.001)
}
