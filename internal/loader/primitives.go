package loader

import (
	"errors"
	"math"

	"Forge3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is an indexed triangle list ready for scene.Mesh.Load.
type Geometry struct {
	Name     string
	Vertices []renderer.VertexData
	Faces    []renderer.FaceData
}

// Bounds returns the axis-aligned box and the bounding radius around the origin.
func (g *Geometry) Bounds() (min, max mgl32.Vec3, radius float32) {
	if len(g.Vertices) == 0 {
		return
	}
	min, max = g.Vertices[0].Vertex, g.Vertices[0].Vertex
	for _, v := range g.Vertices {
		for i := 0; i < 3; i++ {
			min[i] = float32(math.Min(float64(min[i]), float64(v.Vertex[i])))
			max[i] = float32(math.Max(float64(max[i]), float64(v.Vertex[i])))
		}
		if l := v.Vertex.Len(); l > radius {
			radius = l
		}
	}
	return
}

// LOD wraps the geometry as a single level of detail.
func (g *Geometry) LOD() LOD {
	return LOD{Vertices: g.Vertices, Faces: g.Faces}
}

func vertex(pos, normal, tangent mgl32.Vec3, u, v float32) renderer.VertexData {
	return renderer.VertexData{
		Vertex:  pos,
		Normal:  renderer.PackNormal(normal),
		UV:      renderer.PackUV(u, v),
		Tangent: renderer.PackNormal(tangent),
	}
}

// Plane builds a gridSize x gridSize grid on the XZ plane facing +Y,
// centered on the origin.
func Plane(gridSize int, gridSpacing float32) (*Geometry, error) {
	if gridSize < 2 {
		return nil, errors.New("loader: gridSize must be at least 2")
	}

	g := &Geometry{
		Name:     "Plane",
		Vertices: make([]renderer.VertexData, 0, gridSize*gridSize),
		Faces:    make([]renderer.FaceData, 0, (gridSize-1)*(gridSize-1)*2),
	}
	half := float32(gridSize-1) * gridSpacing * 0.5
	last := float32(gridSize - 1)
	up := mgl32.Vec3{0, 1, 0}
	right := mgl32.Vec3{1, 0, 0}

	for x := 0; x < gridSize; x++ {
		for z := 0; z < gridSize; z++ {
			pos := mgl32.Vec3{float32(x)*gridSpacing - half, 0, float32(z)*gridSpacing - half}
			g.Vertices = append(g.Vertices, vertex(pos, up, right, float32(x)/last, float32(z)/last))
		}
	}

	for x := 0; x < gridSize-1; x++ {
		for z := 0; z < gridSize-1; z++ {
			topLeft := uint32(x*gridSize + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*gridSize + z)
			bottomRight := bottomLeft + 1

			g.Faces = append(g.Faces,
				renderer.FaceData{topLeft, topRight, bottomRight},
				renderer.FaceData{topLeft, bottomRight, bottomLeft})
		}
	}
	return g, nil
}

// Cube builds a cube with per-face normals, 24 vertices and 12 triangles.
func Cube(size float32) *Geometry {
	h := size * 0.5
	sides := []struct {
		normal, tangent mgl32.Vec3
		corners         [4]mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	g := &Geometry{Name: "Cube"}
	for _, s := range sides {
		base := uint32(len(g.Vertices))
		for i, c := range s.corners {
			g.Vertices = append(g.Vertices, vertex(c, s.normal, s.tangent, uvs[i][0], uvs[i][1]))
		}
		g.Faces = append(g.Faces,
			renderer.FaceData{base, base + 1, base + 2},
			renderer.FaceData{base + 2, base + 3, base})
	}
	return g
}

// Sphere builds a UV sphere with the given number of latitude and longitude
// segments.
func Sphere(radius float32, segments int) (*Geometry, error) {
	if segments < 3 {
		return nil, errors.New("loader: sphere needs at least 3 segments")
	}
	g := &Geometry{Name: "Sphere"}
	for i := 0; i <= segments; i++ {
		lat := float64(i) * math.Pi / float64(segments)
		for j := 0; j <= segments; j++ {
			lon := float64(j) * 2 * math.Pi / float64(segments)

			n := mgl32.Vec3{
				float32(math.Sin(lat) * math.Cos(lon)),
				float32(math.Cos(lat)),
				float32(math.Sin(lat) * math.Sin(lon)),
			}
			tangent := mgl32.Vec3{-float32(math.Sin(lon)), 0, float32(math.Cos(lon))}
			u := float32(j) / float32(segments)
			v := float32(i) / float32(segments)
			g.Vertices = append(g.Vertices, vertex(n.Mul(radius), n, tangent, u, v))
		}
	}

	for i := 0; i < segments; i++ {
		for j := 0; j < segments; j++ {
			first := uint32(i*(segments+1) + j)
			second := first + uint32(segments+1)
			g.Faces = append(g.Faces,
				renderer.FaceData{first, second, first + 1},
				renderer.FaceData{second, second + 1, first + 1})
		}
	}
	return g, nil
}
