package loader

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
)

// WriteSampleScene writes a small OVO scene: a root holding a floor, a cube
// using material "01 - Default" and two omni lights named Omni002 and Omni003.
func WriteSampleScene(w io.Writer) error {
	floor, err := Plane(11, 4)
	if err != nil {
		return err
	}
	cube := Cube(10)
	meshChunk := func(name string, g *Geometry, material string, m mgl32.Mat4) MeshChunk {
		min, max, radius := g.Bounds()
		return MeshChunk{
			NodeChunk: NodeChunk{Name: name, Matrix: m},
			Material:  material,
			Radius:    radius,
			BBoxMin:   min,
			BBoxMax:   max,
			LODs:      []LOD{g.LOD()},
		}
	}
	omni := func(name string, pos mgl32.Vec3) LightChunk {
		return LightChunk{
			NodeChunk: NodeChunk{Name: name, Matrix: mgl32.Translate3D(pos.X(), pos.Y(), pos.Z())},
			Type:      0,
			Color:     mgl32.Vec3{1, 1, 1},
			Radius:    100,
			Cutoff:    180,
		}
	}

	ow := NewWriter(w).
		Material(MaterialChunk{
			Name:      "01 - Default",
			Albedo:    mgl32.Vec3{0.6, 0.6, 0.6},
			Roughness: 0.5,
			Metalness: 0.01,
			Opacity:   1,
		}).
		Material(MaterialChunk{
			Name:      "02 - Floor",
			Albedo:    mgl32.Vec3{0.4, 0.4, 0.4},
			Roughness: 0.9,
			Opacity:   1,
		}).
		Node(NodeChunk{Name: "[root]", Matrix: mgl32.Ident4(), Children: 4}).
		Mesh(meshChunk("Floor", floor, "02 - Floor", mgl32.Ident4())).
		Mesh(meshChunk("Box001", cube, "01 - Default", mgl32.Translate3D(0, 5, 0))).
		Light(omni("Omni002", mgl32.Vec3{-20, 15, 10})).
		Light(omni("Omni003", mgl32.Vec3{20, 15, -10}))
	return ow.Err()
}
