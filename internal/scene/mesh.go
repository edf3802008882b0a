package scene

import (
	"Forge3D/internal/core"
	"Forge3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

// Mesh is a node carrying indexed triangle geometry and a material.
type Mesh struct {
	Node
	Radius  float32
	BBoxMin mgl32.Vec3
	BBoxMax mgl32.Vec3

	material *Material
	vao      *renderer.VertexArray
	vbo      *renderer.VertexBuffer
	ebo      *renderer.IndexBuffer
}

// EmptyMesh is the sentinel mesh.
var EmptyMesh = &Mesh{Node: Node{Object: core.NewStaticObject(core.EmptyName), matrix: mgl32.Ident4()}, material: EmptyMaterial}

func NewMesh() *Mesh {
	m := &Mesh{material: EmptyMaterial}
	m.initNode()
	return m
}

// SetMaterial assigns the material; nil falls back to EmptyMaterial.
func (m *Mesh) SetMaterial(mat *Material) {
	if mat == nil {
		mat = EmptyMaterial
	}
	m.material = mat
}

func (m *Mesh) Material() *Material {
	return m.material
}

// Load uploads geometry, replacing any previous buffers.
func (m *Mesh) Load(vertices []renderer.VertexData, faces []renderer.FaceData) error {
	if m.vao == nil {
		m.vao = renderer.NewVertexArray()
		m.vbo = renderer.NewVertexBuffer()
		m.ebo = renderer.NewIndexBuffer()
	}
	return m.vao.Setup(m.vbo, m.ebo, vertices, faces)
}

func (m *Mesh) NrOfFaces() int {
	if m.ebo == nil {
		return 0
	}
	return m.ebo.NrOfFaces()
}

// Render uploads the model-view and normal matrices, the material, then draws.
func (m *Mesh) Render(_ uint32, modelView mgl32.Mat4) error {
	p, err := currentProgram()
	if err != nil {
		return err
	}
	p.SetMat4("modelviewMat", modelView)
	p.SetMat3("normalMat", modelView.Mat3().Inv().Transpose())
	if err := m.material.Render(0, modelView); err != nil {
		return err
	}
	if m.vao != nil {
		m.vao.Render()
	}
	return nil
}

// Release frees the geometry buffers and ends the mesh's identity.
func (m *Mesh) Release() error {
	var errs error
	if m.vao != nil {
		errs = multierr.Combine(
			core.Release(m.vao),
			core.Release(m.vbo),
			core.Release(m.ebo),
		)
		m.vao, m.vbo, m.ebo = nil, nil, nil
	}
	m.Destroy()
	return errs
}
