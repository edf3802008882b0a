package renderer

import (
	"Forge3D/internal/core"
)

// VertexArray binds a vertex buffer and an index buffer into one drawable.
type VertexArray struct {
	core.Object
	core.Managed
	handle uint32
	count  int32
}

func NewVertexArray() *VertexArray {
	return &VertexArray{Object: core.NewObject()}
}

func (a *VertexArray) Init() error {
	if err := a.Managed.Init(a); err != nil {
		return err
	}
	a.handle = driver.CreateVertexArray()
	return nil
}

func (a *VertexArray) Free() error {
	if !a.IsInitialized() {
		return nil
	}
	driver.DeleteVertexArray(a.handle)
	a.handle = 0
	a.count = 0
	return a.Managed.Free()
}

// Setup uploads the geometry and records the attribute layout. The array is
// initialized on first use.
func (a *VertexArray) Setup(vbo *VertexBuffer, ebo *IndexBuffer, vertices []VertexData, faces []FaceData) error {
	if !a.IsInitialized() {
		if err := a.Init(); err != nil {
			return err
		}
	}
	driver.BindVertexArray(a.handle)
	if err := vbo.Load(vertices); err != nil {
		return err
	}
	driver.SetupVertexLayout()
	if err := ebo.Load(faces); err != nil {
		return err
	}
	driver.BindVertexArray(0)
	a.count = int32(len(faces) * 3)
	return nil
}

// Render binds the array and draws every indexed triangle.
func (a *VertexArray) Render() {
	if !a.IsInitialized() || a.count == 0 {
		return
	}
	driver.BindVertexArray(a.handle)
	driver.DrawElements(a.count)
}

func (a *VertexArray) Handle() uint32 {
	return a.handle
}
