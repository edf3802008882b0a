package scene

import (
	"Forge3D/internal/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a node carrying a projection. Its inverse world matrix is the view.
type Camera struct {
	Node
	projMatrix mgl32.Mat4
}

var EmptyCamera = &Camera{Node: Node{Object: core.NewStaticObject(core.EmptyName), matrix: mgl32.Ident4()}, projMatrix: mgl32.Ident4()}

func NewCamera() *Camera {
	c := &Camera{projMatrix: mgl32.Ident4()}
	c.initNode()
	return c
}

func (c *Camera) SetProjMatrix(m mgl32.Mat4) {
	c.projMatrix = m
}

func (c *Camera) ProjMatrix() mgl32.Mat4 {
	return c.projMatrix
}

// ViewMatrix is the inverse of the camera's world matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.WorldMatrix(nil).Inv()
}

// Render uploads the projection matrix to the current program.
func (c *Camera) Render(_ uint32, _ mgl32.Mat4) error {
	p, err := currentProgram()
	if err != nil {
		return err
	}
	p.SetMat4("projectionMat", c.projMatrix)
	return nil
}
