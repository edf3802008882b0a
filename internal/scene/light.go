package scene

import (
	"Forge3D/internal/core"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType uint8

const (
	LightOmni LightType = iota
	LightDirectional
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightOmni:
		return "omni"
	case LightDirectional:
		return "directional"
	case LightSpot:
		return "spot"
	}
	return "unknown"
}

// Light is a node that feeds its color and position to the current program.
type Light struct {
	Node
	Type         LightType
	Radius       float32
	Direction    mgl32.Vec3
	Cutoff       float32
	SpotExponent float32
	CastShadows  bool
	Volumetric   bool

	color      mgl32.Vec3
	ambient    mgl32.Vec3
	projMatrix mgl32.Mat4
}

// EmptyLight is the sentinel light.
var EmptyLight = &Light{Node: Node{Object: core.NewStaticObject(core.EmptyName), matrix: mgl32.Ident4()}}

func NewLight() *Light {
	l := &Light{
		color:      mgl32.Vec3{1, 1, 1},
		ambient:    mgl32.Vec3{0.25, 0.25, 0.25},
		projMatrix: mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 1000),
	}
	l.initNode()
	return l
}

func (l *Light) SetColor(c mgl32.Vec3) {
	l.color = c
}

func (l *Light) Color() mgl32.Vec3 {
	return l.color
}

func (l *Light) SetAmbient(c mgl32.Vec3) {
	l.ambient = c
}

func (l *Light) Ambient() mgl32.Vec3 {
	return l.ambient
}

// SetProjMatrix sets the projection used when rendering shadows from this light.
func (l *Light) SetProjMatrix(m mgl32.Mat4) {
	l.projMatrix = m
}

func (l *Light) ProjMatrix() mgl32.Mat4 {
	return l.projMatrix
}

// Render uploads the light parameters. The position is the translation of
// modelView, i.e. the light in eye space.
func (l *Light) Render(_ uint32, modelView mgl32.Mat4) error {
	p, err := currentProgram()
	if err != nil {
		return err
	}
	p.SetVec3("lightColor", l.color)
	p.SetVec3("lightAmbient", l.ambient)
	p.SetVec3("lightPosition", modelView.Col(3).Vec3())
	return nil
}
