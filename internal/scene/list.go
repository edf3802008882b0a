package scene

import (
	"fmt"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Pass selects which part of a List is rendered.
type Pass int

const (
	PassAll Pass = iota
	PassLights
	PassMeshes
)

func (p Pass) String() string {
	switch p {
	case PassAll:
		return "all"
	case PassLights:
		return "lights"
	case PassMeshes:
		return "meshes"
	}
	return "unknown"
}

// RenderableElem is one entry of a List: the element and its world matrix at
// traversal time.
type RenderableElem struct {
	Reference Renderable
	Matrix    mgl32.Mat4
}

// List is the per-frame flattened scene. Lights occupy [0, NrOfLights) and
// meshes the rest. It is rebuilt every frame with Reset and Process and is
// not safe for concurrent use.
type List struct {
	core.Object
	elems      []RenderableElem
	nrOfLights int
}

// EmptyList is the sentinel list.
var EmptyList = &List{Object: core.NewStaticObject(core.EmptyName)}

func NewList() *List {
	return &List{Object: core.NewObject()}
}

// Reset clears the list, keeping its capacity for the next frame.
func (l *List) Reset() {
	l.elems = l.elems[:0]
	l.nrOfLights = 0
}

// Process walks the subtree rooted at node depth-first, computing each world
// matrix as parentMatrix * local. Lights are inserted at the front, so the
// last light found ends up first; meshes are appended in discovery order.
// Plain nodes contribute nothing but are still descended into.
func (l *List) Process(node Element, parentMatrix mgl32.Mat4) error {
	if l == EmptyList || node == nil || node.Base() == nil || node.Base().IsStatic() {
		logger.Log.Error("Invalid params", zap.String("fun", "List.Process"))
		return ErrInvalidParams
	}
	return l.process(node, parentMatrix)
}

func (l *List) process(node Element, parentMatrix mgl32.Mat4) error {
	base := node.Base()
	if base == nil || base.IsStatic() {
		return ErrInvalidParams
	}
	world := parentMatrix.Mul4(base.matrix)

	switch n := node.(type) {
	case *Light:
		l.elems = append(l.elems, RenderableElem{})
		copy(l.elems[1:], l.elems)
		l.elems[0] = RenderableElem{Reference: n, Matrix: world}
		l.nrOfLights++
	case *Mesh:
		l.elems = append(l.elems, RenderableElem{Reference: n, Matrix: world})
	}

	for _, child := range base.children {
		if err := l.process(child, world); err != nil {
			return fmt.Errorf("processing %q: %w", child.Name(), err)
		}
	}
	return nil
}

// Render draws one pass of the list. Each element receives
// cameraMatrix * worldMatrix. The first element that fails aborts the pass.
func (l *List) Render(cameraMatrix mgl32.Mat4, pass Pass) error {
	var from, to int
	switch pass {
	case PassAll:
		from, to = 0, len(l.elems)
	case PassLights:
		from, to = 0, l.nrOfLights
	case PassMeshes:
		from, to = l.nrOfLights, len(l.elems)
	default:
		return fmt.Errorf("%w: unknown pass %d", ErrInvalidParams, pass)
	}
	for i := from; i < to; i++ {
		re := l.elems[i]
		if err := re.Reference.Render(0, cameraMatrix.Mul4(re.Matrix)); err != nil {
			return fmt.Errorf("rendering %q: %w", re.Reference.Name(), err)
		}
	}
	return nil
}

func (l *List) NrOfRenderableElems() int {
	return len(l.elems)
}

func (l *List) NrOfLights() int {
	return l.nrOfLights
}

// RenderableElem returns the element at index i. Out of range indices return
// an element referencing EmptyMesh with an identity matrix, the same way
// Child returns EmptyNode. EmptyMesh has no geometry, so rendering it draws
// nothing, but callers should compare against it rather than render it.
func (l *List) RenderableElem(i int) RenderableElem {
	if i < 0 || i >= len(l.elems) {
		logger.Log.Error("Invalid renderable index", zap.Int("index", i), zap.Int("size", len(l.elems)))
		return RenderableElem{Reference: EmptyMesh, Matrix: mgl32.Ident4()}
	}
	return l.elems[i]
}

// RenderableElems returns the elements in render order. The slice is reused
// on the next Reset.
func (l *List) RenderableElems() []RenderableElem {
	return l.elems
}

// Release ends the list's identity.
func (l *List) Release() error {
	l.Reset()
	l.Destroy()
	return nil
}
