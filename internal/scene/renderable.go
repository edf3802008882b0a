package scene

import (
	"errors"

	"Forge3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoProgram = errors.New("scene: no program is current")

// Renderable is a graph element the render list can draw. value is a
// per-call selector (texture unit, pass id) and modelView the matrix the
// list computed for the element.
type Renderable interface {
	Element
	Render(value uint32, modelView mgl32.Mat4) error
}

func currentProgram() (*renderer.Program, error) {
	p := renderer.CachedProgram()
	if p == renderer.EmptyProgram {
		return nil, ErrNoProgram
	}
	return p, nil
}
