package pipeline

import (
	"sync"

	"Forge3D/internal/renderer"
)

// Sources holds the vertex and fragment shader text of a pipeline. It may be
// updated from any goroutine; the pipeline picks the change up on its next
// render, on the thread owning the GL context.
type Sources struct {
	mu       sync.Mutex
	vertex   string
	fragment string
	rev      uint64
}

func NewSources(vertex, fragment string) *Sources {
	return &Sources{vertex: vertex, fragment: fragment}
}

// Set replaces one stage. Identical text is ignored.
func (s *Sources) Set(kind renderer.ShaderKind, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case renderer.VertexShader:
		if s.vertex == source {
			return
		}
		s.vertex = source
	case renderer.FragmentShader:
		if s.fragment == source {
			return
		}
		s.fragment = source
	default:
		return
	}
	s.rev++
}

// Get returns both stages and the revision they belong to.
func (s *Sources) Get() (vertex, fragment string, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vertex, s.fragment, s.rev
}

// Revision increases every time a stage changes.
func (s *Sources) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}
