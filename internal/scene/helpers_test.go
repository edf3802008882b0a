package scene

import (
	"testing"

	"Forge3D/internal/core"
	"Forge3D/internal/renderer"

	"github.com/stretchr/testify/require"
)

// useProgram installs a NullDriver and makes a freshly built program current.
func useProgram(t *testing.T) (*renderer.NullDriver, *renderer.Program) {
	t.Helper()
	prev := renderer.CurrentDriver()
	null := renderer.NewNullDriver()
	renderer.SetDriver(null)

	vs, fs := renderer.NewShader(), renderer.NewShader()
	require.NoError(t, vs.Load(renderer.VertexShader, "void main() {}"))
	require.NoError(t, fs.Load(renderer.FragmentShader, "void main() {}"))
	p := renderer.NewProgram()
	require.NoError(t, p.Build(vs, fs))
	require.NoError(t, p.Render())

	t.Cleanup(func() {
		for _, r := range []core.Releasable{p, vs, fs} {
			_ = core.Release(r)
		}
		_ = renderer.DefaultTexture(true).Free()
		renderer.SetDriver(prev)
	})
	return null, p
}

func namedNode(t *testing.T, name string) *Node {
	t.Helper()
	n := NewNode()
	require.NoError(t, n.SetName(name))
	t.Cleanup(func() { n.Destroy() })
	return n
}

func namedLight(t *testing.T, name string) *Light {
	t.Helper()
	l := NewLight()
	require.NoError(t, l.SetName(name))
	t.Cleanup(func() { l.Destroy() })
	return l
}

func namedMesh(t *testing.T, name string) *Mesh {
	t.Helper()
	m := NewMesh()
	require.NoError(t, m.SetName(name))
	t.Cleanup(func() { _ = m.Release() })
	return m
}
