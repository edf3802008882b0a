package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"Forge3D/internal/renderer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.frag")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	src := NewSources("vertex", "fragment")
	require.NoError(t, w.Watch(path, src, renderer.FragmentShader))
	_, fragment, rev := src.Get()
	assert.Equal(t, "void main() {}", fragment)

	require.NoError(t, os.WriteFile(path, []byte("void main() { discard; }"), 0o644))
	require.Eventually(t, func() bool {
		_, fragment, _ := src.Get()
		return fragment == "void main() { discard; }"
	}, 5*time.Second, 10*time.Millisecond)
	assert.Greater(t, src.Revision(), rev)

	vertex, _, _ := src.Get()
	assert.Equal(t, "vertex", vertex)
}

func TestWatcherMissingFile(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	src := NewSources("vertex", "fragment")
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "nope.vert"), src, renderer.VertexShader))
	assert.Equal(t, uint64(0), src.Revision())
}

func TestSourcesIgnoreUnknownKind(t *testing.T) {
	src := NewSources("v", "f")
	src.Set(renderer.GeometryShader, "g")
	assert.Equal(t, uint64(0), src.Revision())
	src.Set(renderer.VertexShader, "v2")
	assert.Equal(t, uint64(1), src.Revision())
}
