package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"Forge3D/internal/config"
	"Forge3D/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSampleCommandWritesScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.ovo")
	out, err := execute(t, "sample", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestHeadlessDemoRendersSample(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.ovo")
	_, err := execute(t, "sample", scenePath)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine:\n  log-level: error\n"), 0o644))

	_, err = execute(t, "--config", cfgPath, "--scene", scenePath, "--headless", "--frames", "3")
	require.NoError(t, err)
	assert.Zero(t, core.NrOfObjects())
}

func TestDemoRendersDeferred(t *testing.T) {
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.ovo")
	_, err := execute(t, "sample", scenePath)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine:\n  log-level: error\n"), 0o644))

	_, err = execute(t, "--config", cfgPath, "--scene", scenePath, "--headless", "--deferred", "--frames", "2")
	require.NoError(t, err)
	assert.Zero(t, core.NrOfObjects())
}

func TestDemoMissingScene(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine:\n  headless: true\n  log-level: error\n"), 0o644))

	_, err := execute(t, "--config", cfgPath, "--scene", filepath.Join(dir, "missing.ovo"))
	require.Error(t, err)
	assert.Zero(t, core.NrOfObjects())
}

func TestConfigCommandPrintsEffectiveConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("window:\n  title: Viewer\n"), 0o644))

	out, err := execute(t, "config", "--config", cfgPath)
	require.NoError(t, err)

	cfg, err := config.Decode(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, "Viewer", cfg.Window.Title)
	assert.Equal(t, config.Default().Window.StartSize, cfg.Window.StartSize)
}

func TestStopAfter(t *testing.T) {
	headless := config.Default()
	headless.Engine.Headless = true
	windowed := config.Default()

	assert.True(t, stopAfter(headless, &options{}, 1))
	assert.False(t, stopAfter(windowed, &options{}, 1000))
	assert.False(t, stopAfter(windowed, &options{frames: 3}, 2))
	assert.True(t, stopAfter(windowed, &options{frames: 3}, 3))
}
