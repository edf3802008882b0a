package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
window:
  start-size:
    x: 800
    y: 600
  fullscreen: true
engine:
  v-sync: false
  clear-color: [0.25, 0.5, 1.0]
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, Size{X: 800, Y: 600}, cfg.Window.StartSize)
	assert.True(t, cfg.Window.Fullscreen)
	assert.False(t, cfg.Engine.VSync)
	assert.Equal(t, mgl32.Vec3{0.25, 0.5, 1}, cfg.Engine.ClearColor.Vec3())

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "Forge3D", cfg.Window.Title)
	assert.Equal(t, "info", cfg.Engine.LogLevel)
}

func TestDecodeEmptyGivesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeHexColor(t *testing.T) {
	cfg, err := Decode(strings.NewReader("engine:\n  clear-color: \"#ff0000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, cfg.Engine.ClearColor.Vec3())
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "engine:\n  turbo: true\n",
		"short color":     "engine:\n  clear-color: [1, 0]\n",
		"bad hex":         "engine:\n  clear-color: \"#zz\"\n",
		"map color":       "engine:\n  clear-color: {r: 1}\n",
		"color range":     "engine:\n  clear-color: [2, 0, 0]\n",
		"zero size":       "window:\n  start-size: {x: 0, y: 600}\n",
		"malformed yaml":  "window: [\n",
		"wrong type size": "window:\n  start-size: {x: big, y: 1}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Engine.ClearColor = RGB(0.5, 0.25, 0)
	cfg.Engine.Headless = true

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))
	assert.Contains(t, buf.String(), "v-sync: true")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func useHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	return home
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadExpandsHome(t *testing.T) {
	home := useHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(sample), 0o644))

	cfg, err := Load("~/" + FileName)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.StartSize.X)

	_, err = Load("~/missing.yml")
	assert.Error(t, err)
}

func TestFindPrefersHome(t *testing.T) {
	home := useHome(t)
	work := t.TempDir()
	chdir(t, work)

	assert.Equal(t, "", Find())
	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(work, BundledFileName), []byte("engine:\n  v-sync: false\n"), 0o644))
	assert.Equal(t, BundledFileName, Find())

	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(sample), 0o644))
	assert.Equal(t, filepath.Join(home, FileName), Find())

	cfg, err = LoadDefault()
	require.NoError(t, err)
	assert.True(t, cfg.Window.Fullscreen)
}
