package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"Forge3D/internal/logger"

	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the home directory first, then in the working
// directory.
const FileName = ".acg-config.yml"

// BundledFileName is the configuration shipped next to the executable.
const BundledFileName = "acg-config.yml"

var ErrInvalid = errors.New("config: invalid configuration")

type Size struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Window struct {
	StartSize  Size   `yaml:"start-size"`
	Fullscreen bool   `yaml:"fullscreen"`
	Title      string `yaml:"title"`
}

type Engine struct {
	VSync      bool   `yaml:"v-sync"`
	ClearColor Color  `yaml:"clear-color"`
	LogLevel   string `yaml:"log-level"`
	// Headless runs without a window on the null graphics driver.
	Headless bool `yaml:"headless"`
	// ShaderDir, when set, holds default.vert and default.frag overriding
	// the built-in shaders; changes are picked up while running.
	ShaderDir string `yaml:"shader-dir"`
}

type Config struct {
	Window Window `yaml:"window"`
	Engine Engine `yaml:"engine"`
}

func Default() Config {
	return Config{
		Window: Window{
			StartSize: Size{X: 1024, Y: 768},
			Title:     "Forge3D",
		},
		Engine: Engine{
			VSync:      true,
			ClearColor: RGB(0, 0, 0),
			LogLevel:   "info",
		},
	}
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	if c.Window.StartSize.X <= 0 || c.Window.StartSize.Y <= 0 {
		return fmt.Errorf("%w: window start-size %dx%d", ErrInvalid, c.Window.StartSize.X, c.Window.StartSize.Y)
	}
	if !c.Engine.ClearColor.IsValid() {
		return fmt.Errorf("%w: clear-color %v out of range", ErrInvalid, c.Engine.ClearColor)
	}
	return nil
}

// Decode reads YAML from r over the defaults, so missing fields keep their
// default value. Unknown fields are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path. A leading ~ is expanded.
func Load(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Find returns the configuration file to use: ~/.acg-config.yml when it
// exists, otherwise ./acg-config.yml when that exists, otherwise "".
func Find() string {
	if home, err := homedir.Dir(); err == nil {
		path := filepath.Join(home, FileName)
		if fileExists(path) {
			logger.Log.Info("Found configuration file in home directory", zap.String("path", path))
			return path
		}
	}
	if fileExists(BundledFileName) {
		logger.Log.Info("Using bundled config file", zap.String("path", BundledFileName))
		return BundledFileName
	}
	return ""
}

// LoadDefault loads the file chosen by Find, or the built-in defaults when
// there is none.
func LoadDefault() (Config, error) {
	path := Find()
	if path == "" {
		logger.Log.Info("No configuration file found, using defaults")
		return Default(), nil
	}
	return Load(path)
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
