package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Color is an RGB color read from YAML either as [r, g, b] with components
// in [0, 1] or as a "#rrggbb" string.
type Color struct {
	colorful.Color
}

func RGB(r, g, b float64) Color {
	return Color{colorful.Color{R: r, G: g, B: b}}
}

// Vec3 returns the color as a shader uniform value.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		col, err := colorful.Hex(s)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		c.Color = col
		return nil
	case yaml.SequenceNode:
		var rgb []float64
		if err := value.Decode(&rgb); err != nil {
			return err
		}
		if len(rgb) != 3 {
			return fmt.Errorf("line %d: color needs 3 components, got %d", value.Line, len(rgb))
		}
		*c = RGB(rgb[0], rgb[1], rgb[2])
		return nil
	}
	return fmt.Errorf("line %d: color must be [r, g, b] or \"#rrggbb\"", value.Line)
}

func (c Color) MarshalYAML() (interface{}, error) {
	return []float64{c.R, c.G, c.B}, nil
}
