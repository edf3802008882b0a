package scene

import (
	"errors"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrUnsupportedType = errors.New("scene: unsupported object type")

// Container owns every object of the loaded scene, grouped by kind in
// insertion order.
type Container struct {
	core.Object
	nodes     []Element
	meshes    []*Mesh
	lights    []*Light
	materials []*Material
	textures  []*renderer.Texture
}

var defaultContainer = NewContainer()

// Default returns the process-wide container.
func Default() *Container {
	return defaultContainer
}

func NewContainer() *Container {
	return &Container{Object: core.NewStaticObject("[container]")}
}

// Add takes ownership of obj. Meshes and lights get their own lists; any
// other scene graph element, cameras included, goes to the node list with
// its dynamic type intact. Materials and textures are accepted too.
func (c *Container) Add(obj core.Entity) error {
	switch o := obj.(type) {
	case *Mesh:
		if o == nil || o.IsStatic() {
			return ErrInvalidParams
		}
		c.meshes = append(c.meshes, o)
	case *Light:
		if o == nil || o.IsStatic() {
			return ErrInvalidParams
		}
		c.lights = append(c.lights, o)
	case *Camera:
		if o == nil || o.IsStatic() {
			return ErrInvalidParams
		}
		c.nodes = append(c.nodes, o)
	case Element:
		if n := o.Base(); n == nil || n.IsStatic() {
			return ErrInvalidParams
		}
		c.nodes = append(c.nodes, o)
	case *Material:
		if o == nil || o.IsStatic() {
			return ErrInvalidParams
		}
		c.materials = append(c.materials, o)
	case *renderer.Texture:
		if o == nil || o.IsStatic() {
			return ErrInvalidParams
		}
		c.textures = append(c.textures, o)
	case nil:
		return ErrInvalidParams
	default:
		logger.Log.Error("Unsupported type", zap.String("name", obj.Name()))
		return ErrUnsupportedType
	}
	return nil
}

// Find looks name up across materials, textures, meshes, lights and nodes, in
// that order. It returns core.Empty when nothing matches or name is empty.
func (c *Container) Find(name string) core.Entity {
	if name == "" {
		return core.Empty
	}
	return c.find(func(e core.Entity) bool { return e.Name() == name })
}

// FindByID is Find keyed by id. Id 0 never matches.
func (c *Container) FindByID(id uint32) core.Entity {
	if id == 0 {
		return core.Empty
	}
	return c.find(func(e core.Entity) bool { return e.ID() == id })
}

func (c *Container) find(match func(core.Entity) bool) core.Entity {
	for _, m := range c.materials {
		if match(m) {
			return m
		}
	}
	for _, t := range c.textures {
		if match(t) {
			return t
		}
	}
	for _, m := range c.meshes {
		if match(m) {
			return m
		}
	}
	for _, l := range c.lights {
		if match(l) {
			return l
		}
	}
	for _, n := range c.nodes {
		if match(n) {
			return n
		}
	}
	return core.Empty
}

// FindLight returns the light called name, or EmptyLight.
func (c *Container) FindLight(name string) *Light {
	if l, ok := c.Find(name).(*Light); ok {
		return l
	}
	return EmptyLight
}

// FindMaterial returns the material called name, or EmptyMaterial.
func (c *Container) FindMaterial(name string) *Material {
	if m, ok := c.Find(name).(*Material); ok {
		return m
	}
	return EmptyMaterial
}

// FindMesh returns the mesh called name, or EmptyMesh.
func (c *Container) FindMesh(name string) *Mesh {
	if m, ok := c.Find(name).(*Mesh); ok {
		return m
	}
	return EmptyMesh
}

// Reset releases every owned object and empties the container.
func (c *Container) Reset() error {
	var errs error
	for _, m := range c.meshes {
		errs = multierr.Append(errs, m.Release())
	}
	for _, l := range c.lights {
		errs = multierr.Append(errs, l.Release())
	}
	for _, n := range c.nodes {
		if r, ok := n.(interface{ Release() error }); ok {
			errs = multierr.Append(errs, r.Release())
		} else {
			errs = multierr.Append(errs, n.Base().Release())
		}
	}
	for _, m := range c.materials {
		errs = multierr.Append(errs, m.Release())
	}
	for _, t := range c.textures {
		errs = multierr.Append(errs, core.Release(t))
	}
	c.meshes, c.lights, c.nodes = nil, nil, nil
	c.materials, c.textures = nil, nil
	c.SetDirty(true)
	return errs
}

func (c *Container) LastNode() Element {
	if len(c.nodes) == 0 {
		return EmptyNode
	}
	return c.nodes[len(c.nodes)-1]
}

func (c *Container) LastMesh() *Mesh {
	if len(c.meshes) == 0 {
		return EmptyMesh
	}
	return c.meshes[len(c.meshes)-1]
}

func (c *Container) LastLight() *Light {
	if len(c.lights) == 0 {
		return EmptyLight
	}
	return c.lights[len(c.lights)-1]
}

func (c *Container) LastMaterial() *Material {
	if len(c.materials) == 0 {
		return EmptyMaterial
	}
	return c.materials[len(c.materials)-1]
}

func (c *Container) LastTexture() *renderer.Texture {
	if len(c.textures) == 0 {
		return renderer.EmptyTexture
	}
	return c.textures[len(c.textures)-1]
}

func (c *Container) NodeList() []Element {
	return c.nodes
}

func (c *Container) MeshList() []*Mesh {
	return c.meshes
}

func (c *Container) LightList() []*Light {
	return c.lights
}

func (c *Container) MaterialList() []*Material {
	return c.materials
}

func (c *Container) TextureList() []*renderer.Texture {
	return c.textures
}
