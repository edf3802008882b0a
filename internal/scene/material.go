package scene

import (
	"Forge3D/internal/core"
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Material holds PBR surface parameters and up to one texture per slot.
type Material struct {
	core.Object
	emission  mgl32.Vec3
	albedo    mgl32.Vec3
	opacity   float32
	roughness float32
	metalness float32
	textures  [renderer.NrOfTextureTypes]*renderer.Texture
}

// EmptyMaterial is the sentinel material used by meshes without one.
var EmptyMaterial = newMaterial(core.NewStaticObject(core.EmptyName))

func NewMaterial() *Material {
	return newMaterial(core.NewObject())
}

func newMaterial(obj core.Object) *Material {
	m := &Material{
		Object:    obj,
		albedo:    mgl32.Vec3{0.6, 0.6, 0.6},
		opacity:   1,
		roughness: 0.5,
		metalness: 0.01,
	}
	for i := range m.textures {
		m.textures[i] = renderer.EmptyTexture
	}
	return m
}

func (m *Material) SetEmission(v mgl32.Vec3) {
	m.emission = v
	m.SetDirty(true)
}

func (m *Material) Emission() mgl32.Vec3 {
	return m.emission
}

func (m *Material) SetAlbedo(v mgl32.Vec3) {
	m.albedo = v
	m.SetDirty(true)
}

func (m *Material) Albedo() mgl32.Vec3 {
	return m.albedo
}

func (m *Material) SetOpacity(v float32) {
	m.opacity = v
	m.SetDirty(true)
}

func (m *Material) Opacity() float32 {
	return m.opacity
}

func (m *Material) SetRoughness(v float32) {
	m.roughness = v
	m.SetDirty(true)
}

func (m *Material) Roughness() float32 {
	return m.roughness
}

func (m *Material) SetMetalness(v float32) {
	m.metalness = v
	m.SetDirty(true)
}

func (m *Material) Metalness() float32 {
	return m.metalness
}

// SetTexture assigns tex to a slot. Passing nil clears the slot.
func (m *Material) SetTexture(tex *renderer.Texture, slot renderer.TextureType) error {
	if slot < 0 || slot >= renderer.NrOfTextureTypes {
		logger.Log.Error("Unsupported texture slot", zap.Stringer("slot", slot))
		return ErrInvalidParams
	}
	if tex == nil {
		tex = renderer.EmptyTexture
	}
	m.textures[slot] = tex
	m.SetDirty(true)
	return nil
}

// Texture returns the texture in a slot, or renderer.EmptyTexture.
func (m *Material) Texture(slot renderer.TextureType) *renderer.Texture {
	if slot < 0 || slot >= renderer.NrOfTextureTypes {
		return renderer.EmptyTexture
	}
	return m.textures[slot]
}

// Render uploads the material parameters and binds one texture per slot,
// falling back to the default white texture for empty slots.
func (m *Material) Render(_ uint32, _ mgl32.Mat4) error {
	p, err := currentProgram()
	if err != nil {
		return err
	}
	p.SetVec3("mtlEmission", m.emission)
	p.SetVec3("mtlAlbedo", m.albedo)
	p.SetFloat("mtlOpacity", m.opacity)
	p.SetFloat("mtlRoughness", m.roughness)
	p.SetFloat("mtlMetalness", m.metalness)

	var errs error
	for slot, tex := range m.textures {
		if tex == renderer.EmptyTexture || !tex.IsInitialized() {
			tex = renderer.DefaultTexture(true)
		}
		errs = multierr.Append(errs, tex.Render(uint32(slot)))
	}
	m.SetDirty(false)
	return errs
}

// Release ends the material's identity. Its textures are owned by the container.
func (m *Material) Release() error {
	m.Destroy()
	return nil
}
