package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureType is the material slot a texture is bound to.
type TextureType int

const (
	TextureAlbedo TextureType = iota
	TextureNormal
	TextureRoughness
	TextureMetalness
	NrOfTextureTypes
)

func (t TextureType) String() string {
	switch t {
	case TextureAlbedo:
		return "albedo"
	case TextureNormal:
		return "normal"
	case TextureRoughness:
		return "roughness"
	case TextureMetalness:
		return "metalness"
	}
	return "unknown"
}

var ErrEmptyImage = errors.New("renderer: empty image")

// Texture is a 2D GPU texture, either decoded from an image or allocated
// empty as a render target.
type Texture struct {
	core.Object
	core.Managed
	handle uint32
	desc   TextureDesc
	pixels []byte
}

// EmptyTexture is the sentinel texture.
var EmptyTexture = &Texture{Object: core.NewStaticObject(core.EmptyName)}

var (
	defaultWhite = newStaticTexture("[default white]", 255)
	defaultBlack = newStaticTexture("[default black]", 0)
)

func newStaticTexture(name string, value byte) *Texture {
	return &Texture{
		Object: core.NewStaticObject(name),
		desc:   TextureDesc{Width: 1, Height: 1, Format: FormatRGBA8},
		pixels: []byte{value, value, value, value},
	}
}

// DefaultTexture returns the 1x1 texture bound to empty material slots.
func DefaultTexture(white bool) *Texture {
	if white {
		return defaultWhite
	}
	return defaultBlack
}

func NewTexture() *Texture {
	return &Texture{Object: core.NewObject()}
}

// LoadImage uploads img as an RGBA8 texture with mipmaps.
func (t *Texture) LoadImage(img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return ErrEmptyImage
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	if err := t.Free(); err != nil {
		return err
	}
	t.desc = TextureDesc{Width: int32(b.Dx()), Height: int32(b.Dy()), Format: FormatRGBA8, Mipmaps: true}
	t.pixels = rgba.Pix
	return t.Init()
}

// LoadFile decodes an image file (png, jpeg, bmp, tiff, webp) into the texture.
func (t *Texture) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := t.LoadImage(img); err != nil {
		return err
	}
	logger.Log.Info("Texture loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Uint32("textureID", t.handle),
		zap.Int32("width", t.desc.Width),
		zap.Int32("height", t.desc.Height))
	return nil
}

// Create allocates an empty texture, typically a framebuffer attachment.
func (t *Texture) Create(width, height int32, format TextureFormat) error {
	if err := t.Free(); err != nil {
		return err
	}
	t.desc = TextureDesc{Width: width, Height: height, Format: format}
	t.pixels = nil
	return t.Init()
}

func (t *Texture) Init() error {
	if err := t.Managed.Init(t); err != nil {
		return err
	}
	h, err := driver.CreateTexture(t.desc, t.pixels)
	if err != nil {
		t.Managed.Free()
		return err
	}
	t.handle = h
	return nil
}

func (t *Texture) Free() error {
	if !t.IsInitialized() {
		return nil
	}
	driver.DeleteTexture(t.handle)
	t.handle = 0
	return t.Managed.Free()
}

// Render binds the texture to the given unit and points the cached
// program's "texture<unit>" sampler at it. Static textures upload on first use.
func (t *Texture) Render(unit uint32) error {
	if !t.IsInitialized() {
		if t.pixels == nil {
			return fmt.Errorf("renderer: texture %q has no content", t.Name())
		}
		if err := t.Init(); err != nil {
			return err
		}
	}
	driver.BindTexture(int32(unit), t.handle)
	if p := CachedProgram(); p != EmptyProgram {
		p.SetInt(fmt.Sprintf("texture%d", unit), int32(unit))
	}
	return nil
}

func (t *Texture) Handle() uint32 {
	return t.handle
}

func (t *Texture) Size() (int32, int32) {
	return t.desc.Width, t.desc.Height
}

func (t *Texture) Format() TextureFormat {
	return t.desc.Format
}
