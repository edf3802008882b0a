package renderer

import (
	"errors"
	"fmt"

	"Forge3D/internal/core"
)

var ErrNoAttachments = errors.New("renderer: framebuffer has no attachments")

// Framebuffer is an off-screen render target made of texture attachments.
type Framebuffer struct {
	core.Object
	core.Managed
	handle        uint32
	attachments   []*Texture
	width, height int32
}

func NewFramebuffer() *Framebuffer {
	return &Framebuffer{Object: core.NewObject()}
}

// AttachTexture adds a texture as the next attachment. Depth textures go to
// the depth slot, the others to consecutive color slots. Call Validate after
// the last attachment.
func (f *Framebuffer) AttachTexture(tex *Texture) error {
	if tex == nil || tex == EmptyTexture || !tex.IsInitialized() {
		return fmt.Errorf("renderer: cannot attach texture to framebuffer %q", f.Name())
	}
	w, h := tex.Size()
	if len(f.attachments) > 0 && (w != f.width || h != f.height) {
		return fmt.Errorf("renderer: attachment size %dx%d does not match %dx%d", w, h, f.width, f.height)
	}
	f.width, f.height = w, h
	f.attachments = append(f.attachments, tex)
	return nil
}

func (f *Framebuffer) Init() error {
	if err := f.Managed.Init(f); err != nil {
		return err
	}
	f.handle = driver.CreateFramebuffer()
	return nil
}

// Validate creates the framebuffer if needed, binds every attachment and
// checks completeness.
func (f *Framebuffer) Validate() error {
	if len(f.attachments) == 0 {
		return ErrNoAttachments
	}
	if !f.IsInitialized() {
		if err := f.Init(); err != nil {
			return err
		}
	}
	color := 0
	for _, tex := range f.attachments {
		if tex.Format() == FormatDepth {
			driver.AttachTexture(f.handle, tex.Handle(), FormatDepth, 0)
			continue
		}
		driver.AttachTexture(f.handle, tex.Handle(), tex.Format(), color)
		color++
	}
	return driver.CheckFramebuffer(f.handle)
}

func (f *Framebuffer) Free() error {
	if !f.IsInitialized() {
		return nil
	}
	driver.DeleteFramebuffer(f.handle)
	f.handle = 0
	f.attachments = nil
	return f.Managed.Free()
}

// Render binds the framebuffer and sets the viewport to its size.
func (f *Framebuffer) Render() error {
	if !f.IsInitialized() {
		return fmt.Errorf("renderer: framebuffer %q not initialized", f.Name())
	}
	driver.BindFramebuffer(f.handle, f.width, f.height)
	return nil
}

func (f *Framebuffer) Size() (int32, int32) {
	return f.width, f.height
}

func (f *Framebuffer) Handle() uint32 {
	return f.handle
}

// ResetFramebuffer binds the window framebuffer again.
func ResetFramebuffer(width, height int32) {
	driver.BindFramebuffer(0, width, height)
}
