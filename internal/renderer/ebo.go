package renderer

import (
	"bytes"
	"encoding/binary"

	"Forge3D/internal/core"
)

// FaceData is one triangle as three vertex indices.
type FaceData [3]uint32

// IndexBuffer owns a GPU element buffer of FaceData.
type IndexBuffer struct {
	core.Object
	core.Managed
	handle uint32
	faces  []FaceData
}

func NewIndexBuffer() *IndexBuffer {
	return &IndexBuffer{Object: core.NewObject()}
}

// Load replaces the index data, reallocating the GPU buffer.
func (b *IndexBuffer) Load(faces []FaceData) error {
	if err := b.Free(); err != nil {
		return err
	}
	b.faces = faces
	return b.Init()
}

func (b *IndexBuffer) Init() error {
	if err := b.Managed.Init(b); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, b.faces); err != nil {
		b.Managed.Free()
		return err
	}
	h, err := driver.CreateBuffer(ElementBuffer, buf.Bytes())
	if err != nil {
		b.Managed.Free()
		return err
	}
	b.handle = h
	return nil
}

func (b *IndexBuffer) Free() error {
	if !b.IsInitialized() {
		return nil
	}
	driver.DeleteBuffer(b.handle)
	b.handle = 0
	return b.Managed.Free()
}

func (b *IndexBuffer) Handle() uint32 {
	return b.handle
}

func (b *IndexBuffer) NrOfFaces() int {
	return len(b.faces)
}
