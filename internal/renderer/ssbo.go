package renderer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"Forge3D/internal/core"
)

var ErrOutOfRange = errors.New("renderer: access outside the buffer")

// ShaderStorageBuffer is a fixed-size GPU buffer shaders read and write
// through a binding point. Contents are exchanged with Write and Read.
type ShaderStorageBuffer struct {
	core.Object
	core.Managed
	handle  uint32
	size    int
	initial []byte
}

// EmptyStorageBuffer is the sentinel storage buffer.
var EmptyStorageBuffer = &ShaderStorageBuffer{Object: core.NewStaticObject(core.EmptyName)}

func NewShaderStorageBuffer() *ShaderStorageBuffer {
	return &ShaderStorageBuffer{Object: core.NewObject()}
}

// Create allocates size bytes, filled with data when given. Any previous
// storage is released first.
func (b *ShaderStorageBuffer) Create(size int, data []byte) error {
	if size <= 0 || len(data) > size {
		return fmt.Errorf("%w: %d bytes of data for a %d byte buffer", ErrOutOfRange, len(data), size)
	}
	if err := b.Free(); err != nil {
		return err
	}
	b.size = size
	b.initial = make([]byte, size)
	copy(b.initial, data)
	return b.Init()
}

func (b *ShaderStorageBuffer) Init() error {
	if b.size == 0 {
		return fmt.Errorf("renderer: storage buffer %q has no size", b.Name())
	}
	if err := b.Managed.Init(b); err != nil {
		return err
	}
	h, err := driver.CreateBuffer(StorageBuffer, b.initial)
	if err != nil {
		b.Managed.Free()
		return err
	}
	b.handle = h
	return nil
}

func (b *ShaderStorageBuffer) Free() error {
	if !b.IsInitialized() {
		return nil
	}
	driver.DeleteBuffer(b.handle)
	b.handle = 0
	return b.Managed.Free()
}

func (b *ShaderStorageBuffer) check(offset, n int) error {
	if !b.IsInitialized() {
		return fmt.Errorf("renderer: storage buffer %q not initialized", b.Name())
	}
	if offset < 0 || offset+n > b.size {
		return fmt.Errorf("%w: [%d, %d) of %d bytes", ErrOutOfRange, offset, offset+n, b.size)
	}
	return nil
}

// Write copies data into the buffer at offset.
func (b *ShaderStorageBuffer) Write(offset int, data []byte) error {
	if err := b.check(offset, len(data)); err != nil {
		return err
	}
	driver.UpdateBuffer(StorageBuffer, b.handle, offset, data)
	return nil
}

// WriteValues encodes v little-endian, the std430 byte order on every
// supported GPU, and writes it at offset. v must be fixed size.
func (b *ShaderStorageBuffer) WriteValues(offset int, v interface{}) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return err
	}
	return b.Write(offset, buf.Bytes())
}

// Read copies len(out) bytes starting at offset.
func (b *ShaderStorageBuffer) Read(offset int, out []byte) error {
	if err := b.check(offset, len(out)); err != nil {
		return err
	}
	driver.ReadBuffer(StorageBuffer, b.handle, offset, out)
	return nil
}

// Render binds the buffer to the given storage binding point.
func (b *ShaderStorageBuffer) Render(index uint32) error {
	if !b.IsInitialized() {
		return fmt.Errorf("renderer: storage buffer %q not initialized", b.Name())
	}
	driver.BindBufferBase(StorageBuffer, index, b.handle)
	return nil
}

func (b *ShaderStorageBuffer) Handle() uint32 {
	return b.handle
}

func (b *ShaderStorageBuffer) Size() int {
	return b.size
}
