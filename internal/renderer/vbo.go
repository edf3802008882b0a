package renderer

import (
	"bytes"
	"encoding/binary"
	"math"

	"Forge3D/internal/core"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexDataSize is the size in bytes of one interleaved VertexData.
const VertexDataSize = 24

// VertexData is one interleaved vertex as stored in scene files and uploaded
// to the GPU.
type VertexData struct {
	Vertex  mgl32.Vec3
	Normal  uint32 // packed snorm 10_10_10_2
	UV      uint32 // packed 2x half float
	Tangent uint32 // packed snorm 10_10_10_2
}

// PackNormal packs a unit vector into signed normalized 10_10_10_2, w = 0.
func PackNormal(v mgl32.Vec3) uint32 {
	pack := func(f float32) uint32 {
		f = mgl32.Clamp(f, -1, 1)
		return uint32(int32(math.Round(float64(f)*511))) & 0x3ff
	}
	return pack(v[0]) | pack(v[1])<<10 | pack(v[2])<<20
}

// UnpackNormal is the inverse of PackNormal.
func UnpackNormal(p uint32) mgl32.Vec3 {
	unpack := func(bits uint32) float32 {
		v := int32(bits<<22) >> 22
		return mgl32.Clamp(float32(v)/511, -1, 1)
	}
	return mgl32.Vec3{unpack(p & 0x3ff), unpack((p >> 10) & 0x3ff), unpack((p >> 20) & 0x3ff)}
}

// PackUV packs a texture coordinate as two half floats, u in the low bits.
func PackUV(u, v float32) uint32 {
	return uint32(toHalf(u)) | uint32(toHalf(v))<<16
}

// UnpackUV is the inverse of PackUV.
func UnpackUV(p uint32) (float32, float32) {
	return fromHalf(uint16(p)), fromHalf(uint16(p >> 16))
}

func toHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int32(bits>>23&0xff) - 127 + 15
	mant := bits & 0x7fffff
	switch {
	case exp >= 31:
		return sign | 0x7c00
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		mant |= 0x800000
		return sign | uint16(mant>>uint32(14-exp))
	}
	return sign | uint16(exp)<<10 | uint16(mant>>13)
}

func fromHalf(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)
	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		for mant&0x400 == 0 {
			mant <<= 1
			exp--
		}
		exp++
		mant &= 0x3ff
	case exp == 31:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	}
	return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
}

// VertexBuffer owns a GPU array buffer of VertexData.
type VertexBuffer struct {
	core.Object
	core.Managed
	handle   uint32
	vertices []VertexData
}

func NewVertexBuffer() *VertexBuffer {
	return &VertexBuffer{Object: core.NewObject()}
}

// Load replaces the buffer contents, reallocating the GPU buffer.
func (b *VertexBuffer) Load(vertices []VertexData) error {
	if err := b.Free(); err != nil {
		return err
	}
	b.vertices = vertices
	return b.Init()
}

func (b *VertexBuffer) Init() error {
	if err := b.Managed.Init(b); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, b.vertices); err != nil {
		b.Managed.Free()
		return err
	}
	h, err := driver.CreateBuffer(ArrayBuffer, buf.Bytes())
	if err != nil {
		b.Managed.Free()
		return err
	}
	b.handle = h
	return nil
}

func (b *VertexBuffer) Free() error {
	if !b.IsInitialized() {
		return nil
	}
	driver.DeleteBuffer(b.handle)
	b.handle = 0
	return b.Managed.Free()
}

func (b *VertexBuffer) Handle() uint32 {
	return b.handle
}

func (b *VertexBuffer) NrOfVertices() int {
	return len(b.vertices)
}
