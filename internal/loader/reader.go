package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"Forge3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// chunkReader decodes OVO primitives. The first failure is kept in err and
// every later read becomes a no-op, so decoders check once at the end.
type chunkReader struct {
	r   *bytes.Reader
	err error
}

func newChunkReader(data []byte) *chunkReader {
	return &chunkReader{r: bytes.NewReader(data)}
}

func (cr *chunkReader) remaining() int {
	return cr.r.Len()
}

func (cr *chunkReader) read(v interface{}) {
	if cr.err != nil {
		return
	}
	if err := binary.Read(cr.r, binary.LittleEndian, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrTruncated
		}
		cr.err = err
	}
}

func (cr *chunkReader) u8() uint8 {
	var v uint8
	cr.read(&v)
	return v
}

func (cr *chunkReader) boolean() bool {
	return cr.u8() != 0
}

func (cr *chunkReader) u32() uint32 {
	var v uint32
	cr.read(&v)
	return v
}

func (cr *chunkReader) f32() float32 {
	var v float32
	cr.read(&v)
	return v
}

func (cr *chunkReader) vec3() mgl32.Vec3 {
	var v mgl32.Vec3
	cr.read(&v)
	return v
}

func (cr *chunkReader) mat4() mgl32.Mat4 {
	var m mgl32.Mat4
	cr.read(&m)
	return m
}

// str reads a NUL-terminated string.
func (cr *chunkReader) str() string {
	if cr.err != nil {
		return ""
	}
	var buf []byte
	for {
		b, err := cr.r.ReadByte()
		if err != nil {
			cr.err = ErrTruncated
			return ""
		}
		if b == 0 {
			return string(buf)
		}
		buf = append(buf, b)
	}
}

// peekID returns the id of the next chunk without consuming it.
func (cr *chunkReader) peekID() (ChunkID, error) {
	var id uint32
	if err := binary.Read(cr.r, binary.LittleEndian, &id); err != nil {
		return 0, ErrTruncated
	}
	if _, err := cr.r.Seek(-4, io.SeekCurrent); err != nil {
		return 0, err
	}
	return ChunkID(id), nil
}

// chunk consumes the next chunk header and returns its id and a reader over
// exactly its payload.
func (cr *chunkReader) chunk() (ChunkID, *chunkReader, error) {
	id := cr.u32()
	size := cr.u32()
	if cr.err != nil {
		return 0, nil, cr.err
	}
	if int64(size) > int64(cr.r.Len()) {
		return 0, nil, fmt.Errorf("%w: chunk %d declares %d bytes, %d left", ErrTruncated, id, size, cr.r.Len())
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(cr.r, payload); err != nil {
		return 0, nil, ErrTruncated
	}
	return ChunkID(id), newChunkReader(payload), nil
}

func (cr *chunkReader) node() NodeChunk {
	return NodeChunk{
		Name:     cr.str(),
		Matrix:   cr.mat4(),
		Children: cr.u32(),
		Target:   cr.str(),
	}
}

func decodeVersion(cr *chunkReader) (uint32, error) {
	v := cr.u32()
	return v, cr.err
}

func decodeNode(cr *chunkReader) (NodeChunk, error) {
	n := cr.node()
	return n, cr.err
}

func decodeLight(cr *chunkReader) (LightChunk, error) {
	l := LightChunk{NodeChunk: cr.node()}
	l.Type = cr.u8()
	l.Color = cr.vec3()
	l.Radius = cr.f32()
	l.Direction = cr.vec3()
	l.Cutoff = cr.f32()
	l.SpotExponent = cr.f32()
	l.CastShadows = cr.boolean()
	l.Volumetric = cr.boolean()
	return l, cr.err
}

func decodeMesh(cr *chunkReader) (MeshChunk, error) {
	m := MeshChunk{NodeChunk: cr.node()}
	m.Subtype = cr.u8()
	m.Material = cr.str()
	m.Radius = cr.f32()
	m.BBoxMin = cr.vec3()
	m.BBoxMax = cr.vec3()
	m.HasPhysics = cr.boolean()
	if cr.err != nil {
		return m, cr.err
	}
	if m.HasPhysics {
		return m, ErrPhysicsNotAllowed
	}
	lods := cr.u32()
	for i := uint32(0); i < lods && cr.err == nil; i++ {
		nrVertices := cr.u32()
		nrFaces := cr.u32()
		if cr.err != nil {
			break
		}
		if int64(nrVertices)*renderer.VertexDataSize+int64(nrFaces)*12 > int64(cr.remaining()) {
			return m, fmt.Errorf("%w: LOD %d of %q", ErrTruncated, i, m.Name)
		}
		lod := LOD{
			Vertices: make([]renderer.VertexData, nrVertices),
			Faces:    make([]renderer.FaceData, nrFaces),
		}
		cr.read(lod.Vertices)
		cr.read(lod.Faces)
		m.LODs = append(m.LODs, lod)
	}
	return m, cr.err
}

func decodeMaterial(cr *chunkReader) (MaterialChunk, error) {
	m := MaterialChunk{Name: cr.str()}
	m.Emission = cr.vec3()
	m.Albedo = cr.vec3()
	m.Roughness = cr.f32()
	m.Metalness = cr.f32()
	m.Opacity = cr.f32()
	m.AlbedoTexture = cr.str()
	m.NormalTexture = cr.str()
	m.HeightTexture = cr.str()
	m.RoughnessTexture = cr.str()
	m.MetalnessTexture = cr.str()
	return m, cr.err
}
