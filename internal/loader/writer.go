package loader

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Writer encodes OVO chunks. Errors are sticky: after the first failure
// every call is a no-op and Err reports it.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a writer that starts with the version chunk.
func NewWriter(w io.Writer) *Writer {
	ow := &Writer{w: w}
	var payload bytes.Buffer
	put(&payload, uint32(Version))
	ow.chunk(ChunkVersion, payload.Bytes())
	return ow
}

func (ow *Writer) Err() error {
	return ow.err
}

func put(buf *bytes.Buffer, v interface{}) {
	// bytes.Buffer writes never return an error.
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func putString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
}

func putBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func putNode(buf *bytes.Buffer, n NodeChunk) {
	putString(buf, n.Name)
	put(buf, n.Matrix)
	put(buf, n.Children)
	target := n.Target
	if target == "" {
		target = NoTexture
	}
	putString(buf, target)
}

func (ow *Writer) chunk(id ChunkID, payload []byte) {
	if ow.err != nil {
		return
	}
	var hdr bytes.Buffer
	put(&hdr, uint32(id))
	put(&hdr, uint32(len(payload)))
	if _, err := ow.w.Write(hdr.Bytes()); err != nil {
		ow.err = err
		return
	}
	if _, err := ow.w.Write(payload); err != nil {
		ow.err = err
	}
}

// Raw writes an arbitrary chunk, e.g. one the loader is expected to skip.
func (ow *Writer) Raw(id ChunkID, payload []byte) *Writer {
	ow.chunk(id, payload)
	return ow
}

func (ow *Writer) Node(n NodeChunk) *Writer {
	var buf bytes.Buffer
	putNode(&buf, n)
	ow.chunk(ChunkNode, buf.Bytes())
	return ow
}

func (ow *Writer) Light(l LightChunk) *Writer {
	var buf bytes.Buffer
	putNode(&buf, l.NodeChunk)
	put(&buf, l.Type)
	put(&buf, l.Color)
	put(&buf, l.Radius)
	put(&buf, l.Direction)
	put(&buf, l.Cutoff)
	put(&buf, l.SpotExponent)
	putBool(&buf, l.CastShadows)
	putBool(&buf, l.Volumetric)
	ow.chunk(ChunkLight, buf.Bytes())
	return ow
}

func (ow *Writer) Mesh(m MeshChunk) *Writer {
	var buf bytes.Buffer
	putNode(&buf, m.NodeChunk)
	put(&buf, m.Subtype)
	material := m.Material
	if material == "" {
		material = NoTexture
	}
	putString(&buf, material)
	put(&buf, m.Radius)
	put(&buf, m.BBoxMin)
	put(&buf, m.BBoxMax)
	putBool(&buf, m.HasPhysics)
	put(&buf, uint32(len(m.LODs)))
	for _, lod := range m.LODs {
		put(&buf, uint32(len(lod.Vertices)))
		put(&buf, uint32(len(lod.Faces)))
		put(&buf, lod.Vertices)
		put(&buf, lod.Faces)
	}
	ow.chunk(ChunkMesh, buf.Bytes())
	return ow
}

func (ow *Writer) Material(m MaterialChunk) *Writer {
	var buf bytes.Buffer
	putString(&buf, m.Name)
	put(&buf, m.Emission)
	put(&buf, m.Albedo)
	put(&buf, m.Roughness)
	put(&buf, m.Metalness)
	put(&buf, m.Opacity)
	for _, tex := range []string{m.AlbedoTexture, m.NormalTexture, m.HeightTexture, m.RoughnessTexture, m.MetalnessTexture} {
		if tex == "" {
			tex = NoTexture
		}
		putString(&buf, tex)
	}
	ow.chunk(ChunkMaterial, buf.Bytes())
	return ow
}
