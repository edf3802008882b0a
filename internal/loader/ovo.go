package loader

import (
	"errors"

	"Forge3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// ChunkID identifies an OVO chunk. Every chunk starts with its id and payload
// size as little-endian uint32s.
type ChunkID uint32

const (
	ChunkVersion  ChunkID = 0
	ChunkNode     ChunkID = 1
	ChunkMaterial ChunkID = 9
	ChunkLight    ChunkID = 16
	ChunkMesh     ChunkID = 18
)

// Version is the only OVO format version understood.
const Version = 8

// NoTexture is the texture name OVO uses for an empty slot.
const NoTexture = "[none]"

var (
	ErrBadVersion        = errors.New("loader: invalid format version or wrong file format")
	ErrTruncated         = errors.New("loader: unexpected end of data")
	ErrUnexpectedChunk   = errors.New("loader: unexpected chunk")
	ErrPhysicsNotAllowed = errors.New("loader: physics section not supported")
)

// NodeChunk holds the fields shared by node, light and mesh chunks.
type NodeChunk struct {
	Name     string
	Matrix   mgl32.Mat4
	Children uint32
	Target   string
}

type LightChunk struct {
	NodeChunk
	Type         uint8
	Color        mgl32.Vec3
	Radius       float32
	Direction    mgl32.Vec3
	Cutoff       float32
	SpotExponent float32
	CastShadows  bool
	Volumetric   bool
}

// LOD is one level of detail of a mesh.
type LOD struct {
	Vertices []renderer.VertexData
	Faces    []renderer.FaceData
}

type MeshChunk struct {
	NodeChunk
	Subtype    uint8
	Material   string
	Radius     float32
	BBoxMin    mgl32.Vec3
	BBoxMax    mgl32.Vec3
	HasPhysics bool
	LODs       []LOD
}

type MaterialChunk struct {
	Name      string
	Emission  mgl32.Vec3
	Albedo    mgl32.Vec3
	Roughness float32
	Metalness float32
	Opacity   float32

	AlbedoTexture    string
	NormalTexture    string
	HeightTexture    string
	RoughnessTexture string
	MetalnessTexture string
}
