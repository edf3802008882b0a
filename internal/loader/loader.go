package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"Forge3D/internal/core"
	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"
	"Forge3D/internal/scene"

	"go.uber.org/zap"
)

// Loader builds scene graphs from OVO files. Every object it creates is
// handed to the container, which owns it from then on.
type Loader struct {
	container *scene.Container
}

// New returns a loader filling c, or the default container when c is nil.
func New(c *scene.Container) *Loader {
	if c == nil {
		c = scene.Default()
	}
	return &Loader{container: c}
}

// Load reads an OVO file. Texture names are resolved relative to the file.
func (ld *Loader) Load(path string) (scene.Element, error) {
	if path == "" {
		logger.Log.Error("Invalid params", zap.String("fun", "Load"))
		return scene.EmptyNode, fmt.Errorf("loader: empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Log.Error("Unable to open file", zap.String("path", path), zap.Error(err))
		return scene.EmptyNode, err
	}
	root, err := ld.LoadBytes(data, filepath.Dir(path))
	if err != nil {
		return scene.EmptyNode, fmt.Errorf("%s: %w", path, err)
	}
	logger.Log.Info("Scene loaded", zap.String("path", path), zap.String("root", root.Name()))
	return root, nil
}

// LoadBytes parses an OVO image. dir is used to resolve texture files. It
// returns the last top-level node, or scene.EmptyNode and an error. Objects
// parsed before a failure stay in the container.
func (ld *Loader) LoadBytes(data []byte, dir string) (scene.Element, error) {
	cr := newChunkReader(data)
	id, payload, err := cr.chunk()
	if err != nil {
		return scene.EmptyNode, err
	}
	if id != ChunkVersion {
		logger.Log.Error("Invalid chunk ID found", zap.Uint32("chunk", uint32(id)))
		return scene.EmptyNode, ErrBadVersion
	}
	if v, err := decodeVersion(payload); err != nil || v != Version {
		logger.Log.Error("Invalid format version", zap.Uint32("version", v))
		return scene.EmptyNode, ErrBadVersion
	}

	p := &parser{
		cr:        cr,
		container: ld.container,
		textures:  renderer.NewTextureCache(dir),
	}
	var root scene.Element = scene.EmptyNode
	for cr.remaining() > 0 {
		el, err := p.parse()
		if err != nil {
			return scene.EmptyNode, err
		}
		if el.Base() != scene.EmptyNode {
			root = el
		}
	}
	p.textures.LogStats()
	return root, nil
}

type parser struct {
	cr        *chunkReader
	container *scene.Container
	textures  *renderer.TextureCache
}

// parse consumes one chunk and, for node chunks, the children that follow it.
// Chunks that are not part of the hierarchy return scene.EmptyNode.
func (p *parser) parse() (scene.Element, error) {
	id, payload, err := p.cr.chunk()
	if err != nil {
		return scene.EmptyNode, err
	}

	switch id {
	case ChunkMaterial:
		logger.Log.Debug("Processing material...")
		mc, err := decodeMaterial(payload)
		if err != nil {
			return scene.EmptyNode, err
		}
		return scene.EmptyNode, p.addMaterial(mc)

	case ChunkNode:
		logger.Log.Debug("Processing node...")
		nc, err := decodeNode(payload)
		if err != nil {
			return scene.EmptyNode, err
		}
		n := scene.NewNode()
		applyNode(n.Base(), nc)
		return p.attach(n, nc)

	case ChunkLight:
		logger.Log.Debug("Processing light...")
		lc, err := decodeLight(payload)
		if err != nil {
			return scene.EmptyNode, err
		}
		return p.attach(buildLight(lc), lc.NodeChunk)

	case ChunkMesh:
		logger.Log.Debug("Processing mesh...")
		mc, err := decodeMesh(payload)
		if err != nil {
			return scene.EmptyNode, fmt.Errorf("mesh %q: %w", mc.Name, err)
		}
		mesh, err := p.buildMesh(mc)
		if err != nil {
			return scene.EmptyNode, err
		}
		return p.attach(mesh, mc.NodeChunk)

	case ChunkVersion:
		logger.Log.Error("Unexpected version chunk")
		return scene.EmptyNode, ErrUnexpectedChunk
	}

	logger.Log.Warn("Unknown chunk ID found: ignored", zap.Uint32("chunk", uint32(id)))
	return scene.EmptyNode, nil
}

// attach hands el to the container and parses nc.Children children under it.
func (p *parser) attach(el scene.Element, nc NodeChunk) (scene.Element, error) {
	if err := p.container.Add(el); err != nil {
		if r, ok := el.(interface{ Release() error }); ok {
			_ = r.Release()
		}
		return scene.EmptyNode, err
	}
	node := el.Base()
	for node.NrOfChildren() < int(nc.Children) {
		if p.cr.remaining() == 0 {
			return scene.EmptyNode, fmt.Errorf("%w: %q expects %d children, found %d",
				ErrTruncated, nc.Name, nc.Children, node.NrOfChildren())
		}
		child, err := p.parse()
		if err != nil {
			return scene.EmptyNode, err
		}
		if child.Base() == scene.EmptyNode {
			continue
		}
		if err := node.AddChild(child); err != nil {
			return scene.EmptyNode, err
		}
	}
	return el, nil
}

func applyNode(n *scene.Node, nc NodeChunk) {
	if err := n.SetName(nc.Name); err != nil {
		logger.Log.Warn("Node has no usable name", zap.Uint32("id", n.ID()))
	}
	n.SetMatrix(nc.Matrix)
}

func buildLight(lc LightChunk) *scene.Light {
	l := scene.NewLight()
	applyNode(l.Base(), lc.NodeChunk)
	l.Type = scene.LightType(lc.Type)
	l.SetColor(lc.Color)
	l.Radius = lc.Radius
	l.Direction = lc.Direction
	l.Cutoff = lc.Cutoff
	l.SpotExponent = lc.SpotExponent
	l.CastShadows = lc.CastShadows
	l.Volumetric = lc.Volumetric
	return l
}

func (p *parser) buildMesh(mc MeshChunk) (*scene.Mesh, error) {
	m := scene.NewMesh()
	applyNode(m.Base(), mc.NodeChunk)
	if mc.Material != NoTexture {
		mat := p.container.FindMaterial(mc.Material)
		if mat == scene.EmptyMaterial {
			logger.Log.Warn("Mesh references unknown material",
				zap.String("mesh", mc.Name),
				zap.String("material", mc.Material))
		}
		m.SetMaterial(mat)
	}
	m.Radius = mc.Radius
	m.BBoxMin = mc.BBoxMin
	m.BBoxMax = mc.BBoxMax
	for i, lod := range mc.LODs {
		logger.Log.Debug("LOD",
			zap.Int("lod", i+1),
			zap.Int("vertices", len(lod.Vertices)),
			zap.Int("faces", len(lod.Faces)))
	}
	if len(mc.LODs) > 0 {
		if err := m.Load(mc.LODs[0].Vertices, mc.LODs[0].Faces); err != nil {
			_ = m.Release()
			return nil, fmt.Errorf("mesh %q: %w", mc.Name, err)
		}
	}
	return m, nil
}

func (p *parser) addMaterial(mc MaterialChunk) error {
	mat := scene.NewMaterial()
	if err := mat.SetName(mc.Name); err != nil {
		logger.Log.Warn("Material has no usable name", zap.Uint32("id", mat.ID()))
	}
	mat.SetEmission(mc.Emission)
	mat.SetAlbedo(mc.Albedo)
	mat.SetRoughness(mc.Roughness)
	mat.SetMetalness(mc.Metalness)
	mat.SetOpacity(mc.Opacity)

	slots := []struct {
		name string
		slot renderer.TextureType
	}{
		{mc.AlbedoTexture, renderer.TextureAlbedo},
		{mc.NormalTexture, renderer.TextureNormal},
		{mc.RoughnessTexture, renderer.TextureRoughness},
		{mc.MetalnessTexture, renderer.TextureMetalness},
	}
	for _, s := range slots {
		if s.name == NoTexture || s.name == "" {
			continue
		}
		tex, created, err := p.textures.Load(s.name)
		if err != nil {
			logger.Log.Error("Unable to load image file",
				zap.String("material", mc.Name),
				zap.Stringer("slot", s.slot),
				zap.Error(err))
			continue
		}
		if created {
			if err := p.container.Add(tex); err != nil {
				_ = core.Release(tex)
				return err
			}
		}
		if err := mat.SetTexture(tex, s.slot); err != nil {
			return err
		}
	}
	return p.container.Add(mat)
}
