package renderer

import (
	"path/filepath"
	"sync"

	"Forge3D/internal/logger"

	"go.uber.org/zap"
)

// TextureStats provides debugging and profiling information
type TextureStats struct {
	Loaded      int
	CacheHits   int
	CacheMisses int
	Failures    int
}

// TextureCache decodes each image file once and hands the same Texture to
// every caller asking for that path. The cache never frees textures; whoever
// receives a newly created texture owns it.
type TextureCache struct {
	root     string
	textures map[string]*Texture
	mu       sync.RWMutex
	stats    TextureStats
}

// NewTextureCache creates a cache resolving relative paths against root
func NewTextureCache(root string) *TextureCache {
	return &TextureCache{
		root:     root,
		textures: make(map[string]*Texture),
	}
}

func (tc *TextureCache) resolve(name string) string {
	if filepath.IsAbs(name) || tc.root == "" {
		return name
	}
	return filepath.Join(tc.root, name)
}

// Load returns the texture for name. created is true when the texture was
// decoded by this call and still needs an owner.
func (tc *TextureCache) Load(name string) (tex *Texture, created bool, err error) {
	path := tc.resolve(name)

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tex, ok := tc.textures[path]; ok {
		tc.stats.CacheHits++
		logger.Log.Debug("Texture cache hit",
			zap.String("path", path),
			zap.Uint32("textureID", tex.Handle()))
		return tex, false, nil
	}

	tc.stats.CacheMisses++
	tex = NewTexture()
	if err := tex.LoadFile(path); err != nil {
		tc.stats.Failures++
		tex.Destroy()
		return nil, false, err
	}
	_ = tex.SetName(filepath.Base(name))
	tc.textures[path] = tex
	tc.stats.Loaded++
	return tex, true, nil
}

// GetStats returns current texture cache statistics
func (tc *TextureCache) GetStats() TextureStats {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.stats
}

// LogStats logs current texture statistics
func (tc *TextureCache) LogStats() {
	stats := tc.GetStats()
	hitRate := 0.0
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		hitRate = float64(stats.CacheHits) / float64(lookups)
	}
	logger.Log.Info("Texture cache stats",
		zap.Int("loaded", stats.Loaded),
		zap.Int("failures", stats.Failures),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("cacheMisses", stats.CacheMisses),
		zap.Float64("hitRate", hitRate))
}

// Clear forgets every cached texture without freeing it
func (tc *TextureCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.textures = make(map[string]*Texture)
}
