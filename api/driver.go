// Package api defines the driver API that a shader-cache pipeline uses to
// turn vertex programs into GLSL.
package api

import (
	"encoding/binary"
	"log/slog"
	"sync"

	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
)

// Driver translates vertex programs, reusing earlier results where it can.
// A Driver is safe for concurrent use.
type Driver interface {
	// Translate returns the GLSL source of a program given as raw microcode
	// words. Failed translations are not cached.
	Translate(version uint16, words []uint32) (string, error)

	// TranslateProgram translates a loaded program.
	TranslateProgram(p *program.Program) (string, error)
}

// ShaderKey identifies a translated shader by the translator configuration,
// the program version tag and the microcode.
type ShaderKey string

// NewShaderKey builds the key of a program translated by a translator with
// the given core.Translator Key. Two shaders get the same key only if all
// three parts are equal.
func NewShaderKey(translator string, version uint16, words []uint32) ShaderKey {
	buf := make([]byte, len(translator)+1, len(translator)+3+4*len(words))
	copy(buf, translator)

	buf = binary.LittleEndian.AppendUint16(buf, version)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}

	return ShaderKey(buf)
}

// ShaderCache stores generated GLSL by shader key. Implementations must be
// safe for concurrent use. One cache can serve drivers with different
// translators.
type ShaderCache interface {
	Get(key ShaderKey) (string, bool)
	Put(key ShaderKey, src string)
}

// MemoryCache is an unbounded in-memory ShaderCache.
type MemoryCache struct {
	mu      sync.RWMutex
	shaders map[ShaderKey]string
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		shaders: make(map[ShaderKey]string),
	}
}

// Get returns the cached source of a program.
func (c *MemoryCache) Get(key ShaderKey) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	src, ok := c.shaders[key]

	return src, ok
}

// Put stores the source of a program.
func (c *MemoryCache) Put(key ShaderKey, src string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shaders[key] = src
}

// Len returns the number of cached programs.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.shaders)
}

type driverImpl struct {
	name       string
	translator *core.Translator
	cache      ShaderCache
}

func (d *driverImpl) Translate(version uint16, words []uint32) (string, error) {
	key := NewShaderKey(d.translator.Key(), version, words)

	if src, ok := d.cache.Get(key); ok {
		core.Trace("ShaderCacheHit",
			"Driver", d.name,
			"Version", version,
			"Words", len(words),
		)

		return src, nil
	}

	src, err := d.translator.Translate(version, words)
	if err != nil {
		slog.Debug("TranslateFailed",
			"Driver", d.name,
			"Version", version,
			"Error", err.Error(),
		)

		return "", err
	}

	d.cache.Put(key, src)

	return src, nil
}

func (d *driverImpl) TranslateProgram(p *program.Program) (string, error) {
	return d.Translate(p.Version, p.Words())
}
