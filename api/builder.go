package api

import "github.com/sarchlab/nv2avsh/core"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	translator *core.Translator
	cache      ShaderCache
}

// WithTranslator sets the translator that produces uncached shaders.
func (b DriverBuilder) WithTranslator(t *core.Translator) DriverBuilder {
	b.translator = t
	return b
}

// WithCache sets the cache that holds translated shaders.
func (b DriverBuilder) WithCache(cache ShaderCache) DriverBuilder {
	b.cache = cache
	return b
}

// Build creates a driver. A translator with the default configuration and a
// fresh MemoryCache are used where none were given.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		name:       name,
		translator: b.translator,
		cache:      b.cache,
	}

	if d.translator == nil {
		d.translator = core.NewBuilder().Build()
	}

	if d.cache == nil {
		d.cache = NewMemoryCache()
	}

	return d
}
