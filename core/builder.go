package core

// Builder can create new translators.
type Builder struct {
	glslVersion   int
	debugFeedback bool
}

// NewBuilder creates a builder with the default GLSL version and no debug
// feedback.
func NewBuilder() Builder {
	return Builder{
		glslVersion: DefaultGLSLVersion,
	}
}

// WithGLSLVersion sets the number written in the #version line.
func (b Builder) WithGLSLVersion(version int) Builder {
	if version <= 0 {
		panic("GLSL version must be positive")
	}
	b.glslVersion = version
	return b
}

// WithDebugFeedback makes the generated shader copy its inputs, every
// temporary after each slot, and its outputs into debug varyings.
func (b Builder) WithDebugFeedback(enabled bool) Builder {
	b.debugFeedback = enabled
	return b
}

// Build creates a translator.
func (b Builder) Build() *Translator {
	return &Translator{
		glslVersion:   b.glslVersion,
		debugFeedback: b.debugFeedback,
	}
}
