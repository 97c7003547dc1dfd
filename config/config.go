// Package config provides the translator configuration and the defaults used
// when no configuration file is given.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/nv2avsh/core"
)

// ErrInvalidConfig is returned when a configuration file holds a value the
// translator cannot use.
var ErrInvalidConfig = errors.New("invalid config")

// Config selects how vertex programs are translated.
type Config struct {
	GLSLVersion   int  `yaml:"glsl_version"`
	DebugFeedback bool `yaml:"debug_feedback"`
	Trace         bool `yaml:"trace"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		GLSLVersion: core.DefaultGLSLVersion,
	}
}

// WithGLSLVersion sets the number written in the #version line.
func (c Config) WithGLSLVersion(version int) Config {
	c.GLSLVersion = version
	return c
}

// WithDebugFeedback turns the debug varyings on or off.
func (c Config) WithDebugFeedback(enabled bool) Config {
	c.DebugFeedback = enabled
	return c
}

// WithTrace turns per-slot trace logging on or off.
func (c Config) WithTrace(enabled bool) Config {
	c.Trace = enabled
	return c
}

// Load reads a YAML configuration file. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return c, nil
}

// Parse decodes a YAML configuration on top of the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks that every value can be handed to the translator.
func (c Config) Validate() error {
	if c.GLSLVersion <= 0 {
		return fmt.Errorf("%w: glsl_version %d must be positive",
			ErrInvalidConfig, c.GLSLVersion)
	}

	return nil
}

// Builder returns a translator builder set up from the configuration.
func (c Config) Builder() core.Builder {
	return core.NewBuilder().
		WithGLSLVersion(c.GLSLVersion).
		WithDebugFeedback(c.DebugFeedback)
}

// LogLevel is the lowest slog level worth recording under this
// configuration.
func (c Config) LogLevel() slog.Level {
	if c.Trace {
		return core.LevelTrace
	}

	return slog.LevelInfo
}
