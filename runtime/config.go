package runtime

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

const (
	DefaultMaxDepth = 64
	DefaultMaxStack = 65536
	DefaultMaxSteps = 1_000_000
)

// Config holds the resolver limits.  The zero value of a limit selects
// its default.
type Config struct {
	// MaxDepth bounds the call depth within one program and the nesting
	// of class and program references.
	MaxDepth int `yaml:"max_depth"`
	MaxStack int `yaml:"max_stack"`
	MaxSteps int `yaml:"max_steps"`
	// CacheSize bounds the number of cached resolutions.  Zero means
	// unbounded.
	CacheSize int `yaml:"cache_size"`
	// Trace logs every executed instruction at debug level.
	Trace bool `yaml:"trace"`
}

func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		MaxStack: DefaultMaxStack,
		MaxSteps: DefaultMaxSteps,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxStack == 0 {
		c.MaxStack = DefaultMaxStack
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	return c
}

func (c Config) Validate() error {
	if c.MaxDepth < 0 || c.MaxStack < 0 || c.MaxSteps < 0 {
		return errors.New("resolver limits cannot be negative")
	}
	if c.CacheSize < 0 {
		return errors.New("cache size cannot be negative")
	}
	return nil
}

// ParseConfig parses YAML configuration.  Unknown fields are an error.
func ParseConfig(b []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalWithOptions(b, &c, yaml.DisallowUnknownField()); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c.withDefaults(), nil
}

// LoadConfig reads the YAML configuration file at path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := ParseConfig(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
