package vbo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInitialCapacity = 1024
	DefaultCullThreshold   = 1000
	DefaultMaxStackDepth   = 32
)

// Config holds the tunables of a Context.
type Config struct {
	// InitialCapacity is the vertex capacity allocated on first growth.
	InitialCapacity int `yaml:"initialCapacity"`
	// MaxVertices caps the capacity of a single buffer. Growth past it is
	// reported as ErrOutOfMemory. Zero means unlimited.
	MaxVertices int `yaml:"maxVertices"`
	// CullThreshold is the vertex count above which near plane culling is tried.
	CullThreshold int `yaml:"cullThreshold"`
	// EmulateQuads rearranges quads into triangle strips even when the device
	// accepts quads natively.
	EmulateQuads bool `yaml:"emulateQuads"`
	// WarnMissingUniforms is the default warn flag of new uniform slots.
	WarnMissingUniforms bool `yaml:"warnMissingUniforms"`
	// MaxStackDepth bounds every matrix stack.
	MaxStackDepth int `yaml:"maxStackDepth"`
}

func DefaultConfig() Config {
	return Config{
		InitialCapacity:     DefaultInitialCapacity,
		CullThreshold:       DefaultCullThreshold,
		WarnMissingUniforms: true,
		MaxStackDepth:       DefaultMaxStackDepth,
	}
}

func (cfg *Config) normalize() {
	if cfg.InitialCapacity <= 0 {
		cfg.InitialCapacity = DefaultInitialCapacity
	}
	if cfg.MaxVertices < 0 {
		cfg.MaxVertices = 0
	}
	if cfg.CullThreshold < 0 {
		cfg.CullThreshold = DefaultCullThreshold
	}
	if cfg.MaxStackDepth <= 0 {
		cfg.MaxStackDepth = DefaultMaxStackDepth
	}
}

// ParseConfig decodes a YAML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse vbo config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}
