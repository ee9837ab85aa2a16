package worldcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds ambient operational settings the world format itself
// is silent on: where the two-tier cache lives on disk, how large its
// in-memory LRU budgets are, and whether GPU-backed nodes must serialize
// their submissions.
type ServerConfig struct {
	// CacheRoot is the directory containing worlds/{worldId}/...
	CacheRoot string `yaml:"cacheRoot"`

	// SuperChunkLRUEntries caps the number of super chunks held in memory
	// before LRU eviction kicks in.
	SuperChunkLRUEntries int `yaml:"superChunkLRUEntries"`

	// StreamChunkLRUEntries caps the number of decoded stream chunks held
	// in memory before LRU eviction kicks in.
	StreamChunkLRUEntries int `yaml:"streamChunkLRUEntries"`

	// SerializeGPUSubmissions forces a single in-process mutex around any
	// node that submits work to a shared GPU device. Reserved: no bundled
	// node kind talks to a GPU yet, so this knob is plumbed through config
	// loading for a future out-of-process GPU collaborator to consume.
	SerializeGPUSubmissions bool `yaml:"serializeGpuSubmissions"`
}

// DefaultServerConfig returns conservative defaults suitable for a single
// local process.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		CacheRoot:               "./worlds",
		SuperChunkLRUEntries:    64,
		StreamChunkLRUEntries:   512,
		SerializeGPUSubmissions: true,
	}
}

// LoadServerConfig reads and validates a YAML server configuration file.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading server config: %w", err)
	}
	return LoadServerConfigFromBytes(data)
}

// LoadServerConfigFromBytes parses a YAML server configuration document
// from memory, filling unset fields from DefaultServerConfig.
func LoadServerConfigFromBytes(data []byte) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing server config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating server config: %w", err)
	}
	return cfg, nil
}

// Validate checks ServerConfig constraints.
func (c *ServerConfig) Validate() error {
	if c.CacheRoot == "" {
		return fmt.Errorf("cacheRoot must not be empty")
	}
	if c.SuperChunkLRUEntries <= 0 {
		return fmt.Errorf("superChunkLRUEntries must be positive, got %d", c.SuperChunkLRUEntries)
	}
	if c.StreamChunkLRUEntries <= 0 {
		return fmt.Errorf("streamChunkLRUEntries must be positive, got %d", c.StreamChunkLRUEntries)
	}
	return nil
}
