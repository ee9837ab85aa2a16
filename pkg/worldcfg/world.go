package worldcfg

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultTransparentMaterialID is the block id treated as transparent when
// a world supplies no material table at all.
const DefaultTransparentMaterialID = 6

// Material describes one entry in a world's material table.
type Material struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Color       [3]float64 `json:"color"`
	Transparent float64    `json:"transparent"`
}

// WorldConfig is the world-level JSON document: seed,
// material table, spawn point, optional erosion pass count.
type WorldConfig struct {
	Seed              uint64     `json:"seed"`
	Materials         []Material `json:"materials"`
	SpawnPoint        [3]float64 `json:"spawnPoint"`
	ErosionIterations int        `json:"erosionIterations,omitempty"`
}

// DefaultWorldConfig returns the fallback used when no world configuration
// file is present: an empty material table (opaque masking falls back to
// DefaultTransparentMaterialID) and a zero spawn point.
func DefaultWorldConfig(seed uint64) *WorldConfig {
	return &WorldConfig{Seed: seed}
}

// LoadWorldConfig reads and parses a world configuration file. A missing
// file is returned as a read error; callers that want the default material
// palette check for the file first and use DefaultWorldConfig, as
// cmd/svdagen does.
func LoadWorldConfig(path string) (*WorldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world config: %w", err)
	}
	return LoadWorldConfigFromBytes(data)
}

// LoadWorldConfigFromBytes parses a world configuration document from
// memory, useful for tests and for configs fetched from a non-file store.
func LoadWorldConfigFromBytes(data []byte) (*WorldConfig, error) {
	var cfg WorldConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing world config JSON: %w", err)
	}
	return &cfg, nil
}

// IsTransparent reports whether material id resolves to a transparent
// material according to cfg's table, falling back to
// DefaultTransparentMaterialID when cfg carries no table at all.
func (c *WorldConfig) IsTransparent(materialID uint16) bool {
	if len(c.Materials) == 0 {
		return materialID == DefaultTransparentMaterialID
	}
	for _, m := range c.Materials {
		if m.ID == int(materialID) {
			return m.Transparent > 0.5
		}
	}
	return false
}
