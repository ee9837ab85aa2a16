package worldcfg

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/svdagen/pkg/portgraph"
)

// LoadGraphDescriptor reads and parses a graph descriptor file directly
// into a portgraph.Graph.
func LoadGraphDescriptor(path string) (*portgraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph descriptor: %w", err)
	}
	return LoadGraphDescriptorFromBytes(data)
}

// LoadGraphDescriptorFromBytes parses a graph descriptor document held in
// memory.
func LoadGraphDescriptorFromBytes(data []byte) (*portgraph.Graph, error) {
	var g portgraph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing graph descriptor JSON: %w", err)
	}
	return &g, nil
}

// DefaultGraphDescriptor is the documented fallback for a missing graph
// file: an empty graph, which the executor runs to zero results. Because
// the graph carries no nodes at all, portgraph.ExtractSinks recognizes it
// as the empty-graph case and defaults height to a flat zero raster
// instead of failing with MissingOutputError, so a world with no graph
// still yields chunks (they resolve to all-air, since zero height never
// clears sea level).
func DefaultGraphDescriptor() *portgraph.Graph {
	return &portgraph.Graph{}
}
