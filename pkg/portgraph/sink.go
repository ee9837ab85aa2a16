package portgraph

import "github.com/dshills/svdagen/pkg/svdagerr"

// SinkCategory identifies one of the four raster categories the super-chunk
// generator extracts from a completed execution.
type SinkCategory int

const (
	// SinkHeight identifies the height raster sink (required).
	SinkHeight SinkCategory = iota
	// SinkBiome identifies the biome raster sink (optional, defaults to zero-fill).
	SinkBiome
	// SinkBlock identifies the block/material raster sink (optional, defaults to zero-fill).
	SinkBlock
	// SinkWater identifies an optional pre-carve water-seed raster (lakes/ponds).
	SinkWater
)

// Sink is implemented by node kinds that want to mark one of their output
// ports as a candidate for a super-chunk raster. A node kind that is the
// pipeline's canonical sink (e.g. a dedicated "height_sink" kind) should
// return a high SinkPriority; a node kind that merely produces a plausible
// fallback (e.g. "normalize", whose last instance stands in for height when
// no explicit sink exists) should return a low priority.
//
// The zero value (registered factories that don't implement Sink) simply
// never participates in extraction.
type Sink interface {
	SinkCategory() SinkCategory
	SinkPort() string
	SinkPriority() int
}

type sinkCandidate struct {
	id       string
	port     string
	priority int
}

// ExtractSinks scans results, in topological order so "most recent" ties
// resolve correctly, for the best candidate per SinkCategory. Height has no
// default for a non-empty graph: a populated graph that produces no height
// candidate at all fails with MissingOutputError, since that signals a
// misconfigured world rather than an intentionally absent one. The one
// exception is the documented empty-graph fallback (no nodes at all, e.g.
// when a world carries no graph.json): that degrades to a flat,
// zero-height default rather than failing, so a world with no graph still
// yields chunks. Biome, block, and water always default to zero-filled
// rasters when absent, per the documented fallback rule.
func ExtractSinks(g *Graph, registry *Registry, order []string, results Results, resolution int) (height F32Raster, biome U8Raster, block U16Raster, water U8Raster, err error) {
	nodesByID := g.byID()
	candidates := make(map[SinkCategory]sinkCandidate)

	for _, id := range order {
		desc, ok := nodesByID[id]
		if !ok {
			continue
		}
		node, ok := registry.New(desc.Type)
		if !ok {
			continue
		}
		sinkNode, ok := node.(Sink)
		if !ok {
			continue
		}
		bundle, ok := results[id]
		if !ok {
			continue
		}
		if _, ok := bundle[sinkNode.SinkPort()]; !ok {
			continue
		}

		cat := sinkNode.SinkCategory()
		existing, has := candidates[cat]
		if !has || sinkNode.SinkPriority() >= existing.priority {
			candidates[cat] = sinkCandidate{id: id, port: sinkNode.SinkPort(), priority: sinkNode.SinkPriority()}
		}
	}

	height, err = extractF32(results, candidates, SinkHeight, resolution, len(g.Nodes) == 0)
	if err != nil {
		return F32Raster{}, U8Raster{}, U16Raster{}, U8Raster{}, err
	}

	biome, err = extractU8(results, candidates, SinkBiome, resolution)
	if err != nil {
		return F32Raster{}, U8Raster{}, U16Raster{}, U8Raster{}, err
	}

	block, err = extractU16(results, candidates, SinkBlock, resolution)
	if err != nil {
		return F32Raster{}, U8Raster{}, U16Raster{}, U8Raster{}, err
	}

	water, err = extractU8(results, candidates, SinkWater, resolution)
	if err != nil {
		return F32Raster{}, U8Raster{}, U16Raster{}, U8Raster{}, err
	}

	return height, biome, block, water, nil
}

func extractF32(results Results, candidates map[SinkCategory]sinkCandidate, cat SinkCategory, resolution int, allowDefault bool) (F32Raster, error) {
	c, ok := candidates[cat]
	if !ok {
		if allowDefault {
			return NewF32Raster(resolution), nil
		}
		return F32Raster{}, svdagerr.New(svdagerr.ErrMissingOutput, "no candidate raster for required sink \"heightMap\"")
	}
	v := results[c.id][c.port]
	r, ok := v.(F32Raster)
	if !ok {
		return F32Raster{}, svdagerr.New(svdagerr.ErrConfig, "sink node output port is not an F32_RASTER")
	}
	return r, nil
}

func extractU8(results Results, candidates map[SinkCategory]sinkCandidate, cat SinkCategory, resolution int) (U8Raster, error) {
	c, ok := candidates[cat]
	if !ok {
		return NewU8Raster(resolution), nil
	}
	v := results[c.id][c.port]
	r, ok := v.(U8Raster)
	if !ok {
		return U8Raster{}, svdagerr.New(svdagerr.ErrConfig, "sink node output port is not a U8_RASTER")
	}
	return r, nil
}

func extractU16(results Results, candidates map[SinkCategory]sinkCandidate, cat SinkCategory, resolution int) (U16Raster, error) {
	c, ok := candidates[cat]
	if !ok {
		return NewU16Raster(resolution), nil
	}
	v := results[c.id][c.port]
	r, ok := v.(U16Raster)
	if !ok {
		return U16Raster{}, svdagerr.New(svdagerr.ErrConfig, "sink node output port is not a U16_RASTER")
	}
	return r, nil
}
