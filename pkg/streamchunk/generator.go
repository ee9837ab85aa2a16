package streamchunk

import (
	"fmt"

	"github.com/dshills/svdagen/pkg/portgraph"
	"github.com/dshills/svdagen/pkg/superchunk"
	"github.com/dshills/svdagen/pkg/svdag"
	"github.com/dshills/svdagen/pkg/worldcache"
	"github.com/dshills/svdagen/pkg/worldcfg"
)

// StreamChunk is the fully built result of generating one voxel chunk.
type StreamChunk struct {
	CX, CY, CZ int
	Container  *svdag.Chunk
}

// Generator produces and caches stream chunks.
type Generator struct {
	store         *worldcache.Store
	superChunkGen *superchunk.Generator
	worldCfg      *worldcfg.WorldConfig
}

// NewGenerator creates a Generator backed by store, resolving super chunks
// through superChunkGen and masking opacity per worldCfg's material table.
func NewGenerator(store *worldcache.Store, superChunkGen *superchunk.Generator, worldCfg *worldcfg.WorldConfig) *Generator {
	return &Generator{store: store, superChunkGen: superChunkGen, worldCfg: worldCfg}
}

// Generate returns the stream chunk for (cx, cy, cz), consulting the cache
// first.
func (g *Generator) Generate(worldID string, cx, cy, cz int, graph *portgraph.Graph, worldSeed uint64) (*StreamChunk, error) {
	key := worldcache.ChunkKey(worldID, cx, cy, cz)

	if cached, ok := g.store.Chunks.Get(key); ok {
		return cached.(*StreamChunk), nil
	}

	v, err := g.store.ChunkFlight().Do(key, func() (interface{}, error) {
		if sc, ok, err := g.loadFromDisk(worldID, cx, cy, cz); err != nil {
			return nil, err
		} else if ok {
			g.store.Chunks.Put(key, sc)
			return sc, nil
		}

		built, err := g.compute(worldID, cx, cy, cz, graph, worldSeed)
		if err != nil {
			return nil, err
		}
		if err := g.persist(worldID, built); err != nil {
			return nil, err
		}
		g.store.Chunks.Put(key, built)
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*StreamChunk), nil
}

func (g *Generator) loadFromDisk(worldID string, cx, cy, cz int) (*StreamChunk, bool, error) {
	path := worldcache.ChunkPath(g.store.Root, worldID, cx, cy, cz)
	data, ok, err := worldcache.ReadFile(path)
	if err != nil || !ok {
		return nil, false, nil
	}

	container, err := svdag.Decode(data)
	if err != nil {
		if qerr := worldcache.QuarantineCorrupt(path); qerr != nil {
			return nil, false, fmt.Errorf("quarantining corrupt chunk %s: %w (decode error: %v)", path, qerr, err)
		}
		return nil, false, nil
	}

	return &StreamChunk{CX: cx, CY: cy, CZ: cz, Container: container}, true, nil
}

func (g *Generator) compute(worldID string, cx, cy, cz int, graph *portgraph.Graph, worldSeed uint64) (*StreamChunk, error) {
	sx, sz := SuperChunkCoords(cx, cz)
	sc, err := g.superChunkGen.Generate(worldID, sx, sz, graph, worldSeed)
	if err != nil {
		return nil, fmt.Errorf("resolving super chunk (%d,%d): %w", sx, sz, err)
	}

	matGrid := ExtractGrid(sc, cx, cy, cz)

	opqGrid := make([]uint16, len(matGrid))
	copy(opqGrid, matGrid)
	for i, m := range opqGrid {
		if g.worldCfg.IsTransparent(m) {
			opqGrid[i] = 0
		}
	}

	matDAG, err := svdag.Build(svdag.Grid{Size: Size, Data: matGrid}, Size)
	if err != nil {
		return nil, fmt.Errorf("building material SVDAG: %w", err)
	}
	opqDAG, err := svdag.Build(svdag.Grid{Size: Size, Data: opqGrid}, Size)
	if err != nil {
		return nil, fmt.Errorf("building opaque SVDAG: %w", err)
	}

	return &StreamChunk{
		CX: cx, CY: cy, CZ: cz,
		Container: &svdag.Chunk{
			ChunkSize: Size,
			Material:  matDAG,
			Opaque:    opqDAG,
			HasOpaque: true,
		},
	}, nil
}

func (g *Generator) persist(worldID string, sc *StreamChunk) error {
	data := svdag.Encode(sc.Container)
	path := worldcache.ChunkPath(g.store.Root, worldID, sc.CX, sc.CY, sc.CZ)
	if err := worldcache.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("persisting chunk %s: %w", path, err)
	}
	return nil
}
