package superchunk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dshills/svdagen/pkg/portgraph"
	"github.com/dshills/svdagen/pkg/rng"
	"github.com/dshills/svdagen/pkg/worldcache"
)

// Generator produces and caches super chunks.
type Generator struct {
	store    *worldcache.Store
	registry *portgraph.Registry
}

// NewGenerator creates a Generator backed by store, executing graphs
// against registry.
func NewGenerator(store *worldcache.Store, registry *portgraph.Registry) *Generator {
	return &Generator{store: store, registry: registry}
}

// Generate returns the super chunk for (sx, sz), consulting the cache
// first, then the in-flight single-flight group, before computing from
// scratch.
func (g *Generator) Generate(worldID string, sx, sz int, graph *portgraph.Graph, worldSeed uint64) (*SuperChunk, error) {
	key := worldcache.SuperChunkKey(worldID, sx, sz)

	if cached, ok := g.store.SuperChunks.Get(key); ok {
		return cached.(*SuperChunk), nil
	}

	v, err := g.store.SuperChunkFlight().Do(key, func() (interface{}, error) {
		if sc, ok, err := g.loadFromDisk(worldID, sx, sz); err != nil {
			return nil, err
		} else if ok {
			g.store.SuperChunks.Put(key, sc)
			return sc, nil
		}

		sc, err := g.compute(worldID, sx, sz, graph, worldSeed)
		if err != nil {
			return nil, err
		}
		if err := g.persist(worldID, sc); err != nil {
			return nil, err
		}
		g.store.SuperChunks.Put(key, sc)
		return sc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SuperChunk), nil
}

// loadFromDisk attempts to deserialize a super chunk from its cache
// directory. A cache-read failure is not fatal: callers recompute.
func (g *Generator) loadFromDisk(worldID string, sx, sz int) (*SuperChunk, bool, error) {
	metaPath := worldcache.SuperChunkMetadataPath(g.store.Root, worldID, sx, sz)
	metaBytes, ok, err := worldcache.ReadFile(metaPath)
	if err != nil || !ok {
		return nil, false, nil
	}

	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, false, nil
	}
	if meta.Version != FormatVersion {
		return nil, false, nil
	}

	height, ok1, err := worldcache.ReadF32Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sx, sz, "heightmap"))
	if err != nil || !ok1 {
		return nil, false, nil
	}
	biome, ok2, err := worldcache.ReadU8Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sx, sz, "biomemap"))
	if err != nil || !ok2 {
		return nil, false, nil
	}
	river, ok3, err := worldcache.ReadU8Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sx, sz, "rivermap"))
	if err != nil || !ok3 {
		return nil, false, nil
	}
	block, ok4, err := worldcache.ReadU16Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sx, sz, "blockmap"))
	if err != nil || !ok4 {
		return nil, false, nil
	}

	if len(height) != Size*Size || len(biome) != Size*Size || len(river) != Size*Size || len(block) != Size*Size {
		return nil, false, nil
	}

	return &SuperChunk{
		SX: sx, SZ: sz,
		HeightMap: height, BiomeMap: biome, RiverMap: river, BlockMap: block,
		Metadata: meta,
	}, true, nil
}

// compute executes the graph for region (sx, sz) and carves rivers across
// the result.
func (g *Generator) compute(worldID string, sx, sz int, graph *portgraph.Graph, worldSeed uint64) (*SuperChunk, error) {
	started := time.Now()

	region := RegionDescriptor{
		X: sx * Size, Z: sz * Size,
		Width: Size, Height: Size,
		Seed: rng.NewRNG(worldSeed, fmt.Sprintf("region:%s:%d:%d", worldID, sx, sz), nil).Seed(),
	}

	order, err := portgraph.TopoSort(graph)
	if err != nil {
		return nil, err
	}

	results, err := portgraph.Execute(graph, g.registry, portgraph.ExecParams{
		Resolution: Size,
		Seed:       region.Seed,
		OffsetX:    region.X,
		OffsetZ:    region.Z,
	})
	if err != nil {
		return nil, err
	}

	height, biome, block, _, err := portgraph.ExtractSinks(graph, g.registry, order, results, Size)
	if err != nil {
		return nil, err
	}

	river := make([]uint8, Size*Size)
	heightCopy := make([]float32, Size*Size)
	copy(heightCopy, height.Data)

	carveRivers(heightCopy, river, worldSeed, worldID, sx, sz)

	return &SuperChunk{
		SX: sx, SZ: sz,
		HeightMap: heightCopy,
		BiomeMap:  biome.Data,
		RiverMap:  river,
		BlockMap:  block.Data,
		Metadata: Metadata{
			SX: sx, SZ: sz, Version: FormatVersion,
			GeneratedAt:    time.Now().Unix(),
			GenerationTime: time.Since(started).Seconds(),
		},
	}, nil
}

// persist atomically writes sc's four rasters and metadata to disk.
func (g *Generator) persist(worldID string, sc *SuperChunk) error {
	if err := worldcache.WriteF32Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sc.SX, sc.SZ, "heightmap"), sc.HeightMap); err != nil {
		return fmt.Errorf("persisting heightmap: %w", err)
	}
	if err := worldcache.WriteU8Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sc.SX, sc.SZ, "biomemap"), sc.BiomeMap); err != nil {
		return fmt.Errorf("persisting biomemap: %w", err)
	}
	if err := worldcache.WriteU8Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sc.SX, sc.SZ, "rivermap"), sc.RiverMap); err != nil {
		return fmt.Errorf("persisting rivermap: %w", err)
	}
	if err := worldcache.WriteU16Raster(worldcache.SuperChunkRasterPath(g.store.Root, worldID, sc.SX, sc.SZ, "blockmap"), sc.BlockMap); err != nil {
		return fmt.Errorf("persisting blockmap: %w", err)
	}

	metaBytes, err := json.Marshal(sc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling super-chunk metadata: %w", err)
	}
	if err := worldcache.WriteFileAtomic(worldcache.SuperChunkMetadataPath(g.store.Root, worldID, sc.SX, sc.SZ), metaBytes, 0644); err != nil {
		return fmt.Errorf("persisting super-chunk metadata: %w", err)
	}
	return nil
}
