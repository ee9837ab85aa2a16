package superchunk

// Size is the fixed region width and height in columns.
const Size = 512

// FormatVersion is bumped whenever the on-disk raster format changes
// incompatibly; a stale version on a cached metadata.json forces
// regeneration.
const FormatVersion = 1

// RegionDescriptor identifies a 512x512 execution window in world units.
type RegionDescriptor struct {
	X      int
	Z      int
	Width  int
	Height int
	Seed   uint64
}

// SuperChunk holds the four regional rasters plus their generation
// metadata, exactly as persisted under worlds/{worldId}/superchunks/{sx}_{sz}/.
type SuperChunk struct {
	SX, SZ int

	HeightMap []float32 // len == Size*Size, values in [0,1]
	BiomeMap  []uint8   // len == Size*Size
	RiverMap  []uint8   // len == Size*Size, 0 or 1
	BlockMap  []uint16  // len == Size*Size

	Metadata Metadata
}

// Metadata accompanies a super chunk's rasters on disk.
type Metadata struct {
	SX             int     `json:"sx"`
	SZ             int     `json:"sz"`
	GeneratedAt    int64   `json:"generatedAt"`
	GenerationTime float64 `json:"generationTime"`
	Version        int     `json:"version"`
}
