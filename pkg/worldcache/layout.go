package worldcache

import (
	"fmt"
	"path/filepath"
)

// SuperChunkDir returns the directory holding one super chunk's rasters and
// metadata.
func SuperChunkDir(root, worldID string, sx, sz int) string {
	return filepath.Join(root, "worlds", worldID, "superchunks", fmt.Sprintf("%d_%d", sx, sz))
}

// SuperChunkRasterPath returns the path to one of the four raster files
// within a super chunk's directory. name must be one of "heightmap",
// "biomemap", "rivermap", "blockmap".
func SuperChunkRasterPath(root, worldID string, sx, sz int, name string) string {
	return filepath.Join(SuperChunkDir(root, worldID, sx, sz), name+".bin")
}

// SuperChunkMetadataPath returns the path to a super chunk's metadata.json.
func SuperChunkMetadataPath(root, worldID string, sx, sz int) string {
	return filepath.Join(SuperChunkDir(root, worldID, sx, sz), "metadata.json")
}

// ChunkDir returns the directory holding one world's stream chunks.
func ChunkDir(root, worldID string) string {
	return filepath.Join(root, "worlds", worldID, "chunks")
}

// ChunkPath returns the path to a single stream chunk's binary container.
func ChunkPath(root, worldID string, cx, cy, cz int) string {
	return filepath.Join(ChunkDir(root, worldID), fmt.Sprintf("%d_%d_%d.svdag", cx, cy, cz))
}

// SuperChunkKey returns the cache/single-flight key for one super chunk.
func SuperChunkKey(worldID string, sx, sz int) string {
	return fmt.Sprintf("sc:%s:%d:%d", worldID, sx, sz)
}

// ChunkKey returns the cache/single-flight key for one stream chunk.
func ChunkKey(worldID string, cx, cy, cz int) string {
	return fmt.Sprintf("c:%s:%d:%d:%d", worldID, cx, cy, cz)
}
